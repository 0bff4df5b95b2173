package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
	"github.com/lifedesigner21/whole-pod-sub000/internal/repository"
	"github.com/lifedesigner21/whole-pod-sub000/internal/service"
)

// MilestoneHandler handles milestone-related HTTP requests
type MilestoneHandler struct {
	milestoneRepo *repository.MilestoneRepository
	progress      *service.Progress
}

func NewMilestoneHandler(milestoneRepo *repository.MilestoneRepository, progress *service.Progress) *MilestoneHandler {
	return &MilestoneHandler{milestoneRepo: milestoneRepo, progress: progress}
}

// CreateMilestoneRequest defines the expected request body for creating a milestone
type CreateMilestoneRequest struct {
	ProjectID     string     `json:"project_id" binding:"required"`
	Name          string     `json:"name" binding:"required"`
	Description   string     `json:"description"`
	PodDesigner   string     `json:"pod_designer"`
	PodDesignerID string     `json:"pod_designer_id"`
	Client        string     `json:"client"`
	ClientID      string     `json:"client_id"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Amount        float64    `json:"amount"`
}

// UpdateMilestoneRequest carries a partial milestone edit. Progress is not
// editable here; it is only ever written by the recompute.
type UpdateMilestoneRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	PodDesigner *string    `json:"pod_designer"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Amount      *float64   `json:"amount"`
}

// Create creates a new milestone in a project
func (h *MilestoneHandler) Create(c *gin.Context) {
	var req CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	milestone := &model.Milestone{
		ProjectID:     projectID,
		Name:          req.Name,
		Description:   req.Description,
		PodDesigner:   req.PodDesigner,
		PodDesignerID: req.PodDesignerID,
		Client:        req.Client,
		ClientID:      req.ClientID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Amount:        req.Amount,
	}

	if err := h.milestoneRepo.Create(c.Request.Context(), milestone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create milestone"})
		return
	}

	// A new, empty milestone dilutes the project average.
	if _, err := h.progress.RecomputeProject(c.Request.Context(), projectID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute project progress"})
		return
	}

	c.JSON(http.StatusCreated, milestone)
}

// GetByID retrieves a single milestone
func (h *MilestoneHandler) GetByID(c *gin.Context) {
	milestoneID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	milestone, err := h.milestoneRepo.GetByID(c.Request.Context(), milestoneID)
	if err != nil {
		if errors.Is(err, repository.ErrMilestoneNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve milestone"})
		return
	}

	c.JSON(http.StatusOK, milestone)
}

// ListByProject retrieves the milestones of a project. Soft-deleted ones are
// included only when include_deleted=true is passed.
func (h *MilestoneHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	includeDeleted := c.Query("include_deleted") == "true"

	milestones, err := h.milestoneRepo.ListByProject(c.Request.Context(), projectID, includeDeleted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve milestones"})
		return
	}

	c.JSON(http.StatusOK, milestones)
}

// Update performs a partial edit of a milestone
func (h *MilestoneHandler) Update(c *gin.Context) {
	milestoneID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.PodDesigner != nil {
		fields["podDesigner"] = *req.PodDesigner
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.StartDate != nil {
		fields["startDate"] = *req.StartDate
	}
	if req.EndDate != nil {
		fields["endDate"] = *req.EndDate
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.milestoneRepo.Update(c.Request.Context(), milestoneID, fields); err != nil {
		if errors.Is(err, repository.ErrMilestoneNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update milestone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Milestone updated"})
}

// Delete soft-deletes the milestone and re-rolls the project's progress, since
// a deleted milestone no longer counts toward the average.
func (h *MilestoneHandler) Delete(c *gin.Context) {
	milestoneID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	milestone, err := h.milestoneRepo.GetByID(c.Request.Context(), milestoneID)
	if err != nil {
		if errors.Is(err, repository.ErrMilestoneNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve milestone"})
		return
	}

	if err := h.milestoneRepo.SoftDelete(c.Request.Context(), milestoneID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete milestone"})
		return
	}

	if _, err := h.progress.RecomputeProject(c.Request.Context(), milestone.ProjectID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute project progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Milestone deleted"})
}
