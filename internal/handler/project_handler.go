package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
	"github.com/lifedesigner21/whole-pod-sub000/internal/repository"
	"github.com/lifedesigner21/whole-pod-sub000/internal/service"
)

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	projectRepo *repository.ProjectRepository
	progress    *service.Progress
	revenue     *service.Revenue
}

func NewProjectHandler(projectRepo *repository.ProjectRepository, progress *service.Progress, revenue *service.Revenue) *ProjectHandler {
	return &ProjectHandler{projectRepo: projectRepo, progress: progress, revenue: revenue}
}

// CreateProjectRequest defines the expected request body for creating a project
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Client      string  `json:"client"`
	ClientID    string  `json:"client_id"`
	TotalAmount float64 `json:"total_amount"`
}

// UpdateProjectRequest carries a partial project edit. Progress is never
// editable; status may be set manually (e.g. "On Hold") but is also rewritten
// by the roll-up when progress crosses 100.
type UpdateProjectRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Client      *string  `json:"client"`
	Status      *string  `json:"status" binding:"omitempty,oneof=Active 'On Hold' Completed"`
	PaidAmount  *float64 `json:"paid_amount"`
	TotalAmount *float64 `json:"total_amount"`
}

// Create creates a new project
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Client:      req.Client,
		ClientID:    req.ClientID,
		TotalAmount: req.TotalAmount,
	}

	if err := h.projectRepo.Create(c.Request.Context(), project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetAll retrieves all non-deleted projects
func (h *ProjectHandler) GetAll(c *gin.Context) {
	projects, err := h.projectRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetByID retrieves a single project
func (h *ProjectHandler) GetByID(c *gin.Context) {
	projectID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// Update performs a partial edit of a project
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req UpdateProjectRequest
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
	if req.Client != nil {
		fields["client"] = *req.Client
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.PaidAmount != nil {
		fields["paidAmount"] = *req.PaidAmount
	}
	if req.TotalAmount != nil {
		fields["totalAmount"] = *req.TotalAmount
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.projectRepo.Update(c.Request.Context(), projectID, fields); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project updated"})
}

// Delete soft-deletes the project
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.projectRepo.SoftDelete(c.Request.Context(), projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// Recompute re-rolls the project's progress from its milestones on demand,
// applying the Completed/Active status auto-transition.
func (h *ProjectHandler) Recompute(c *gin.Context) {
	projectID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	percent, err := h.progress.RecomputeProject(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute project progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": percent})
}

// Revenue reports the project's derived money view
func (h *ProjectHandler) Revenue(c *gin.Context) {
	projectID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	summary, err := h.revenue.ProjectSummary(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
