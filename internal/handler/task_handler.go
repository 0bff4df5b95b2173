package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifedesigner21/whole-pod-sub000/internal/middleware"
	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
	"github.com/lifedesigner21/whole-pod-sub000/internal/repository"
	"github.com/lifedesigner21/whole-pod-sub000/internal/service"
)

// TaskStore defines the task persistence operations the handler reads and
// edits directly; every status or workflow mutation goes through TaskWorkflow
// instead.
type TaskStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Task, error)
	ListByMilestone(ctx context.Context, projectID, milestoneID primitive.ObjectID, includeDeleted bool) ([]model.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]model.Task, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	AddSubtask(ctx context.Context, id primitive.ObjectID, subtask model.Subtask) error
	UpdateSubtask(ctx context.Context, id primitive.ObjectID, subtaskID string, fields bson.M) error
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	tasks    TaskStore
	workflow *service.TaskWorkflow
}

func NewTaskHandler(tasks TaskStore, workflow *service.TaskWorkflow) *TaskHandler {
	return &TaskHandler{tasks: tasks, workflow: workflow}
}

// CreateTaskRequest defines the expected request body for creating a task
type CreateTaskRequest struct {
	ProjectID        string     `json:"project_id" binding:"required"`
	MilestoneID      string     `json:"milestone_id" binding:"required"`
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	Priority         string     `json:"priority" binding:"omitempty,oneof=High Medium Low"`
	AssignedTo       string     `json:"assigned_to"`
	AssignedToName   string     `json:"assigned_to_name"`
	DueDate          *time.Time `json:"due_date"`
	StartDate        *time.Time `json:"start_date"`
	EstimatedMinutes int        `json:"estimated_minutes"`
}

// UpdateTaskRequest carries a partial edit; only non-nil fields are written.
type UpdateTaskRequest struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Priority         *string    `json:"priority"`
	AssignedTo       *string    `json:"assigned_to"`
	AssignedToName   *string    `json:"assigned_to_name"`
	DueDate          *time.Time `json:"due_date"`
	StartDate        *time.Time `json:"start_date"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
}

// StatusRequest carries a bare status label for the generic status change.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReasonRequest carries the free-text reason for Hold and RequestRevision.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// CompleteRequest carries the proof URL required to complete a task.
type CompleteRequest struct {
	ProofURL string `json:"proof_url"`
}

// SubtaskRequest defines the expected request body for adding a subtask
type SubtaskRequest struct {
	Name           string     `json:"name" binding:"required"`
	Brief          string     `json:"brief"`
	EstimatedHours float64    `json:"estimated_hours"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	DesignerID     string     `json:"designer_id"`
	DesignerName   string     `json:"designer_name"`
}

// UpdateSubtaskRequest carries a partial subtask edit addressed by subtask id.
type UpdateSubtaskRequest struct {
	Status     *string `json:"status"`
	IsApproved *bool   `json:"is_approved"`
}

func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param + " format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// Create creates a new task under a milestone
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}
	milestoneID, err := primitive.ObjectIDFromHex(req.MilestoneID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid milestone ID format"})
		return
	}

	task := &model.Task{
		ProjectID:        projectID,
		MilestoneID:      milestoneID,
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		AssignedTo:       req.AssignedTo,
		AssignedToName:   req.AssignedToName,
		DueDate:          req.DueDate,
		StartDate:        req.StartDate,
		EstimatedMinutes: req.EstimatedMinutes,
	}

	// The workflow creates the task and refreshes the milestone's progress,
	// since a fresh task lowers the completion percentage.
	if err := h.workflow.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListMine retrieves the non-deleted tasks assigned to the caller
func (h *TaskHandler) ListMine(c *gin.Context) {
	session := middleware.SessionFrom(c)

	tasks, err := h.tasks.ListByAssignee(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetByID retrieves a single task
func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListByMilestone retrieves the tasks under a milestone. Soft-deleted tasks
// are included only when include_deleted=true is passed, for audit views.
func (h *TaskHandler) ListByMilestone(c *gin.Context) {
	projectID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := parseObjectID(c, "milestone_id")
	if !ok {
		return
	}

	includeDeleted := c.Query("include_deleted") == "true"

	tasks, err := h.tasks.ListByMilestone(c.Request.Context(), projectID, milestoneID, includeDeleted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Update performs a partial edit of a task's descriptive fields. Status and
// workflow flags are only reachable through the dedicated actions.
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fields := bson.M{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.AssignedTo != nil {
		fields["assignedTo"] = *req.AssignedTo
	}
	if req.AssignedToName != nil {
		fields["assignedToName"] = *req.AssignedToName
	}
	if req.DueDate != nil {
		fields["dueDate"] = *req.DueDate
	}
	if req.StartDate != nil {
		fields["startDate"] = *req.StartDate
	}
	if req.EstimatedMinutes != nil {
		fields["estimatedMinutes"] = *req.EstimatedMinutes
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.tasks.Update(c.Request.Context(), taskID, fields); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// ChangeStatus assigns an arbitrary status label
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.workflow.ChangeStatus(c.Request.Context(), taskID, req.Status); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// StartTimer begins the task's stopwatch
func (h *TaskHandler) StartTimer(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	session := middleware.SessionFrom(c)
	if err := h.workflow.StartTimer(c.Request.Context(), session, taskID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Timer started"})
}

// Elapsed reports the task's accumulated worked seconds
func (h *TaskHandler) Elapsed(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"elapsed_seconds": h.workflow.ElapsedSeconds(taskID)})
}

// Hold pauses the task with a reason
func (h *TaskHandler) Hold(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session := middleware.SessionFrom(c)
	if err := h.workflow.Hold(c.Request.Context(), session, taskID, req.Reason); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task put on hold"})
}

// Complete finishes the task with a proof URL
func (h *TaskHandler) Complete(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session := middleware.SessionFrom(c)
	if err := h.workflow.Complete(c.Request.Context(), session, taskID, req.ProofURL); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task completed"})
}

// Approve marks the task approved (admin only)
func (h *TaskHandler) Approve(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	session := middleware.SessionFrom(c)
	if err := h.workflow.Approve(c.Request.Context(), session, taskID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task approved"})
}

// RequestRevision sends the task back with a reason (admin only)
func (h *TaskHandler) RequestRevision(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session := middleware.SessionFrom(c)
	if err := h.workflow.RequestRevision(c.Request.Context(), session, taskID, req.Reason); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Revision requested"})
}

// Delete soft-deletes the task
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.workflow.Delete(c.Request.Context(), taskID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// AddSubtask appends a subtask with a generated stable id
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req SubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	subtask := model.Subtask{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Brief:          req.Brief,
		EstimatedHours: req.EstimatedHours,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		DesignerID:     req.DesignerID,
		DesignerName:   req.DesignerName,
		Status:         model.StatusToDo,
	}

	if err := h.tasks.AddSubtask(c.Request.Context(), taskID, subtask); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add subtask"})
		return
	}

	c.JSON(http.StatusCreated, subtask)
}

// UpdateSubtask edits a subtask addressed by its stable id
func (h *TaskHandler) UpdateSubtask(c *gin.Context) {
	taskID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	subtaskID := c.Param("subtask_id")

	var req UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fields := bson.M{}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.IsApproved != nil {
		fields["isApproved"] = *req.IsApproved
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.tasks.UpdateSubtask(c.Request.Context(), taskID, subtaskID, fields); err != nil {
		if errors.Is(err, repository.ErrSubtaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subtask"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subtask updated"})
}

func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, service.ErrEmptyReason), errors.Is(err, service.ErrEmptyProof):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}
