package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses form an open label set: the status selector in the client may
// assign any of these freely. Only Complete, Approve, RequestRevision and Hold
// carry side effects (see service.TaskWorkflow).
const (
	StatusToDo         = "To Do"
	StatusInProgress   = "In Progress"
	StatusInfoRequired = "Info Required"
	StatusInReview     = "In Review"
	StatusReview       = "Review"
	StatusCompleted    = "Completed"
	StatusInRevision   = "In Revision"
)

// Task priorities
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

type Task struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID        primitive.ObjectID `bson:"projectId" json:"project_id"`
	MilestoneID      primitive.ObjectID `bson:"milestoneId" json:"milestone_id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Status           string             `bson:"status" json:"status"`
	Priority         string             `bson:"priority,omitempty" json:"priority,omitempty"`
	AssignedTo       string             `bson:"assignedTo,omitempty" json:"assigned_to,omitempty"`
	AssignedToName   string             `bson:"assignedToName,omitempty" json:"assigned_to_name,omitempty"`
	DueDate          *time.Time         `bson:"dueDate,omitempty" json:"due_date,omitempty"`
	StartDate        *time.Time         `bson:"startDate,omitempty" json:"start_date,omitempty"`
	EstimatedMinutes int                `bson:"estimatedMinutes,omitempty" json:"estimated_minutes,omitempty"`
	ActualMinutes    int                `bson:"actualMinutes" json:"actual_minutes"`
	CreatedAt        time.Time          `bson:"createdAt" json:"created_at"`
	IsDeleted        bool               `bson:"isDeleted" json:"is_deleted"`
	IsApproved       bool               `bson:"isApproved" json:"is_approved"`
	IsRevision       bool               `bson:"isRevision" json:"is_revision"`
	RevisionReasons  []string           `bson:"revisionReasons,omitempty" json:"revision_reasons,omitempty"`
	OnHoldReason     string             `bson:"onHoldReason,omitempty" json:"on_hold_reason,omitempty"`
	CompletedProof   string             `bson:"completedProof,omitempty" json:"completed_proof,omitempty"`
	Subtasks         []Subtask          `bson:"subtasks,omitempty" json:"subtasks,omitempty"`
}

// CurrentRevisionReason returns the last requested revision reason. The list is
// append-only; only the newest entry is ever shown as current.
func (t *Task) CurrentRevisionReason() string {
	if len(t.RevisionReasons) == 0 {
		return ""
	}
	return t.RevisionReasons[len(t.RevisionReasons)-1]
}
