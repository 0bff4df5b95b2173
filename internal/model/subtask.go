package model

import "time"

// Subtask is embedded in a Task document, not a separate collection. Each entry
// carries a generated id so concurrent edits address content by id instead of
// by array position; order within the slice is preserved on every write.
type Subtask struct {
	ID             string     `bson:"id" json:"id"`
	Name           string     `bson:"name" json:"name"`
	Brief          string     `bson:"brief,omitempty" json:"brief,omitempty"`
	EstimatedHours float64    `bson:"estimatedHours,omitempty" json:"estimated_hours,omitempty"`
	StartDate      *time.Time `bson:"startDate,omitempty" json:"start_date,omitempty"`
	EndDate        *time.Time `bson:"endDate,omitempty" json:"end_date,omitempty"`
	DesignerID     string     `bson:"designerId,omitempty" json:"designer_id,omitempty"`
	DesignerName   string     `bson:"designerName,omitempty" json:"designer_name,omitempty"`
	Status         string     `bson:"status" json:"status"`
	IsApproved     bool       `bson:"isApproved" json:"is_approved"`
}
