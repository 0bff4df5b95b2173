package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses. "Completed" is auto-promoted/demoted by the progress
// roll-up; "On Hold" is only ever set manually.
const (
	ProjectActive    = "Active"
	ProjectOnHold    = "On Hold"
	ProjectCompleted = "Completed"
)

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Client      string             `bson:"client,omitempty" json:"client,omitempty"`
	ClientID    string             `bson:"clientId,omitempty" json:"client_id,omitempty"`
	Status      string             `bson:"status" json:"status"`
	// Progress is the average of the non-deleted milestones' progress values,
	// persisted by service.Progress after every roll-up.
	Progress    int       `bson:"progress" json:"progress"`
	PaidAmount  float64   `bson:"paidAmount" json:"paid_amount"`
	TotalAmount float64   `bson:"totalAmount" json:"total_amount"`
	IsDeleted   bool      `bson:"isDeleted" json:"is_deleted"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
}
