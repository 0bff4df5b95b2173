package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Milestone struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID     primitive.ObjectID `bson:"projectId" json:"project_id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	PodDesigner   string             `bson:"podDesigner,omitempty" json:"pod_designer,omitempty"`
	PodDesignerID string             `bson:"podDesignerId,omitempty" json:"pod_designer_id,omitempty"`
	Client        string             `bson:"client,omitempty" json:"client,omitempty"`
	ClientID      string             `bson:"clientId,omitempty" json:"client_id,omitempty"`
	StartDate     *time.Time         `bson:"startDate,omitempty" json:"start_date,omitempty"`
	EndDate       *time.Time         `bson:"endDate,omitempty" json:"end_date,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	// Progress is denormalized: persisted on every status-affecting task write,
	// never computed on read. See service.Progress.
	Progress  int       `bson:"progress" json:"progress"`
	IsDeleted bool      `bson:"isDeleted" json:"is_deleted"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}
