package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"`
	Message   string             `bson:"message" json:"message"`
	TaskID    string             `bson:"taskId,omitempty" json:"task_id,omitempty"`
	ProjectID string             `bson:"projectId,omitempty" json:"project_id,omitempty"`
	IsRead    bool               `bson:"isRead" json:"is_read"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}
