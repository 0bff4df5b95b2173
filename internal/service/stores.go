package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
)

// Store interfaces consumed by the services. internal/repository provides the
// mongo-backed implementations; tests substitute in-memory fakes.

type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Task, error)
	ListByMilestone(ctx context.Context, projectID, milestoneID primitive.ObjectID, includeDeleted bool) ([]model.Task, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	PushRevisionReason(ctx context.Context, id primitive.ObjectID, reason string) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

type MilestoneStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Milestone, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID, includeDeleted bool) ([]model.Milestone, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
}

type ProjectStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
}
