package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
)

type NotificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{coll: db.Collection("notifications")}
}

// Create inserts a notification document.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	result, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	n.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// ListByUser retrieves a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
