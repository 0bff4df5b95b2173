package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
)

type MilestoneRepository struct {
	coll *mongo.Collection
}

func NewMilestoneRepository(db *mongo.Database) *MilestoneRepository {
	return &MilestoneRepository{coll: db.Collection("milestones")}
}

// Create inserts a new milestone document and fills in its assigned ID.
func (r *MilestoneRepository) Create(ctx context.Context, milestone *model.Milestone) error {
	if milestone.CreatedAt.IsZero() {
		milestone.CreatedAt = time.Now()
	}

	result, err := r.coll.InsertOne(ctx, milestone)
	if err != nil {
		return fmt.Errorf("failed to create milestone: %w", err)
	}
	milestone.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID retrieves a milestone by its ID.
func (r *MilestoneRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Milestone, error) {
	var milestone model.Milestone
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&milestone)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMilestoneNotFound
		}
		return nil, err
	}
	return &milestone, nil
}

// ListByProject retrieves the milestones of a project, excluding soft-deleted
// ones unless includeDeleted is set.
func (r *MilestoneRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID, includeDeleted bool) ([]model.Milestone, error) {
	filter := bson.M{"projectId": projectID}
	if !includeDeleted {
		filter["isDeleted"] = bson.M{"$ne": true}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve milestones: %w", err)
	}
	defer cursor.Close(ctx)

	var milestones []model.Milestone
	if err := cursor.All(ctx, &milestones); err != nil {
		return nil, fmt.Errorf("failed to decode milestones: %w", err)
	}
	return milestones, nil
}

// Update merges the given fields into the milestone document.
func (r *MilestoneRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update milestone: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}

// SoftDelete marks the milestone deleted without touching its tasks.
func (r *MilestoneRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, bson.M{"isDeleted": true})
}
