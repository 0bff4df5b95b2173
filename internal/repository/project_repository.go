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

type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection("projects")}
}

// Create inserts a new project document and fills in its assigned ID.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if project.Status == "" {
		project.Status = model.ProjectActive
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}

	result, err := r.coll.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID retrieves a project by its ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error) {
	var project model.Project
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List retrieves all non-deleted projects.
func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"isDeleted": bson.M{"$ne": true}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []model.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// Update merges the given fields into the project document.
func (r *ProjectRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// SoftDelete marks the project deleted without cascading to its milestones.
func (r *ProjectRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, bson.M{"isDeleted": true})
}
