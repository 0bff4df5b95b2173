package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
)

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection("tasks")}
}

// Create inserts a new task document and fills in its assigned ID.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.Status == "" {
		task.Status = model.StatusToDo
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	result, err := r.coll.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Task, error) {
	var task model.Task
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListByMilestone retrieves the tasks under a milestone. Soft-deleted tasks are
// excluded unless includeDeleted is set; audit views are the only callers that
// opt in.
func (r *TaskRepository) ListByMilestone(ctx context.Context, projectID, milestoneID primitive.ObjectID, includeDeleted bool) ([]model.Task, error) {
	filter := bson.M{"projectId": projectID, "milestoneId": milestoneID}
	if !includeDeleted {
		filter["isDeleted"] = bson.M{"$ne": true}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []model.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// ListByAssignee retrieves the non-deleted tasks assigned to a user.
func (r *TaskRepository) ListByAssignee(ctx context.Context, userID string) ([]model.Task, error) {
	cursor, err := r.coll.Find(ctx, bson.M{
		"assignedTo": userID,
		"isDeleted":  bson.M{"$ne": true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []model.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// Update merges the given fields into the task document. Fields not named are
// left untouched.
func (r *TaskRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// PushRevisionReason appends a reason to the task's revisionReasons list. The
// list is append-only; entries are never removed or rewritten.
func (r *TaskRepository) PushRevisionReason(ctx context.Context, id primitive.ObjectID, reason string) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"revisionReasons": reason},
	})
	if err != nil {
		return fmt.Errorf("failed to append revision reason: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SoftDelete marks the task deleted. The document persists for audit views;
// subtasks and related history are not cascaded.
func (r *TaskRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, bson.M{"isDeleted": true})
}

// AddSubtask appends a subtask to the task's embedded list, preserving order.
func (r *TaskRepository) AddSubtask(ctx context.Context, id primitive.ObjectID, subtask model.Subtask) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"subtasks": subtask},
	})
	if err != nil {
		return fmt.Errorf("failed to add subtask: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// UpdateSubtask merges fields into the subtask with the given id. Subtasks are
// addressed by their generated id, never by array position. The subtask id is
// part of the query filter: a task without that subtask matches nothing, so a
// bogus id cannot report success.
func (r *TaskRepository) UpdateSubtask(ctx context.Context, id primitive.ObjectID, subtaskID string, fields bson.M) error {
	set := bson.M{}
	for k, v := range fields {
		set["subtasks.$[st]."+k] = v
	}

	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"st.id": subtaskID}},
	})
	filter := bson.M{"_id": id, "subtasks.id": subtaskID}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set}, opts)
	if err != nil {
		return fmt.Errorf("failed to update subtask: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSubtaskNotFound
	}
	return nil
}
