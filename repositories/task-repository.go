package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gurkanusta/WorkNest/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sentinel due dates used to push tasks without a due date to the end of
// the result, whichever direction the due-date sort runs in.
var (
	dueDateFarFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	dueDateFarPast   = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
)

type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(collection *mongo.Collection) *TaskRepository {
	return &TaskRepository{collection: collection}
}

func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "status", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create index on tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) Create(ctx context.Context, task *models.TaskItem) error {
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TaskRepository) FindInProject(ctx context.Context, projectID, taskID primitive.ObjectID) (models.TaskItem, error) {
	var task models.TaskItem
	err := r.collection.FindOne(ctx, bson.M{"_id": taskID, "projectId": projectID}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TaskItem{}, ErrNotFound
		}
		return models.TaskItem{}, fmt.Errorf("failed to fetch task: %w", err)
	}
	return task, nil
}

// Update overwrites every mutable field of the task. The creation
// timestamp and project reference are never touched.
func (r *TaskRepository) Update(ctx context.Context, task models.TaskItem) error {
	filter := bson.M{"_id": task.ID, "projectId": task.ProjectID}
	update := bson.M{"$set": bson.M{
		"title":          task.Title,
		"description":    task.Description,
		"status":         task.Status,
		"dueDate":        task.DueDate,
		"assignedUserId": task.AssignedUserID,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, projectID, taskID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": taskID, "projectId": projectID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of the project's tasks plus the total count of the
// filtered set. The query is expected to be normalized already. The sort
// always carries _id as a secondary key so that ties resolve consistently
// across pages.
func (r *TaskRepository) List(ctx context.Context, projectID primitive.ObjectID, q models.TaskListQuery) ([]models.TaskItem, int64, error) {
	filter := bson.M{"projectId": projectID}
	if q.Status != nil {
		filter["status"] = *q.Status
	}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
	}

	switch q.Sort {
	case models.SortCreatedAtAsc:
		pipeline = append(pipeline,
			bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}})
	case models.SortDueDateAsc:
		// Missing due dates coalesce to a far-future sentinel: nulls last.
		pipeline = append(pipeline,
			bson.D{{Key: "$addFields", Value: bson.M{"dueSort": bson.M{"$ifNull": bson.A{"$dueDate", dueDateFarFuture}}}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "dueSort", Value: 1}, {Key: "_id", Value: 1}}}})
	case models.SortDueDateDesc:
		// Missing due dates coalesce to a far-past sentinel: nulls last.
		pipeline = append(pipeline,
			bson.D{{Key: "$addFields", Value: bson.M{"dueSort": bson.M{"$ifNull": bson.A{"$dueDate", dueDateFarPast}}}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "dueSort", Value: -1}, {Key: "_id", Value: 1}}}})
	default:
		pipeline = append(pipeline,
			bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$skip", Value: int64(q.Page-1) * int64(q.PageSize)}},
		bson.D{{Key: "$limit", Value: int64(q.PageSize)}})

	cursor, err := r.collection.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.TaskItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return items, total, nil
}
