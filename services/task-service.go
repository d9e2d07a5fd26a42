package services

import (
	"context"
	"errors"
	"time"

	"github.com/gurkanusta/WorkNest/models"
	"github.com/gurkanusta/WorkNest/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.TaskItem) error
	FindInProject(ctx context.Context, projectID, taskID primitive.ObjectID) (models.TaskItem, error)
	Update(ctx context.Context, task models.TaskItem) error
	Delete(ctx context.Context, projectID, taskID primitive.ObjectID) error
	List(ctx context.Context, projectID primitive.ObjectID, q models.TaskListQuery) ([]models.TaskItem, int64, error)
}

// TaskService performs all task operations behind the membership gate.
// Any member may create, edit or delete any task in the project; there is
// no per-task ownership.
type TaskService struct {
	tasks    TaskRepository
	projects *ProjectService
}

func NewTaskService(tasks TaskRepository, projects *ProjectService) *TaskService {
	return &TaskService{tasks: tasks, projects: projects}
}

// requireMember runs before any resource lookup so that non-members get
// ErrForbidden whether or not the project or task exists.
func (s *TaskService) requireMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	isMember, err := s.projects.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrForbidden
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, projectID, userID primitive.ObjectID, task models.TaskItem) (models.TaskItem, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return models.TaskItem{}, err
	}

	task.ID = primitive.NilObjectID
	task.ProjectID = projectID
	task.CreatedAt = time.Now().UTC()
	if err := s.tasks.Create(ctx, &task); err != nil {
		return models.TaskItem{}, err
	}
	return task, nil
}

// ListTasks composes the filtered, searched, sorted, paginated view over
// the project's tasks.
func (s *TaskService) ListTasks(ctx context.Context, projectID, userID primitive.ObjectID, q models.TaskListQuery) (models.TaskPage, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return models.TaskPage{}, err
	}

	q = q.Normalized()
	items, total, err := s.tasks.List(ctx, projectID, q)
	if err != nil {
		return models.TaskPage{}, err
	}
	if items == nil {
		items = []models.TaskItem{}
	}

	pageSize := int64(q.PageSize)
	return models.TaskPage{
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
		Items:      items,
	}, nil
}

// UpdateTask overwrites every mutable field of the task. It is a full
// replacement, not a partial patch.
func (s *TaskService) UpdateTask(ctx context.Context, projectID, userID, taskID primitive.ObjectID, task models.TaskItem) (models.TaskItem, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return models.TaskItem{}, err
	}

	task.ID = taskID
	task.ProjectID = projectID
	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.TaskItem{}, ErrNotFound
		}
		return models.TaskItem{}, err
	}
	return s.tasks.FindInProject(ctx, projectID, taskID)
}

func (s *TaskService) DeleteTask(ctx context.Context, projectID, userID, taskID primitive.ObjectID) error {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, projectID, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
