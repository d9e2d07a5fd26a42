package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gurkanusta/WorkNest/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories with the same contracts as the Mongo ones,
// including the uniqueness rejections and the deterministic list ordering.
// Used by the test suites and handy for local development without a
// database.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[primitive.ObjectID]models.Project
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{projects: make(map[primitive.ObjectID]models.Project)}
}

func (r *MemoryProjectRepository) Create(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = primitive.NewObjectID()
	r.projects[project.ID] = *project
	return nil
}

func (r *MemoryProjectRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	if !ok {
		return models.Project{}, ErrNotFound
	}
	return project, nil
}

func (r *MemoryProjectRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var projects []models.Project
	for _, id := range ids {
		if project, ok := r.projects[id]; ok {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

type MemoryMemberRepository struct {
	mu      sync.RWMutex
	members []models.ProjectMember
}

func NewMemoryMemberRepository() *MemoryMemberRepository {
	return &MemoryMemberRepository{}
}

func (r *MemoryMemberRepository) Create(_ context.Context, member *models.ProjectMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members {
		if existing.ProjectID == member.ProjectID && existing.UserID == member.UserID {
			return ErrDuplicateKey
		}
	}
	member.ID = primitive.NewObjectID()
	r.members = append(r.members, *member)
	return nil
}

func (r *MemoryMemberRepository) Find(_ context.Context, projectID, userID primitive.ObjectID) (models.ProjectMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, member := range r.members {
		if member.ProjectID == projectID && member.UserID == userID {
			return member, nil
		}
	}
	return models.ProjectMember{}, ErrNotFound
}

func (r *MemoryMemberRepository) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.ProjectMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []models.ProjectMember
	for _, member := range r.members {
		if member.UserID == userID {
			result = append(result, member)
		}
	}
	return result, nil
}

func (r *MemoryMemberRepository) FindByProject(_ context.Context, projectID primitive.ObjectID) ([]models.ProjectMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []models.ProjectMember
	for _, member := range r.members {
		if member.ProjectID == projectID {
			result = append(result, member)
		}
	}
	return result, nil
}

// Count reports how many membership rows exist for a (project, user) pair.
func (r *MemoryMemberRepository) Count(projectID, userID primitive.ObjectID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, member := range r.members {
		if member.ProjectID == projectID && member.UserID == userID {
			n++
		}
	}
	return n
}

type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks []models.TaskItem
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{}
}

func (r *MemoryTaskRepository) Create(_ context.Context, task *models.TaskItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = primitive.NewObjectID()
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *MemoryTaskRepository) FindInProject(_ context.Context, projectID, taskID primitive.ObjectID) (models.TaskItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, task := range r.tasks {
		if task.ID == taskID && task.ProjectID == projectID {
			return task, nil
		}
	}
	return models.TaskItem{}, ErrNotFound
}

func (r *MemoryTaskRepository) Update(_ context.Context, task models.TaskItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.tasks {
		if existing.ID == task.ID && existing.ProjectID == task.ProjectID {
			task.CreatedAt = existing.CreatedAt
			r.tasks[i] = task
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryTaskRepository) Delete(_ context.Context, projectID, taskID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, task := range r.tasks {
		if task.ID == taskID && task.ProjectID == projectID {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryTaskRepository) List(_ context.Context, projectID primitive.ObjectID, q models.TaskListQuery) ([]models.TaskItem, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.TaskItem
	search := strings.ToLower(q.Search)
	for _, task := range r.tasks {
		if task.ProjectID != projectID {
			continue
		}
		if q.Status != nil && task.Status != *q.Status {
			continue
		}
		if search != "" {
			inTitle := strings.Contains(strings.ToLower(task.Title), search)
			inDescription := task.Description != "" && strings.Contains(strings.ToLower(task.Description), search)
			if !inTitle && !inDescription {
				continue
			}
		}
		filtered = append(filtered, task)
	}

	sort.SliceStable(filtered, taskLess(filtered, q.Sort))

	total := int64(len(filtered))
	start := (q.Page - 1) * q.PageSize
	if start >= len(filtered) {
		return nil, total, nil
	}
	end := start + q.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

// taskLess mirrors the Mongo pipeline ordering: missing due dates always
// sort last, ties break on _id ascending.
func taskLess(tasks []models.TaskItem, sortKey string) func(i, j int) bool {
	byID := func(a, b models.TaskItem) bool {
		return a.ID.Hex() < b.ID.Hex()
	}
	switch sortKey {
	case models.SortCreatedAtAsc:
		return func(i, j int) bool {
			a, b := tasks[i], tasks[j]
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return byID(a, b)
		}
	case models.SortDueDateAsc:
		return func(i, j int) bool {
			a, b := tasks[i], tasks[j]
			ad, bd := dueDateFarFuture, dueDateFarFuture
			if a.DueDate != nil {
				ad = *a.DueDate
			}
			if b.DueDate != nil {
				bd = *b.DueDate
			}
			if !ad.Equal(bd) {
				return ad.Before(bd)
			}
			return byID(a, b)
		}
	case models.SortDueDateDesc:
		return func(i, j int) bool {
			a, b := tasks[i], tasks[j]
			ad, bd := dueDateFarPast, dueDateFarPast
			if a.DueDate != nil {
				ad = *a.DueDate
			}
			if b.DueDate != nil {
				bd = *b.DueDate
			}
			if !ad.Equal(bd) {
				return ad.After(bd)
			}
			return byID(a, b)
		}
	default:
		return func(i, j int) bool {
			a, b := tasks[i], tasks[j]
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return byID(a, b)
		}
	}
}
