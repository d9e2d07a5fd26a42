package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gurkanusta/WorkNest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (e *testEnv) createTask(t *testing.T, projectID, userID primitive.ObjectID, title string) models.TaskItem {
	t.Helper()
	task, err := e.tasks.CreateTask(context.Background(), projectID, userID, models.TaskItem{Title: title})
	require.NoError(t, err)
	return task
}

func TestTaskOperationsForbiddenForNonMember(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ana := env.registerUser(t, "ana@example.com")
	dana := env.registerUser(t, "dana@example.com")
	project := env.createProject(t, "Website Redesign", ana)
	task := env.createTask(t, project.ID, ana.ID, "Set up CI")

	_, err := env.tasks.CreateTask(ctx, project.ID, dana.ID, models.TaskItem{Title: "Sneaky task"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.tasks.ListTasks(ctx, project.ID, dana.ID, models.TaskListQuery{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.tasks.UpdateTask(ctx, project.ID, dana.ID, task.ID, models.TaskItem{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	err = env.tasks.DeleteTask(ctx, project.ID, dana.ID, task.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Same answer when neither the project nor the task exists: a
	// non-member can never distinguish absent from present.
	_, err = env.tasks.ListTasks(ctx, primitive.NewObjectID(), dana.ID, models.TaskListQuery{})
	assert.ErrorIs(t, err, ErrForbidden)

	err = env.tasks.DeleteTask(ctx, primitive.NewObjectID(), dana.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateTaskDefaultsToTodo(t *testing.T) {
	env := newTestEnv()

	ana := env.registerUser(t, "ana@example.com")
	project := env.createProject(t, "Website Redesign", ana)
	task := env.createTask(t, project.ID, ana.ID, "Set up CI")

	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, project.ID, task.ProjectID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestListTasksPagination(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ana := env.registerUser(t, "ana@example.com")
	project := env.createProject(t, "Website Redesign", ana)
	for i := 0; i < 25; i++ {
		env.createTask(t, project.ID, ana.ID, fmt.Sprintf("Task %02d", i))
	}

	page, err := env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Len(t, page.Items, 10)

	page, err = env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)

	// Page zero and negative pages clamp to the first page.
	page, err = env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Page: 0, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Items, 10)

	// Oversized page sizes clamp to the cap.
	page, err = env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Page: 1, PageSize: 999})
	require.NoError(t, err)
	assert.Equal(t, 50, page.PageSize)
	assert.Len(t, page.Items, 25)

	// A page past the end is empty but keeps the totals.
	page, err = env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Page: 9, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(25), page.Total)
}

func TestListTasksSearch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ana := env.registerUser(t, "ana@example.com")
	project := env.createProject(t, "Website Redesign", ana)

	_, err := env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{Title: "Fix LOGIN bug"})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{Title: "Deploy staging", Description: "Polish the login page first"})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{Title: "Write docs"})
	require.NoError(t, err)

	page, err := env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Search: "login"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	// Surrounding whitespace is trimmed before matching.
	page, err = env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Search: "  LOGIN  "})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	// A whitespace-only search is no filter at all.
	page, err = env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Search: "   "})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestListTasksStatusFilter(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ana := env.registerUser(t, "ana@example.com")
	project := env.createProject(t, "Website Redesign", ana)

	_, err := env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{Title: "Open one"})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{Title: "Busy one", Status: models.StatusInProgress})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{Title: "Done one", Status: models.StatusDone})
	require.NoError(t, err)

	todo := models.StatusTodo
	page, err := env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Status: &todo})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Open one", page.Items[0].Title)
}

func TestListTasksDueDateSortPutsMissingDatesLast(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ana := env.registerUser(t, "ana@example.com")
	project := env.createProject(t, "Website Redesign", ana)

	early := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{Title: "No deadline"})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{Title: "Due late", DueDate: &late})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{Title: "Due early", DueDate: &early})
	require.NoError(t, err)

	page, err := env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Sort: models.SortDueDateAsc})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Due early", page.Items[0].Title)
	assert.Equal(t, "Due late", page.Items[1].Title)
	assert.Equal(t, "No deadline", page.Items[2].Title)

	page, err = env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Sort: models.SortDueDateDesc})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Due late", page.Items[0].Title)
	assert.Equal(t, "Due early", page.Items[1].Title)
	assert.Equal(t, "No deadline", page.Items[2].Title)
}

// Tasks sharing an identical sort key must not drift between pages: the
// id tiebreaker keeps every task on exactly one page.
func TestListTasksTiesAreStableAcrossPages(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ana := env.registerUser(t, "ana@example.com")
	project := env.createProject(t, "Website Redesign", ana)

	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		task := models.TaskItem{
			ProjectID: project.ID,
			Title:     fmt.Sprintf("Task %02d", i),
			CreatedAt: createdAt,
		}
		require.NoError(t, env.taskRepo.Create(ctx, &task))
	}

	seen := make(map[primitive.ObjectID]bool)
	for pageNum := 1; pageNum <= 3; pageNum++ {
		page, err := env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Page: pageNum, PageSize: 10})
		require.NoError(t, err)
		for _, item := range page.Items {
			assert.False(t, seen[item.ID], "task %s appeared on more than one page", item.Title)
			seen[item.ID] = true
		}
	}
	assert.Len(t, seen, 25)
}

func TestUpdateTaskOverwritesAllFields(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ana := env.registerUser(t, "ana@example.com")
	project := env.createProject(t, "Website Redesign", ana)
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	task, err := env.tasks.CreateTask(ctx, project.ID, ana.ID, models.TaskItem{
		Title: "Set up CI", Description: "Initial pipeline", DueDate: &due,
	})
	require.NoError(t, err)

	updated, err := env.tasks.UpdateTask(ctx, project.ID, ana.ID, task.ID, models.TaskItem{
		Title:  "Set up CD",
		Status: models.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, "Set up CD", updated.Title)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	// A full overwrite, not a patch: absent fields are cleared.
	assert.Empty(t, updated.Description)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
}

func TestUpdateAndDeleteMissingTask(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ana := env.registerUser(t, "ana@example.com")
	project := env.createProject(t, "Website Redesign", ana)

	_, err := env.tasks.UpdateTask(ctx, project.ID, ana.ID, primitive.NewObjectID(), models.TaskItem{Title: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = env.tasks.DeleteTask(ctx, project.ID, ana.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnyMemberMayMutateAnyTask(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ana := env.registerUser(t, "ana@example.com")
	boris := env.registerUser(t, "boris@example.com")
	project := env.createProject(t, "Website Redesign", ana)

	_, err := env.projects.InviteMember(ctx, project.ID, ana.ID, boris.Email)
	require.NoError(t, err)

	task := env.createTask(t, project.ID, ana.ID, "Owner's task")

	_, err = env.tasks.UpdateTask(ctx, project.ID, boris.ID, task.ID, models.TaskItem{
		Title: "Member edited this", Status: models.StatusDone,
	})
	require.NoError(t, err)

	require.NoError(t, env.tasks.DeleteTask(ctx, project.ID, boris.ID, task.ID))
}

func TestEndToEndProjectFlow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Register A and B, log A in.
	_, err := env.auth.Register(ctx, "ana@example.com", "correct horse battery")
	require.NoError(t, err)
	ana, _, err := env.auth.Login(ctx, "ana@example.com", "correct horse battery")
	require.NoError(t, err)
	boris, err := env.auth.Register(ctx, "boris@example.com", "tr0ub4dor and three")
	require.NoError(t, err)

	// A creates the project and invites B by email.
	project, err := env.projects.CreateProject(ctx, "Launch Plan", ana.ID)
	require.NoError(t, err)
	_, err = env.projects.InviteMember(ctx, project.ID, ana.ID, "boris@example.com")
	require.NoError(t, err)

	// B, now a member, creates a task.
	_, err = env.tasks.CreateTask(ctx, project.ID, boris.ID, models.TaskItem{Title: "Draft announcement"})
	require.NoError(t, err)

	// A lists tasks filtered by the initial status and sees it.
	todo := models.StatusTodo
	page, err := env.tasks.ListTasks(ctx, project.ID, ana.ID, models.TaskListQuery{Status: &todo})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Draft announcement", page.Items[0].Title)
	assert.Equal(t, "Todo", page.Items[0].Status.String())
}
