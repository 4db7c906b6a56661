package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdesk/internal/model"
	"opsdesk/internal/schedule"
)

func newTaskService(t *testing.T, env *testEnv) *TaskService {
	t.Helper()
	require.NoError(t, env.departments.Seed(context.Background(), []string{"Marketing", "Accounts & Admin"}))
	return NewTaskService(env.tasks, env.departments, env.completions, env.users, zerolog.Nop())
}

func TestCreateTaskAssignsSequentialReferenceNos(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTaskService(t, env)
	alice := env.addUser(t, "alice", "alice@example.com", "Alice Smith", model.RoleUser)

	input := TaskInput{
		Name:       "Inbox triage",
		Department: "Marketing",
		Frequency:  schedule.Daily,
		StartDate:  schedule.Date(2024, time.June, 10),
	}
	first, err := svc.Create(ctx, alice, input)
	require.NoError(t, err)
	assert.Equal(t, "CHK-ALICES-001", first.ReferenceNo)
	assert.NotEmpty(t, first.ID)

	input.Name = "Backup check"
	second, err := svc.Create(ctx, alice, input)
	require.NoError(t, err)
	assert.Equal(t, "CHK-ALICES-002", second.ReferenceNo)
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTaskService(t, env)
	alice := env.addUser(t, "alice", "alice@example.com", "Alice Smith", model.RoleUser)

	_, err := svc.Create(ctx, alice, TaskInput{
		Name:       "Bad dept",
		Department: "Nonexistent",
		Frequency:  schedule.Daily,
		StartDate:  schedule.Date(2024, time.June, 10),
	})
	assert.ErrorIs(t, err, ErrInvalidDepartment)

	_, err = svc.Create(ctx, alice, TaskInput{
		Name:       "Bad freq",
		Department: "Marketing",
		Frequency:  schedule.Frequency("hourly"),
		StartDate:  schedule.Date(2024, time.June, 10),
	})
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	_, err = svc.Create(ctx, alice, TaskInput{
		Name:       "   ",
		Department: "Marketing",
		Frequency:  schedule.Daily,
		StartDate:  schedule.Date(2024, time.June, 10),
	})
	assert.Error(t, err)
}

func TestListScopesNonAdminsToOwnTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTaskService(t, env)
	alice := env.addUser(t, "alice", "alice@example.com", "Alice Smith", model.RoleUser)
	admin := env.addUser(t, "admin", "admin@example.com", "Admin", model.RoleAdmin)
	env.addTask(t, "t-a", "Alice task", "alice", schedule.Daily, schedule.Date(2024, time.June, 10))
	env.addTask(t, "t-b", "Bob task", "bob", schedule.Daily, schedule.Date(2024, time.June, 10))

	// A regular user asking for someone else's tasks still gets their own.
	views, err := svc.List(ctx, alice, "bob", "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "t-a", views[0].ID)
	assert.Equal(t, "Alice Smith", views[0].DoerName)

	views, err = svc.List(ctx, admin, "", "")
	require.NoError(t, err)
	assert.Len(t, views, 2)

	views, err = svc.List(ctx, admin, "bob", "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "t-b", views[0].ID)
}

func TestCompleteOnlyByAssignedDoer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTaskService(t, env)
	alice := env.addUser(t, "alice", "alice@example.com", "Alice Smith", model.RoleUser)
	bob := env.addUser(t, "bob", "bob@example.com", "Bob Jones", model.RoleUser)
	env.addTask(t, "t-a", "Alice task", "alice", schedule.Daily, schedule.Date(2024, time.June, 10))

	date := schedule.Date(2024, time.June, 12)
	assert.ErrorIs(t, svc.Complete(ctx, bob, "t-a", date), ErrNotAssignedDoer)
	assert.ErrorIs(t, svc.Complete(ctx, alice, "missing", date), ErrTaskNotFound)

	require.NoError(t, svc.Complete(ctx, alice, "t-a", date))
	// Completing again is a no-op, not an error.
	require.NoError(t, svc.Complete(ctx, alice, "t-a", date))

	done, err := env.completions.IsComplete(ctx, "t-a", date)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestNamePrefix(t *testing.T) {
	assert.Equal(t, "ALICES", namePrefix("Alice Smith"))
	assert.Equal(t, "BOB", namePrefix("Bob"))
	assert.Equal(t, "USER", namePrefix("!!!"))
	assert.Equal(t, "USER", namePrefix(""))
}
