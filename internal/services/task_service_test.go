package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

var taskRowColumns = []string{
	"id",
	"user_id",
	"project_id",
	"title",
	"description",
	"status",
	"priority",
	"prioritized",
	"due_date",
	"created_at",
	"updated_at",
}

func ptr[T any](v T) *T {
	return &v
}

// insertTaskArgs matches the arguments of the tasks insert, ignoring ids,
// the project, the due date and timestamps.
func insertTaskArgs(userID, title, priority string, prioritized bool) []any {
	return []any{
		pgxmock.AnyArg(),
		userID,
		pgxmock.AnyArg(),
		title,
		"",
		models.StatusTodo,
		priority,
		prioritized,
		pgxmock.AnyArg(),
		pgxmock.AnyArg(),
		pgxmock.AnyArg(),
	}
}

func TestCreateTask_Defaults(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs(
			pgxmock.AnyArg(),
			"user-1",
			pgxmock.AnyArg(),
			"Buy milk",
			"",
			models.StatusTodo,
			models.PriorityMedium,
			false,
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	task, err := service.CreateTask(context.Background(), CreateTaskParams{
		UserID: "user-1",
		Title:  " Buy milk ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.False(t, task.Prioritized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTask_HighPriorityIsPrioritized(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs(insertTaskArgs("user-1", "Pay rent", models.PriorityHigh, true)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	task, err := service.CreateTask(context.Background(), CreateTaskParams{
		UserID:   "user-1",
		Title:    "Pay rent",
		Priority: models.PriorityHigh,
		DueDate:  ptr("2024-05-31"),
	})
	require.NoError(t, err)
	assert.True(t, task.Prioritized)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs(insertTaskArgs("user-1", "Pay rent", models.PriorityHigh, false)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	task, err = service.CreateTask(context.Background(), CreateTaskParams{
		UserID:      "user-1",
		Title:       "Pay rent",
		Priority:    models.PriorityHigh,
		Prioritized: ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, task.Prioritized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params CreateTaskParams
		err    error
	}{
		{
			name:   "empty title",
			params: CreateTaskParams{UserID: "user-1", Title: "  "},
			err:    ErrEmptyTitle,
		},
		{
			name:   "unknown status",
			params: CreateTaskParams{UserID: "user-1", Title: "a", Status: "archived"},
			err:    ErrInvalidTaskStatus,
		},
		{
			name:   "unknown priority",
			params: CreateTaskParams{UserID: "user-1", Title: "a", Priority: "urgent"},
			err:    ErrInvalidTaskPriority,
		},
		{
			name:   "malformed due date",
			params: CreateTaskParams{UserID: "user-1", Title: "a", DueDate: ptr("31/05/2024")},
			err:    ErrInvalidDueDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			service := NewTaskService(zerolog.Nop(), mock)

			_, err := service.CreateTask(context.Background(), tt.params)
			require.ErrorIs(t, err, tt.err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateTask_ForeignProject(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("project-2", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := service.CreateTask(context.Background(), CreateTaskParams{
		UserID:    "user-1",
		ProjectID: ptr("project-2"),
		Title:     "Steal a task",
	})
	require.ErrorIs(t, err, ErrProjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTask_MissingProjectOnInsert(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("project-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs(insertTaskArgs("user-1", "Race with delete", models.PriorityMedium, false)...).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	_, err := service.CreateTask(context.Background(), CreateTaskParams{
		UserID:    "user-1",
		ProjectID: ptr("project-1"),
		Title:     "Race with delete",
	})
	require.ErrorIs(t, err, ErrProjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTasks_Filter(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)
	createdAt := time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(taskRowColumns).
		AddRow(
			"task-1",
			"user-1",
			ptr("project-1"),
			"Discount 50% off",
			"",
			models.StatusDone,
			models.PriorityLow,
			false,
			ptr("2024-05-12"),
			createdAt,
			createdAt,
		)
	mock.ExpectQuery(regexp.QuoteMeta("AND status = $2\n  AND (title ILIKE $3 OR description ILIKE $3)")).
		WithArgs("user-1", models.StatusDone, `%50\%%`, uint32(defaultTasksLimit), uint32(0)).
		WillReturnRows(rows)

	tasks, err := service.GetTasks(context.Background(), TaskFilter{
		UserID: "user-1",
		Status: models.StatusDone,
		Search: " 50% ",
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "task-1", tasks[0].ID)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, "2024-05-12", *tasks[0].DueDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTasks_InvalidFilter(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)

	_, err := service.GetTasks(context.Background(), TaskFilter{UserID: "user-1", Priority: "urgent"})
	require.ErrorIs(t, err, ErrInvalidTaskPriority)

	_, err = service.GetTasks(context.Background(), TaskFilter{UserID: "user-1", DueDate: "tomorrow"})
	require.ErrorIs(t, err, ErrInvalidDueDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTaskByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks")).
		WithArgs("task-1", "user-2").
		WillReturnError(pgx.ErrNoRows)

	_, err := service.GetTaskByID(context.Background(), "user-2", "task-1")
	require.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTaskStatus(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)
	createdAt := time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(taskRowColumns).
		AddRow(
			"task-1",
			"user-1",
			(*string)(nil),
			"Write report",
			"",
			models.StatusDone,
			models.PriorityHigh,
			true,
			(*string)(nil),
			createdAt,
			createdAt.Add(time.Hour),
		)
	mock.ExpectQuery(regexp.QuoteMeta("SET status = $1")).
		WithArgs(models.StatusDone, pgxmock.AnyArg(), "task-1", "user-1").
		WillReturnRows(rows)

	task, err := service.UpdateTaskStatus(context.Background(), UpdateTaskStatusParams{
		ID:     "task-1",
		UserID: "user-1",
		Status: models.StatusDone,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, task.Status)
	assert.Nil(t, task.ProjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTaskStatus_InvalidStatus(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)

	_, err := service.UpdateTaskStatus(context.Background(), UpdateTaskStatusParams{
		ID:     "task-1",
		UserID: "user-1",
		Status: "blocked",
	})
	require.ErrorIs(t, err, ErrInvalidTaskStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleTaskPrioritized_NotFound(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)

	mock.ExpectQuery(regexp.QuoteMeta("SET prioritized = NOT prioritized")).
		WithArgs(pgxmock.AnyArg(), "task-1", "user-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := service.ToggleTaskPrioritized(context.Background(), "user-1", "task-1")
	require.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTask(t *testing.T) {
	mock := newMockPool(t)
	service := NewTaskService(zerolog.Nop(), mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks")).
		WithArgs("task-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks")).
		WithArgs("task-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	params := DeleteTaskParams{ID: "task-1", UserID: "user-1"}
	require.NoError(t, service.DeleteTask(context.Background(), params))
	require.ErrorIs(t, service.DeleteTask(context.Background(), params), ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `snake\_case`, escapeLike("snake_case"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
