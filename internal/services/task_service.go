package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

const defaultTasksLimit = 100

const taskColumns = `id,
       user_id,
       project_id,
       title,
       description,
       status,
       priority,
       prioritized,
       to_char(due_date, 'YYYY-MM-DD'),
       created_at,
       updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner, task *models.Task) error {
	return row.Scan(
		&task.ID,
		&task.UserID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Prioritized,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	now := time.Now()
	task := &models.Task{
		UserID:      params.UserID,
		ProjectID:   params.ProjectID,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if task.Title == "" {
		return nil, ErrEmptyTitle
	}
	if !models.IsValidStatus(task.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if !models.IsValidPriority(task.Priority) {
		return nil, ErrInvalidTaskPriority
	}
	if task.DueDate != nil && !isValidDueDate(*task.DueDate) {
		return nil, ErrInvalidDueDate
	}

	// The flag is stored, never derived on read.
	task.Prioritized = task.Priority == models.PriorityHigh
	if params.Prioritized != nil {
		task.Prioritized = *params.Prioritized
	}

	if task.ProjectID != nil {
		err := s.ensureProjectOwned(ctx, task.UserID, *task.ProjectID)
		if err != nil {
			return nil, err
		}
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   project_id,
                   title,
                   description,
                   status,
                   priority,
                   prioritized,
                   due_date,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::text::date, $10, $11)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Prioritized,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			s.logger.Error().
				Str("user_id", task.UserID).
				Msg("task references a missing project")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	const selectTaskByIDQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1 AND user_id = $2
`
	task := new(models.Task)
	err := scanTask(s.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		taskID,
		userID,
	), task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("task_id", taskID).
				Str("user_id", userID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task by id")
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	if filter.Status != "" && !models.IsValidStatus(filter.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if filter.Priority != "" && !models.IsValidPriority(filter.Priority) {
		return nil, ErrInvalidTaskPriority
	}
	if filter.DueDate != "" && !isValidDueDate(filter.DueDate) {
		return nil, ErrInvalidDueDate
	}
	if filter.Limit == 0 {
		filter.Limit = defaultTasksLimit
	}

	var query strings.Builder
	query.WriteString("SELECT " + taskColumns + "\nFROM tasks\nWHERE user_id = $1")
	args := []any{filter.UserID}
	where := func(format string, arg any) {
		args = append(args, arg)
		query.WriteString("\n  AND ")
		fmt.Fprintf(&query, format, len(args))
	}

	if filter.Status != "" {
		where("status = $%d", filter.Status)
	}
	if filter.Priority != "" {
		where("priority = $%d", filter.Priority)
	}
	if filter.ProjectID != "" {
		where("project_id = $%d", filter.ProjectID)
	}
	if filter.DueDate != "" {
		where("due_date = $%d::text::date", filter.DueDate)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		where("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+escapeLike(search)+"%")
	}

	args = append(args, filter.Limit, filter.Offset)
	fmt.Fprintf(&query, "\nORDER BY created_at DESC\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))

	tasks, err := s.queryTasks(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", filter.UserID).
		Msg("selected tasks by filter")
	return tasks, nil
}

func (s *taskServiceImpl) GetAllTasks(ctx context.Context, userID string) ([]models.Task, error) {
	const selectTasksByUserIDQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE user_id = $1
ORDER BY created_at DESC
`
	tasks, err := s.queryTasks(ctx, selectTasksByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected all tasks by user id")
	return tasks, nil
}

func (s *taskServiceImpl) GetTasksDueBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error) {
	const selectTasksDueBetweenQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE user_id = $1
  AND due_date BETWEEN $2::text::date AND $3::text::date
ORDER BY due_date, created_at DESC
`
	return s.queryTasks(
		ctx,
		selectTasksDueBetweenQuery,
		userID,
		from.Format(models.DueDateLayout),
		to.Format(models.DueDateLayout),
	)
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		params.Title = &title
	}
	if params.Priority != nil && !models.IsValidPriority(*params.Priority) {
		return nil, ErrInvalidTaskPriority
	}
	if params.DueDate != nil && !isValidDueDate(*params.DueDate) {
		return nil, ErrInvalidDueDate
	}
	if params.ProjectID != nil && !params.ClearProject {
		err := s.ensureProjectOwned(ctx, params.UserID, *params.ProjectID)
		if err != nil {
			return nil, err
		}
	}

	const updateTaskQuery = `
UPDATE tasks
SET title = COALESCE($1, title),
    description = COALESCE($2, description),
    priority = COALESCE($3, priority),
    prioritized = COALESCE($4, prioritized),
    due_date = CASE WHEN $5::boolean THEN NULL ELSE COALESCE($6::text::date, due_date) END,
    project_id = CASE WHEN $7::boolean THEN NULL ELSE COALESCE($8, project_id) END,
    updated_at = $9
WHERE id = $10 AND user_id = $11
RETURNING ` + taskColumns

	task := new(models.Task)
	err := scanTask(s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Description,
		params.Priority,
		params.Prioritized,
		params.ClearDueDate,
		params.DueDate,
		params.ClearProject,
		params.ProjectID,
		time.Now(),
		params.ID,
		params.UserID,
	), task)
	if err != nil {
		return nil, s.updateError(err, params.ID, params.UserID, "failed to update task")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error) {
	if !models.IsValidStatus(params.Status) {
		return nil, ErrInvalidTaskStatus
	}

	const updateTaskStatusQuery = `
UPDATE tasks
SET status = $1,
    updated_at = $2
WHERE id = $3 AND user_id = $4
RETURNING ` + taskColumns

	task := new(models.Task)
	err := scanTask(s.pgPool.QueryRow(
		ctx,
		updateTaskStatusQuery,
		params.Status,
		time.Now(),
		params.ID,
		params.UserID,
	), task)
	if err != nil {
		return nil, s.updateError(err, params.ID, params.UserID, "failed to update task status")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status", task.Status).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) ToggleTaskPrioritized(ctx context.Context, userID, taskID string) (*models.Task, error) {
	const toggleTaskPrioritizedQuery = `
UPDATE tasks
SET prioritized = NOT prioritized,
    updated_at = $1
WHERE id = $2 AND user_id = $3
RETURNING ` + taskColumns

	task := new(models.Task)
	err := scanTask(s.pgPool.QueryRow(
		ctx,
		toggleTaskPrioritizedQuery,
		time.Now(),
		taskID,
		userID,
	), task)
	if err != nil {
		return nil, s.updateError(err, taskID, userID, "failed to toggle task prioritized")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Bool("prioritized", task.Prioritized).
		Msg("toggled task prioritized")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		params.ID,
		params.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("task_id", params.ID).
			Str("user_id", params.UserID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", params.ID).
		Str("user_id", params.UserID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		err = scanTask(rows, &task)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return tasks, nil
}

func (s *taskServiceImpl) ensureProjectOwned(ctx context.Context, userID, projectID string) error {
	const selectProjectExistsQuery = `
SELECT EXISTS (
    SELECT 1
    FROM projects
    WHERE id = $1 AND user_id = $2
)
`
	var exists bool
	err := s.pgPool.QueryRow(
		ctx,
		selectProjectExistsQuery,
		projectID,
		userID,
	).Scan(&exists)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to check project owner")
		return err
	}
	if !exists {
		s.logger.Warn().
			Str("project_id", projectID).
			Str("user_id", userID).
			Msg("project not found")
		return ErrProjectNotFound
	}
	return nil
}

func (s *taskServiceImpl) updateError(err error, taskID, userID, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Warn().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task not found")
		return ErrTaskNotFound
	}
	if isForeignKeyViolation(err) {
		s.logger.Warn().
			Str("task_id", taskID).
			Msg("task references a missing project")
		return ErrProjectNotFound
	}

	s.logger.Error().
		Err(err).
		Str("task_id", taskID).
		Msg(msg)
	return err
}

func isValidDueDate(value string) bool {
	_, err := time.Parse(models.DueDateLayout, value)
	return err == nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
