package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewProjectService(
	logger zerolog.Logger,
	pgPool Pool,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	now := time.Now()
	project := &models.Project{
		UserID:      params.UserID,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		Color:       params.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if project.Name == "" {
		return nil, ErrEmptyName
	}

	projectUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project uuid")
		return nil, err
	}
	project.ID = projectUUID.String()

	const insertProjectQuery = `
INSERT INTO projects (id,
                      user_id,
                      name,
                      description,
                      color,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertProjectQuery,
		project.ID,
		project.UserID,
		project.Name,
		project.Description,
		project.Color,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", project.UserID).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) GetProjects(ctx context.Context, userID string) ([]models.ProjectWithCount, error) {
	const selectProjectsWithCountsQuery = `
SELECT p.id,
       p.name,
       p.description,
       p.color,
       p.created_at,
       p.updated_at,
       COUNT(t.id)
FROM projects p
LEFT JOIN tasks t ON t.project_id = p.id AND t.user_id = p.user_id
WHERE p.user_id = $1
GROUP BY p.id
ORDER BY p.created_at DESC
`
	rows, err := s.pgPool.Query(
		ctx,
		selectProjectsWithCountsQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select projects")
		return nil, err
	}
	defer rows.Close()

	var projects []models.ProjectWithCount
	for rows.Next() {
		project := models.ProjectWithCount{
			Project: models.Project{UserID: userID},
		}
		err = rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.Color,
			&project.CreatedAt,
			&project.UpdatedAt,
			&project.TaskCount,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		projects = append(projects, project)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(projects)).
		Str("user_id", userID).
		Msg("selected projects")
	return projects, nil
}

func (s *projectServiceImpl) GetProjectByID(ctx context.Context, userID, projectID string) (*models.Project, error) {
	project := &models.Project{
		ID:     projectID,
		UserID: userID,
	}

	const selectProjectByIDQuery = `
SELECT name,
       description,
       color,
       created_at,
       updated_at
FROM projects
WHERE id = $1 AND user_id = $2
`
	err := s.pgPool.QueryRow(
		ctx,
		selectProjectByIDQuery,
		project.ID,
		project.UserID,
	).Scan(
		&project.Name,
		&project.Description,
		&project.Color,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("project_id", projectID).
				Str("user_id", userID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to select project by id")
		return nil, err
	}
	return project, nil
}

func (s *projectServiceImpl) CountProjects(ctx context.Context, userID string) (int, error) {
	const countProjectsQuery = `
SELECT COUNT(*)
FROM projects
WHERE user_id = $1
`
	var count int
	err := s.pgPool.QueryRow(
		ctx,
		countProjectsQuery,
		userID,
	).Scan(&count)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count projects")
		return 0, err
	}
	return count, nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, params UpdateProjectParams) (*models.Project, error) {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		params.Name = &name
	}

	project := &models.Project{
		ID:        params.ID,
		UserID:    params.UserID,
		UpdatedAt: time.Now(),
	}

	const updateProjectQuery = `
UPDATE projects
SET name = COALESCE($1, name),
    description = COALESCE($2, description),
    color = COALESCE($3, color),
    updated_at = $4
WHERE id = $5 AND user_id = $6
RETURNING name, description, color, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateProjectQuery,
		params.Name,
		params.Description,
		params.Color,
		project.UpdatedAt,
		project.ID,
		project.UserID,
	).Scan(
		&project.Name,
		&project.Description,
		&project.Color,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("project_id", params.ID).
				Str("user_id", params.UserID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", params.ID).
			Msg("failed to update project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", project.UserID).
		Msg("updated project")
	return project, nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, params DeleteProjectParams) error {
	// Tasks go first. When that fails the project is left untouched.
	err := inTx(ctx, s.pgPool, s.logger, func(tx pgx.Tx) error {
		const deleteTasksByProjectIDQuery = `
DELETE FROM tasks
WHERE project_id = $1 AND user_id = $2
`
		tag, err := tx.Exec(
			ctx,
			deleteTasksByProjectIDQuery,
			params.ID,
			params.UserID,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("project_id", params.ID).
				Msg("failed to delete tasks by project id")
			return err
		}
		s.logger.Debug().
			Str("project_id", params.ID).
			Int64("affected", tag.RowsAffected()).
			Msg("deleted tasks by project id")

		const deleteProjectQuery = `
DELETE FROM projects
WHERE id = $1 AND user_id = $2
`
		tag, err = tx.Exec(
			ctx,
			deleteProjectQuery,
			params.ID,
			params.UserID,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("project_id", params.ID).
				Msg("failed to delete project")
			return err
		}
		if tag.RowsAffected() == 0 {
			s.logger.Warn().
				Str("project_id", params.ID).
				Str("user_id", params.UserID).
				Msg("project not found")
			return ErrProjectNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("project_id", params.ID).
		Str("user_id", params.UserID).
		Msg("deleted project")
	return nil
}
