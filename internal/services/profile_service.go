package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

type profileServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewProfileService(
	logger zerolog.Logger,
	pgPool Pool,
) ProfileService {
	return &profileServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

// GetProfile never returns the password hash.
func (s *profileServiceImpl) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{ID: userID}

	const selectProfileQuery = `
SELECT email,
       full_name,
       avatar_url,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectProfileQuery,
		user.ID,
	).Scan(
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, s.profileError(err, userID, "failed to select profile")
	}
	return user, nil
}

func (s *profileServiceImpl) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error) {
	user := &models.User{
		ID:        params.UserID,
		UpdatedAt: time.Now(),
	}

	const updateProfileQuery = `
UPDATE users
SET full_name = COALESCE($1, full_name),
    avatar_url = COALESCE($2, avatar_url),
    updated_at = $3
WHERE id = $4
RETURNING email, full_name, avatar_url, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateProfileQuery,
		params.FullName,
		params.AvatarURL,
		user.UpdatedAt,
		user.ID,
	).Scan(
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, s.profileError(err, params.UserID, "failed to update profile")
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated profile")
	return user, nil
}

func (s *profileServiceImpl) profileError(err error, userID, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Warn().
			Str("user_id", userID).
			Msg("user not found")
		return ErrUserNotFound
	}

	s.logger.Error().
		Err(err).
		Str("user_id", userID).
		Msg(msg)
	return err
}
