package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

type sessionServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewSessionService(
	logger zerolog.Logger,
	pgPool Pool,
) SessionService {
	return &sessionServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *sessionServiceImpl) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{
		ID: sessionID,
	}

	const selectSessionByIDQuery = `
SELECT s.user_id,
       u.email,
       s.fingerprint,
       s.refresh_token,
       s.expires_at,
       s.created_at,
       s.updated_at
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectSessionByIDQuery,
		session.ID,
	).Scan(
		&session.UserID,
		&session.UserEmail,
		&session.Fingerprint,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("session_id", session.ID).
				Msg("session not found")
			return nil, ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to select session by id")
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("selected session by id")
	return session, nil
}

func (s *sessionServiceImpl) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const deleteExpiredSessionsQuery = `
DELETE FROM sessions
WHERE expires_at < $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteExpiredSessionsQuery,
		now,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to delete expired sessions")
		return 0, err
	}

	s.logger.Info().
		Int64("affected", tag.RowsAffected()).
		Msg("deleted expired sessions")
	return tag.RowsAffected(), nil
}
