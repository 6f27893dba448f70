package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")

	ErrTaskNotFound        = errors.New("task not found")
	ErrEmptyTitle          = errors.New("task title is empty")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrInvalidDueDate      = errors.New("invalid task due date")

	ErrProjectNotFound = errors.New("project not found")
	ErrEmptyName       = errors.New("project name is empty")
)

// Pool is the subset of *pgxpool.Pool used by the services.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	// GetSessionByID returns the session together with its owner's email.
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)

	// DeleteExpiredSessions removes sessions that expired before now
	// and returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error)

	// GetTasks returns a page of the user's tasks matching the filter,
	// newest first.
	GetTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// GetAllTasks returns every task of the user, newest first.
	GetAllTasks(ctx context.Context, userID string) ([]models.Task, error)

	// GetTasksDueBetween returns the user's tasks due in [from, to],
	// both dates inclusive, ordered by due date.
	GetTasksDueBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error)

	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, params UpdateTaskStatusParams) (*models.Task, error)
	ToggleTaskPrioritized(ctx context.Context, userID, taskID string) (*models.Task, error)
	DeleteTask(ctx context.Context, params DeleteTaskParams) error
}

type ProjectService interface {
	CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error)

	// GetProjects returns the user's projects with their task counts,
	// newest first.
	GetProjects(ctx context.Context, userID string) ([]models.ProjectWithCount, error)
	GetProjectByID(ctx context.Context, userID, projectID string) (*models.Project, error)
	CountProjects(ctx context.Context, userID string) (int, error)
	UpdateProject(ctx context.Context, params UpdateProjectParams) (*models.Project, error)

	// DeleteProject deletes the project's tasks and then the project.
	// The project is not touched if deleting its tasks fails.
	DeleteProject(ctx context.Context, params DeleteProjectParams) error
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error)
}

type ExportService interface {
	// WriteTasksXLSX writes a workbook with the user's tasks and
	// their analytics summary as of now.
	WriteTasksXLSX(ctx context.Context, userID string, now time.Time, w io.Writer) error
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateTaskParams struct {
	UserID      string
	ProjectID   *string
	Title       string
	Description string
	Status      string
	Priority    string
	// Prioritized defaults to Priority == high when nil.
	Prioritized *bool
	DueDate     *string
}

type TaskFilter struct {
	UserID    string
	Status    string
	Priority  string
	ProjectID string
	DueDate   string
	Search    string
	Offset    uint32
	Limit     uint32
}

// UpdateTaskParams holds a partial update; nil fields are left unchanged.
type UpdateTaskParams struct {
	ID           string
	UserID       string
	Title        *string
	Description  *string
	Priority     *string
	Prioritized  *bool
	DueDate      *string
	ClearDueDate bool
	ProjectID    *string
	ClearProject bool
}

type UpdateTaskStatusParams struct {
	ID     string
	UserID string
	Status string
}

type DeleteTaskParams struct {
	ID     string
	UserID string
}

type CreateProjectParams struct {
	UserID      string
	Name        string
	Description string
	Color       string
}

type UpdateProjectParams struct {
	ID          string
	UserID      string
	Name        *string
	Description *string
	Color       *string
}

type DeleteProjectParams struct {
	ID     string
	UserID string
}

type UpdateProfileParams struct {
	UserID    string
	FullName  *string
	AvatarURL *string
}
