package v1

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

var errMockNotConfigured = errors.New("mock not configured")

type mockAuthService struct {
	LoginFunc         func(ctx context.Context, params services.LoginParams) (*services.LoginResult, error)
	RefreshFunc       func(ctx context.Context, params services.RefreshParams) (*services.LoginResult, error)
	RegisterFunc      func(ctx context.Context, params services.LoginParams) (*services.LoginResult, error)
	LogoutFunc        func(ctx context.Context, userID string) error
	ParseJWTTokenFunc func(token string) (*jwt.RegisteredClaims, error)
}

func (m *mockAuthService) Login(ctx context.Context, params services.LoginParams) (*services.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, params)
	}
	return nil, errMockNotConfigured
}

func (m *mockAuthService) Refresh(ctx context.Context, params services.RefreshParams) (*services.LoginResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, params)
	}
	return nil, errMockNotConfigured
}

func (m *mockAuthService) Register(ctx context.Context, params services.LoginParams) (*services.LoginResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, params)
	}
	return nil, errMockNotConfigured
}

func (m *mockAuthService) Logout(ctx context.Context, userID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, userID)
	}
	return nil
}

func (m *mockAuthService) ParseJWTToken(token string) (*jwt.RegisteredClaims, error) {
	if m.ParseJWTTokenFunc != nil {
		return m.ParseJWTTokenFunc(token)
	}
	return nil, errMockNotConfigured
}

type mockSessionService struct {
	GetSessionByIDFunc        func(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteExpiredSessionsFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionService) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	if m.GetSessionByIDFunc != nil {
		return m.GetSessionByIDFunc(ctx, sessionID)
	}
	return nil, services.ErrSessionNotFound
}

func (m *mockSessionService) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredSessionsFunc != nil {
		return m.DeleteExpiredSessionsFunc(ctx, now)
	}
	return 0, nil
}

type mockTaskService struct {
	CreateTaskFunc            func(ctx context.Context, params services.CreateTaskParams) (*models.Task, error)
	GetTaskByIDFunc           func(ctx context.Context, userID, taskID string) (*models.Task, error)
	GetTasksFunc              func(ctx context.Context, filter services.TaskFilter) ([]models.Task, error)
	GetAllTasksFunc           func(ctx context.Context, userID string) ([]models.Task, error)
	GetTasksDueBetweenFunc    func(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error)
	UpdateTaskFunc            func(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error)
	UpdateTaskStatusFunc      func(ctx context.Context, params services.UpdateTaskStatusParams) (*models.Task, error)
	ToggleTaskPrioritizedFunc func(ctx context.Context, userID, taskID string) (*models.Task, error)
	DeleteTaskFunc            func(ctx context.Context, params services.DeleteTaskParams) error
}

func (m *mockTaskService) CreateTask(ctx context.Context, params services.CreateTaskParams) (*models.Task, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, params)
	}
	return nil, errMockNotConfigured
}

func (m *mockTaskService) GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if m.GetTaskByIDFunc != nil {
		return m.GetTaskByIDFunc(ctx, userID, taskID)
	}
	return nil, services.ErrTaskNotFound
}

func (m *mockTaskService) GetTasks(ctx context.Context, filter services.TaskFilter) ([]models.Task, error) {
	if m.GetTasksFunc != nil {
		return m.GetTasksFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockTaskService) GetAllTasks(ctx context.Context, userID string) ([]models.Task, error) {
	if m.GetAllTasksFunc != nil {
		return m.GetAllTasksFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockTaskService) GetTasksDueBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error) {
	if m.GetTasksDueBetweenFunc != nil {
		return m.GetTasksDueBetweenFunc(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *mockTaskService) UpdateTask(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, params)
	}
	return nil, errMockNotConfigured
}

func (m *mockTaskService) UpdateTaskStatus(ctx context.Context, params services.UpdateTaskStatusParams) (*models.Task, error) {
	if m.UpdateTaskStatusFunc != nil {
		return m.UpdateTaskStatusFunc(ctx, params)
	}
	return nil, errMockNotConfigured
}

func (m *mockTaskService) ToggleTaskPrioritized(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if m.ToggleTaskPrioritizedFunc != nil {
		return m.ToggleTaskPrioritizedFunc(ctx, userID, taskID)
	}
	return nil, errMockNotConfigured
}

func (m *mockTaskService) DeleteTask(ctx context.Context, params services.DeleteTaskParams) error {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, params)
	}
	return nil
}

type mockProjectService struct {
	CreateProjectFunc  func(ctx context.Context, params services.CreateProjectParams) (*models.Project, error)
	GetProjectsFunc    func(ctx context.Context, userID string) ([]models.ProjectWithCount, error)
	GetProjectByIDFunc func(ctx context.Context, userID, projectID string) (*models.Project, error)
	CountProjectsFunc  func(ctx context.Context, userID string) (int, error)
	UpdateProjectFunc  func(ctx context.Context, params services.UpdateProjectParams) (*models.Project, error)
	DeleteProjectFunc  func(ctx context.Context, params services.DeleteProjectParams) error
}

func (m *mockProjectService) CreateProject(ctx context.Context, params services.CreateProjectParams) (*models.Project, error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, params)
	}
	return nil, errMockNotConfigured
}

func (m *mockProjectService) GetProjects(ctx context.Context, userID string) ([]models.ProjectWithCount, error) {
	if m.GetProjectsFunc != nil {
		return m.GetProjectsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockProjectService) GetProjectByID(ctx context.Context, userID, projectID string) (*models.Project, error) {
	if m.GetProjectByIDFunc != nil {
		return m.GetProjectByIDFunc(ctx, userID, projectID)
	}
	return nil, services.ErrProjectNotFound
}

func (m *mockProjectService) CountProjects(ctx context.Context, userID string) (int, error) {
	if m.CountProjectsFunc != nil {
		return m.CountProjectsFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockProjectService) UpdateProject(ctx context.Context, params services.UpdateProjectParams) (*models.Project, error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, params)
	}
	return nil, errMockNotConfigured
}

func (m *mockProjectService) DeleteProject(ctx context.Context, params services.DeleteProjectParams) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, params)
	}
	return nil
}

type mockProfileService struct {
	GetProfileFunc    func(ctx context.Context, userID string) (*models.User, error)
	UpdateProfileFunc func(ctx context.Context, params services.UpdateProfileParams) (*models.User, error)
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, services.ErrUserNotFound
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, params services.UpdateProfileParams) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, params)
	}
	return nil, errMockNotConfigured
}

type mockExportService struct {
	WriteTasksXLSXFunc func(ctx context.Context, userID string, now time.Time, w io.Writer) error
}

func (m *mockExportService) WriteTasksXLSX(ctx context.Context, userID string, now time.Time, w io.Writer) error {
	if m.WriteTasksXLSXFunc != nil {
		return m.WriteTasksXLSXFunc(ctx, userID, now, w)
	}
	return errMockNotConfigured
}
