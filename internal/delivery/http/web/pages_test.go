package web

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type stubTaskService struct {
	services.TaskService
	tasks []models.Task
	from  time.Time
	to    time.Time
}

func (s *stubTaskService) GetAllTasks(context.Context, string) ([]models.Task, error) {
	return s.tasks, nil
}

func (s *stubTaskService) GetTasksDueBetween(_ context.Context, _ string, from, to time.Time) ([]models.Task, error) {
	s.from, s.to = from, to
	return s.tasks, nil
}

type stubProjectService struct {
	services.ProjectService
	projects []models.ProjectWithCount
}

func (s *stubProjectService) GetProjects(context.Context, string) ([]models.ProjectWithCount, error) {
	return s.projects, nil
}

func (s *stubProjectService) CountProjects(context.Context, string) (int, error) {
	return len(s.projects), nil
}

type stubProfileService struct {
	services.ProfileService
}

func (s *stubProfileService) GetProfile(_ context.Context, userID string) (*models.User, error) {
	return &models.User{ID: userID, Email: "jane@example.com", FullName: "Jane Doe"}, nil
}

func strPtr(s string) *string {
	return &s
}

func newAuthenticatedServices() v1.Services {
	svc := newTestServices()
	svc.Auth = validAuth()
	svc.Sessions = validSessions()
	return svc
}

func TestHandleLanding_EchoesRedirect(t *testing.T) {
	router := newTestRouter(newTestServices())

	w := get(router, "/?redirect=%2Ftasks")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"page":"home","redirect":"/tasks","authenticated":false}`, w.Body.String())
}

func TestHandleDashboard(t *testing.T) {
	svc := newAuthenticatedServices()
	tasks := make([]models.Task, 0, 6)
	for i := range 6 {
		status := models.StatusTodo
		if i%2 == 0 {
			status = models.StatusDone
		}
		tasks = append(tasks, models.Task{
			ID:        string(rune('a' + i)),
			Title:     "task",
			Status:    status,
			Priority:  models.PriorityMedium,
			CreatedAt: testNow.AddDate(0, 0, -i*3),
		})
	}
	tasks[1].DueDate = strPtr("2024-05-01")
	svc.Tasks = &stubTaskService{tasks: tasks}
	svc.Projects = &stubProjectService{projects: []models.ProjectWithCount{{}, {}}}
	router := newTestRouter(svc)

	w := get(router, "/dashboard?timeframe=week", accessCookie("good"))
	require.Equal(t, http.StatusOK, w.Code)

	var page dashboardPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "jane", page.Viewer.Name)
	assert.Equal(t, statsCards{
		TotalTasks:     6,
		CompletedTasks: 3,
		CompletionRate: 50,
		OverdueTasks:   1,
		OverduePercent: 17,
		TotalProjects:  2,
	}, page.Stats)
	// Created 0, 3 and 6 days ago.
	require.NotNil(t, page.Analytics)
	assert.Equal(t, 3, page.Analytics.TotalCount)
	assert.Len(t, page.RecentTasks, recentTasksLimit)
}

func TestHandleDashboard_UnknownTimeframe(t *testing.T) {
	router := newTestRouter(newAuthenticatedServices())

	w := get(router, "/dashboard?timeframe=decade", accessCookie("good"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDashboard_MalformedTask(t *testing.T) {
	svc := newAuthenticatedServices()
	svc.Tasks = &stubTaskService{tasks: []models.Task{
		{ID: "broken", Status: "archived", Priority: models.PriorityLow, CreatedAt: testNow},
	}}
	router := newTestRouter(svc)

	w := get(router, "/dashboard", accessCookie("good"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleTasksPage_GroupsByStatus(t *testing.T) {
	svc := newAuthenticatedServices()
	svc.Tasks = &stubTaskService{tasks: []models.Task{
		{ID: "1", Status: models.StatusTodo},
		{ID: "2", Status: models.StatusDone},
		{ID: "3", Status: models.StatusTodo},
	}}
	router := newTestRouter(svc)

	w := get(router, "/tasks", accessCookie("good"))
	require.Equal(t, http.StatusOK, w.Code)

	var page tasksPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Todo, 2)
	assert.Empty(t, page.InProgress)
	assert.Len(t, page.Done, 1)
	assert.NotNil(t, page.Projects)
}

func TestHandleCalendarPage(t *testing.T) {
	svc := newAuthenticatedServices()
	tasks := &stubTaskService{}
	svc.Tasks = tasks
	router := newTestRouter(svc)

	w := get(router, "/calendar?month=2024-12", accessCookie("good"))
	require.Equal(t, http.StatusOK, w.Code)

	var page calendarPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "2024-11", page.Previous)
	assert.Equal(t, "2025-01", page.Next)
	assert.Equal(t, "2024-12-01", tasks.from.Format(models.DueDateLayout))
	assert.Equal(t, "2024-12-31", tasks.to.Format(models.DueDateLayout))

	w = get(router, "/calendar?month=12-2024", accessCookie("good"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSettingsPage(t *testing.T) {
	router := newTestRouter(newAuthenticatedServices())

	w := get(router, "/settings", accessCookie("good"))
	require.Equal(t, http.StatusOK, w.Code)

	var page settingsPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "Jane Doe", page.FullName)
	assert.Equal(t, testUserID, page.Viewer.UserID)
}
