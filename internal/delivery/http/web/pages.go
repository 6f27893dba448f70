package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/analytics"
	"github.com/adanyl0v/go-task-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-tracker/internal/gate"
	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

const (
	recentTasksLimit = 5
	monthLayout      = "2006-01"
)

type taskView struct {
	ID          string  `json:"id"`
	ProjectID   *string `json:"project_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	Prioritized bool    `json:"prioritized"`
	DueDate     *string `json:"due_date"`
}

func newTaskViews(tasks []models.Task) []taskView {
	views := make([]taskView, len(tasks))
	for i, task := range tasks {
		views[i] = taskView{
			ID:          task.ID,
			ProjectID:   task.ProjectID,
			Title:       task.Title,
			Description: task.Description,
			Status:      task.Status,
			Priority:    task.Priority,
			Prioritized: task.Prioritized,
			DueDate:     task.DueDate,
		}
	}
	return views
}

type projectView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	TaskCount   int    `json:"task_count"`
}

type viewer struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func newViewer(session *gate.Session) viewer {
	name, _, _ := strings.Cut(session.Email, "@")
	if name == "" {
		name = "User"
	}
	return viewer{
		UserID: session.UserID,
		Email:  session.Email,
		Name:   name,
	}
}

type landingPage struct {
	Page          string `json:"page"`
	Redirect      string `json:"redirect,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// HandleLanding serves "/", "/login" and "/signup".
func (h *handlerImpl) HandleLanding(c *gin.Context) {
	page := strings.TrimPrefix(c.Request.URL.Path, "/")
	if page == "" {
		page = "home"
	}

	_, authenticated := sessionFromContext(c)
	c.JSON(http.StatusOK, landingPage{
		Page:          page,
		Redirect:      c.Query(gate.RedirectParam),
		Authenticated: authenticated,
	})
}

type statsCards struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	CompletionRate int `json:"completion_rate"`
	OverdueTasks   int `json:"overdue_tasks"`
	OverduePercent int `json:"overdue_percent"`
	TotalProjects  int `json:"total_projects"`
}

type dashboardPage struct {
	Viewer      viewer            `json:"viewer"`
	Stats       statsCards        `json:"stats"`
	Timeframe   string            `json:"timeframe"`
	Analytics   *analytics.Result `json:"analytics"`
	RecentTasks []taskView        `json:"recent_tasks"`
}

func (h *handlerImpl) HandleDashboard(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	timeframe := c.DefaultQuery("timeframe", analytics.TimeframeWeek)
	days, err := analytics.ParseTimeframe(timeframe)
	if err != nil {
		abortPage(c, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.tasks.GetAllTasks(c, session.UserID)
	if err != nil {
		h.abortInternal(c, err, "failed to get tasks")
		return
	}

	projectCount, err := h.projects.CountProjects(c, session.UserID)
	if err != nil {
		h.abortInternal(c, err, "failed to count projects")
		return
	}

	now := h.now()
	overall, err := analytics.Analyze(tasks, now, 0)
	if err != nil {
		h.abortAnalytics(c, err)
		return
	}
	result, err := analytics.Analyze(tasks, now, days)
	if err != nil {
		h.abortAnalytics(c, err)
		return
	}

	recent := tasks
	if len(recent) > recentTasksLimit {
		recent = recent[:recentTasksLimit]
	}

	c.JSON(http.StatusOK, dashboardPage{
		Viewer: newViewer(session),
		Stats: statsCards{
			TotalTasks:     overall.TotalCount,
			CompletedTasks: overall.CompletedCount,
			CompletionRate: overall.CompletionRate,
			OverdueTasks:   overall.OverdueCount,
			OverduePercent: overall.OverduePercent,
			TotalProjects:  projectCount,
		},
		Timeframe:   timeframe,
		Analytics:   result,
		RecentTasks: newTaskViews(recent),
	})
}

type tasksPage struct {
	Viewer     viewer        `json:"viewer"`
	Todo       []taskView    `json:"todo"`
	InProgress []taskView    `json:"in_progress"`
	Done       []taskView    `json:"done"`
	Projects   []projectView `json:"projects"`
}

func (h *handlerImpl) HandleTasksPage(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.GetAllTasks(c, session.UserID)
	if err != nil {
		h.abortInternal(c, err, "failed to get tasks")
		return
	}

	projects, err := h.projects.GetProjects(c, session.UserID)
	if err != nil {
		h.abortInternal(c, err, "failed to get projects")
		return
	}

	byStatus := make(map[string][]models.Task, 3)
	for _, task := range tasks {
		byStatus[task.Status] = append(byStatus[task.Status], task)
	}

	c.JSON(http.StatusOK, tasksPage{
		Viewer:     newViewer(session),
		Todo:       newTaskViews(byStatus[models.StatusTodo]),
		InProgress: newTaskViews(byStatus[models.StatusInProgress]),
		Done:       newTaskViews(byStatus[models.StatusDone]),
		Projects:   newProjectViews(projects),
	})
}

type projectsPage struct {
	Viewer   viewer        `json:"viewer"`
	Projects []projectView `json:"projects"`
}

func (h *handlerImpl) HandleProjectsPage(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	projects, err := h.projects.GetProjects(c, session.UserID)
	if err != nil {
		h.abortInternal(c, err, "failed to get projects")
		return
	}

	c.JSON(http.StatusOK, projectsPage{
		Viewer:   newViewer(session),
		Projects: newProjectViews(projects),
	})
}

func newProjectViews(projects []models.ProjectWithCount) []projectView {
	views := make([]projectView, len(projects))
	for i, project := range projects {
		views[i] = projectView{
			ID:          project.ID,
			Name:        project.Name,
			Description: project.Description,
			Color:       project.Color,
			TaskCount:   project.TaskCount,
		}
	}
	return views
}

type calendarPage struct {
	Viewer   viewer     `json:"viewer"`
	Month    string     `json:"month"`
	Previous string     `json:"previous"`
	Next     string     `json:"next"`
	Tasks    []taskView `json:"tasks"`
}

func (h *handlerImpl) HandleCalendarPage(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	now := h.now()
	month := c.DefaultQuery("month", now.Format(monthLayout))
	from, err := time.ParseInLocation(monthLayout, month, now.Location())
	if err != nil {
		abortPage(c, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}

	tasks, err := h.tasks.GetTasksDueBetween(c, session.UserID, from, from.AddDate(0, 1, -1))
	if err != nil {
		h.abortInternal(c, err, "failed to get tasks due in month")
		return
	}

	c.JSON(http.StatusOK, calendarPage{
		Viewer:   newViewer(session),
		Month:    month,
		Previous: from.AddDate(0, -1, 0).Format(monthLayout),
		Next:     from.AddDate(0, 1, 0).Format(monthLayout),
		Tasks:    newTaskViews(tasks),
	})
}

type settingsPage struct {
	Viewer    viewer    `json:"viewer"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *handlerImpl) HandleSettingsPage(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c, session.UserID)
	if err != nil {
		h.abortInternal(c, err, "failed to get profile")
		return
	}

	c.JSON(http.StatusOK, settingsPage{
		Viewer:    newViewer(session),
		FullName:  profile.FullName,
		AvatarURL: profile.AvatarURL,
		CreatedAt: profile.CreatedAt,
	})
}

// HandleSignOut ends every session of the viewer and returns to the
// landing page. Anonymous viewers are redirected as well.
func (h *handlerImpl) HandleSignOut(c *gin.Context) {
	if session, ok := sessionFromContext(c); ok {
		err := h.auth.Logout(c, session.UserID)
		if err != nil {
			h.abortInternal(c, err, "failed to sign out")
			return
		}
	}

	v1.ClearAuthCookies(c, h.secureCookies)
	c.Redirect(http.StatusSeeOther, gate.HomePath)
}

// HandleNotFound answers paths outside the route table. Registered after
// the session gate, so anonymous viewers are redirected first.
func (h *handlerImpl) HandleNotFound(c *gin.Context) {
	abortPage(c, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func (h *handlerImpl) requireSession(c *gin.Context) (*gate.Session, bool) {
	session, ok := sessionFromContext(c)
	if !ok {
		abortPage(c, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		return nil, false
	}
	return session, true
}

func (h *handlerImpl) abortInternal(c *gin.Context, err error, msg string) {
	h.logger.Error().
		Err(err).
		Str("path", c.Request.URL.Path).
		Msg(msg)

	status := http.StatusInternalServerError
	if errors.Is(err, services.ErrUserNotFound) {
		status = http.StatusNotFound
	}
	abortPage(c, status, http.StatusText(status))
}

func (h *handlerImpl) abortAnalytics(c *gin.Context, err error) {
	h.logger.Error().
		Err(err).
		Msg("failed to analyze tasks")
	abortPage(c, http.StatusUnprocessableEntity, err.Error())
}

func abortPage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
