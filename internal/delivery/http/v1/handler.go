package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)
	HandleToggleTaskPrioritized(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleExportTasks(c *gin.Context)

	HandleCreateProject(c *gin.Context)
	HandleGetProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)

	HandleGetAnalytics(c *gin.Context)
	HandleGetCalendar(c *gin.Context)

	HandleGetProfile(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)
}

// Services groups the services the handler depends on.
type Services struct {
	Auth     services.AuthService
	Sessions services.SessionService
	Tasks    services.TaskService
	Projects services.ProjectService
	Profiles services.ProfileService
	Exports  services.ExportService
}

type handlerImpl struct {
	logger        zerolog.Logger
	secureCookies bool
	now           func() time.Time

	auth     services.AuthService
	sessions services.SessionService
	tasks    services.TaskService
	projects services.ProjectService
	profiles services.ProfileService
	exports  services.ExportService
}

func New(
	logger zerolog.Logger,
	secureCookies bool,
	svc Services,
) Handler {
	return &handlerImpl{
		logger:        logger,
		secureCookies: secureCookies,
		now:           time.Now,
		auth:          svc.Auth,
		sessions:      svc.Sessions,
		tasks:         svc.Tasks,
		projects:      svc.Projects,
		profiles:      svc.Profiles,
		exports:       svc.Exports,
	}
}
