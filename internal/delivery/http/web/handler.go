// Package web serves the page routes of the front end. Every page is
// guarded by the session gate and answers with a JSON view model.
package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type Handler interface {
	HandleSessionGate(c *gin.Context)

	HandleLanding(c *gin.Context)
	HandleDashboard(c *gin.Context)
	HandleTasksPage(c *gin.Context)
	HandleProjectsPage(c *gin.Context)
	HandleCalendarPage(c *gin.Context)
	HandleSettingsPage(c *gin.Context)
	HandleSignOut(c *gin.Context)
	HandleNotFound(c *gin.Context)
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
}

func New(
	logger zerolog.Logger,
	secureCookies bool,
	svc v1.Services,
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
	}
}
