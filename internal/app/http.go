package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-tracker/internal/delivery/http/web"
)

const healthCheckTimeout = 2 * time.Second

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(requestLogger(componentLogger("http")))
	router.Use(gin.Recovery())
	registerRoutes(router, httpCfg.SecureCookies)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	globalLogger.Info().
		Str("signal", sig.String()).
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")

	StopScheduler()
}

func registerRoutes(router *gin.Engine, secureCookies bool) {
	api := v1.New(componentLogger("api"), secureCookies, globalServices)
	pages := web.New(componentLogger("web"), secureCookies, globalServices)

	apiRouter := router.Group("/api/v1")
	apiRouter.GET("/health", handleHealth)

	authRouter := apiRouter.Group("/auth")
	authRouter.POST("/login", api.HandleLogin)
	authRouter.POST("/refresh", api.HandleRefresh)
	authRouter.POST("/register", api.HandleRegister)
	authRouter.POST("/logout", api.HandleAuthMiddleware, api.HandleLogout)

	protected := apiRouter.Group("/", api.HandleAuthMiddleware)

	protected.POST("/tasks", api.HandleCreateTask)
	protected.GET("/tasks", api.HandleGetTasks)
	protected.GET("/tasks/export", api.HandleExportTasks)
	protected.GET("/tasks/:id", api.HandleGetTask)
	protected.PATCH("/tasks/:id", api.HandleUpdateTask)
	protected.PATCH("/tasks/:id/status", api.HandleSetTaskStatus)
	protected.PATCH("/tasks/:id/prioritized", api.HandleToggleTaskPrioritized)
	protected.DELETE("/tasks/:id", api.HandleDeleteTask)

	protected.POST("/projects", api.HandleCreateProject)
	protected.GET("/projects", api.HandleGetProjects)
	protected.GET("/projects/:id", api.HandleGetProject)
	protected.PATCH("/projects/:id", api.HandleUpdateProject)
	protected.DELETE("/projects/:id", api.HandleDeleteProject)

	protected.GET("/analytics", api.HandleGetAnalytics)
	protected.GET("/calendar", api.HandleGetCalendar)

	protected.GET("/profile", api.HandleGetProfile)
	protected.PATCH("/profile", api.HandleUpdateProfile)

	pageRouter := router.Group("/", pages.HandleSessionGate)
	pageRouter.GET("/", pages.HandleLanding)
	pageRouter.GET("/login", pages.HandleLanding)
	pageRouter.GET("/signup", pages.HandleLanding)
	pageRouter.GET("/dashboard", pages.HandleDashboard)
	pageRouter.GET("/tasks", pages.HandleTasksPage)
	pageRouter.GET("/projects", pages.HandleProjectsPage)
	pageRouter.GET("/calendar", pages.HandleCalendarPage)
	pageRouter.GET("/settings", pages.HandleSettingsPage)
	pageRouter.POST("/auth/signout", pages.HandleSignOut)

	router.NoRoute(pages.HandleSessionGate, pages.HandleNotFound)
}

func handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, healthCheckTimeout)
	defer cancel()

	err := globalPostgresPool.Ping(ctx)
	if err != nil {
		globalLogger.Warn().
			Err(err).
			Msg("health check failed")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
