package app

import (
	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

var globalServices v1.Services

func MustInitServices() {
	if globalPostgresPool == nil {
		globalLogger.Error().Msg("postgres is not connected")
		panic("app: services require a postgres connection")
	}

	jwtCfg := config.Global().JWT
	logger := componentLogger("services")

	tasks := services.NewTaskService(logger, globalPostgresPool)
	projects := services.NewProjectService(logger, globalPostgresPool)
	globalServices = v1.Services{
		Auth: services.NewAuthService(
			logger,
			globalPostgresPool,
			jwtCfg.Issuer,
			[]byte(jwtCfg.SigningKey),
			jwtCfg.AccessTokenTTL,
			jwtCfg.RefreshTokenTTL,
		),
		Sessions: services.NewSessionService(logger, globalPostgresPool),
		Tasks:    tasks,
		Projects: projects,
		Profiles: services.NewProfileService(logger, globalPostgresPool),
		Exports:  services.NewExportService(logger, tasks, projects),
	}
	globalLogger.Info().Msg("initialized services")
}
