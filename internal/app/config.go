package app

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-task-tracker/internal/config"
)

// configPathEnv names a yaml, json, toml or env file to read the
// config from instead of the environment alone.
const configPathEnv = "CONFIG_PATH"

func MustReadConfig() {
	var reader config.Reader = config.NewEnvReader()
	path := os.Getenv(configPathEnv)
	if path != "" {
		reader = config.NewFileReader(path)
	}

	cfg, err := reader.Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to read config")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("path", path).
		Msg("read config")

	config.SetGlobal(cfg)
}
