package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-required:"true"`
	HTTP      HTTPConfig      `yaml:"http"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	JWT       JWTConfig       `yaml:"jwt"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`

	// SecureCookies marks auth cookies as Secure. Off for plain-http local runs.
	SecureCookies bool `yaml:"secure_cookies" env:"HTTP_SECURE_COOKIES" env-default:"false"`
}

type PostgresConfig struct {
	Host           string        `yaml:"host" env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `yaml:"username" env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `yaml:"database" env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `yaml:"ping_timeout" env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
	MaxConns       int32         `yaml:"max_conns" env:"POSTGRES_MAX_CONNS" env-default:"0"`
}

type JWTConfig struct {
	Issuer          string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"go-task-tracker"`
	SigningKey      string        `yaml:"signing_key" env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
}

type SchedulerConfig struct {
	SessionPurgeSpec string        `yaml:"session_purge_spec" env:"SCHEDULER_SESSION_PURGE_SPEC" env-default:"@every 1h"`
	JobTimeout       time.Duration `yaml:"job_timeout" env:"SCHEDULER_JOB_TIMEOUT" env-default:"30s"`
}
