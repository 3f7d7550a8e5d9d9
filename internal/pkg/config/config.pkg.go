package config

import (
	"fmt"
	"strings"
	"time"

	"lostfound/internal/common/enum"
	database "lostfound/internal/pkg/db"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/mqtt"
	"lostfound/internal/pkg/rabbitmq"
	"lostfound/internal/pkg/redis"
)

type App struct {
	Env     enum.EnvEnum
	Port    int
	BaseURL string
	Secret  string
	Origins []string
}

type Storage struct {
	Driver    string // "local" or "gcs"
	Dir       string
	PublicURL string
	Bucket    string
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Config struct {
	App      App
	DB       database.Config
	Redis    *redis.Config
	RabbitMQ *rabbitmq.Config
	MQTT     *mqtt.Config
	Storage  Storage
	SMTP     SMTP

	TokenTTL time.Duration
	CodeTTL  time.Duration
}

// Load reads .env (if present) and the environment. Optional backends
// (redis, rabbitmq, mqtt) stay nil when their host is not set.
func Load(envFiles ...string) (*Config, error) {
	helper.LoadEnv(envFiles...)

	cfg := &Config{
		App: App{
			Env:     enum.EnvEnum(helper.GetEnvOr("APP_ENV", enum.DEVELOPMENT.ToString())),
			Port:    helper.GetEnvAsIntOr("APP_PORT", 8000),
			BaseURL: helper.GetEnvOr("APP_URL", "http://localhost:8000"),
			Secret:  helper.GetEnv("APP_SECRET"),
			Origins: splitList(helper.GetEnv("CORS_ORIGINS")),
		},
		DB: database.Config{
			Driver:   helper.GetEnvOr("DB_DRIVER", database.DriverSQLite),
			Host:     helper.GetEnvOr("DB_HOST", "localhost"),
			Port:     helper.GetEnvAsIntOr("DB_PORT", 5432),
			User:     helper.GetEnv("DB_USER"),
			Password: helper.GetEnv("DB_PASSWORD"),
			Database: helper.GetEnvOr("DB_NAME", "lostfound.db"),
			SSLMode:  helper.GetEnvOr("DB_SSLMODE", "disable"),
		},
		Storage: Storage{
			Driver:    helper.GetEnvOr("STORAGE_DRIVER", "local"),
			Dir:       helper.GetEnvOr("STORAGE_DIR", "uploads"),
			PublicURL: helper.GetEnvOr("STORAGE_PUBLIC_URL", "/uploads"),
			Bucket:    helper.GetEnvOr("CS_BUCKET", "lostfound"),
		},
		SMTP: SMTP{
			Host:     helper.GetEnv("SMTP_HOST"),
			Port:     helper.GetEnvAsIntOr("SMTP_PORT", 587),
			Username: helper.GetEnv("SMTP_USERNAME"),
			Password: helper.GetEnv("SMTP_PASSWORD"),
			From:     helper.GetEnvOr("SMTP_FROM", "no-reply@lostfound.local"),
		},
		TokenTTL: helper.GetEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		CodeTTL:  helper.GetEnvAsDuration("CODE_TTL", 15*time.Minute),
	}

	if host := helper.GetEnv("REDIS_HOST"); host != "" {
		cfg.Redis = &redis.Config{
			Host:     host,
			Port:     helper.GetEnvAsIntOr("REDIS_PORT", 6379),
			Password: helper.GetEnv("REDIS_PASSWORD"),
			PoolSize: helper.GetEnvAsIntOr("REDIS_POOL_SIZE", 10),
		}
	}
	if host := helper.GetEnv("RABBITMQ_HOST"); host != "" {
		cfg.RabbitMQ = &rabbitmq.Config{
			Username: helper.GetEnvOr("RABBITMQ_USERNAME", "guest"),
			Password: helper.GetEnvOr("RABBITMQ_PASSWORD", "guest"),
			Host:     host,
			Port:     helper.GetEnvAsIntOr("RABBITMQ_PORT", 5672),
		}
	}
	if url := helper.GetEnv("MQTT_URL"); url != "" {
		cfg.MQTT = &mqtt.Config{
			URL:      url,
			ClientID: helper.GetEnvOr("MQTT_CLIENT_ID", "lostfound-server"),
			Username: helper.GetEnv("MQTT_USERNAME"),
			Password: helper.GetEnv("MQTT_PASSWORD"),
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !c.App.Env.IsValid() {
		return fmt.Errorf("APP_ENV %q is not one of development, staging, production, test", c.App.Env)
	}
	if c.App.Secret == "" {
		if c.App.Env == enum.PRODUCTION {
			return fmt.Errorf("APP_SECRET is required in production")
		}
		c.App.Secret = "lostfound-dev-secret"
	}
	switch c.DB.Driver {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported", c.DB.Driver)
	}
	switch c.Storage.Driver {
	case "local", "gcs":
	default:
		return fmt.Errorf("STORAGE_DRIVER %q is not supported", c.Storage.Driver)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}
