package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Seed          SeedConfig          `mapstructure:"seed"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ValidateRequests  bool          `mapstructure:"validate_requests"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=sqlite postgres"`
	Source          string        `mapstructure:"source"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m"`
	DemoPassword        string        `mapstructure:"demo_password"`
	BCryptCost          int           `mapstructure:"bcrypt_cost" validate:"min=4,max=15"`
}

// SeedConfig points at the YAML dataset. An empty Path uses the embedded
// demo organization.
type SeedConfig struct {
	Path      string `mapstructure:"path"`
	OnStartup bool   `mapstructure:"on_startup"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
}

// DefaultConfig runs entirely in memory: sqlite shared-cache database,
// migrated and seeded at startup.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:              8080,
			AllowedOrigins:    "*",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
			WriteTimeout:      15 * time.Second,
			ValidateRequests:  true,
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Source:          "file::memory:?cache=shared",
			AutoMigrate:     true,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: SecurityConfig{
			JWTSecret:           "okr-dashboard-development-secret-change-me",
			AccessTokenDuration: 8 * time.Hour,
			DemoPassword:        "password",
			BCryptCost:          10,
		},
		Seed: SeedConfig{OnStartup: true},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "debug", Format: "text"},
		},
	}
}

// LoadConfigFromEnv builds the configuration for container deployments,
// starting from DefaultConfig and overriding from APP_* variables.
func LoadConfigFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.Environment = getEnv("APP_ENV", cfg.Environment)

	cfg.Server.Port = getEnvAsInt("APP_PORT", cfg.Server.Port)
	cfg.Server.BaseURL = getEnv("APP_BASE_URL", cfg.Server.BaseURL)
	cfg.Server.AllowedOrigins = getEnv("APP_ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)
	cfg.Server.ValidateRequests = getEnvAsBool("APP_VALIDATE_REQUESTS", cfg.Server.ValidateRequests)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Source = getEnv("DB_SOURCE", cfg.Database.Source)
	cfg.Database.AutoMigrate = getEnvAsBool("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime)
	cfg.Database.ConnMaxIdleTime = getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", cfg.Database.ConnMaxIdleTime)

	cfg.Security.JWTSecret = getEnv("JWT_SECRET", cfg.Security.JWTSecret)
	cfg.Security.AccessTokenDuration = getEnvAsDuration("JWT_ACCESS_TOKEN_DURATION", cfg.Security.AccessTokenDuration)
	cfg.Security.DemoPassword = getEnv("DEMO_PASSWORD", cfg.Security.DemoPassword)
	cfg.Security.BCryptCost = getEnvAsInt("BCRYPT_COST", cfg.Security.BCryptCost)

	cfg.Seed.Path = getEnv("SEED_PATH", cfg.Seed.Path)
	cfg.Seed.OnStartup = getEnvAsBool("SEED_ON_STARTUP", cfg.Seed.OnStartup)

	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", "info")
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.AccessTokenDuration < time.Minute {
		return errors.New("access_token_duration must be at least 1m")
	}
	if c.BCryptCost != 0 && (c.BCryptCost < 4 || c.BCryptCost > 15) {
		return errors.New("bcrypt_cost must be between 4 and 15")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	return nil
}
