package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
	// зоны салонов не зависят от tzdata в образе
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Auth       AuthConfig       `toml:"auth"`
	PortalAuth PortalAuthConfig `toml:"portal_auth"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
	Scheduling SchedulingConfig `toml:"scheduling"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig параметры проверки JWT сотрудников
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// PortalAuthConfig адрес сервиса проверки сессий клиентского портала
type PortalAuthConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// RateLimitConfig ограничение запросов к порталу (Redis)
type RateLimitConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Requests      int    `toml:"requests"`
	WindowSeconds int    `toml:"window_seconds"`
}

// Window окно ограничения
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// SchedulingConfig параметры расчета слотов
type SchedulingConfig struct {
	StepMinutes     int    `toml:"step_minutes"`
	DefaultRestDay  int    `toml:"default_rest_day"` // 0 = воскресенье
	DefaultTimezone string `toml:"default_timezone"`
}

// Location зона по умолчанию для салонов без timezone
func (s SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.DefaultTimezone)
}

// Load читает config.toml, подгружает .env (если есть) и применяет переопределения из окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "scheduling_service",
		},
		PortalAuth: PortalAuthConfig{Timeout: 5},
		RateLimit: RateLimitConfig{
			Requests:      60,
			WindowSeconds: 60,
		},
		Scheduling: SchedulingConfig{
			StepMinutes:     int(domain.DefaultStepMinutes),
			DefaultRestDay:  int(domain.DefaultRestDay),
			DefaultTimezone: "UTC",
		},
	}
}

// applyEnv переопределяет секреты и адреса из переменных окружения
func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("PORTAL_AUTH_URL"); v != "" {
		c.PortalAuth.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RateLimit.RedisAddr = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_PORT %q: %w", v, err)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет обязательные поля и допустимые значения
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		errs = append(errs, errors.New("database.host, database.user and database.dbname are required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret (or JWT_SECRET) is required"))
	}
	if c.PortalAuth.URL == "" {
		errs = append(errs, errors.New("portal_auth.url (or PORTAL_AUTH_URL) is required"))
	}
	if c.PortalAuth.Timeout <= 0 {
		errs = append(errs, errors.New("portal_auth.timeout must be positive"))
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		errs = append(errs, errors.New("metrics.path is required when metrics are enabled"))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RedisAddr == "" {
			errs = append(errs, errors.New("rate_limit.redis_addr (or REDIS_ADDR) is required when rate limit is enabled"))
		}
		if c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0 {
			errs = append(errs, errors.New("rate_limit.requests and rate_limit.window_seconds must be positive"))
		}
	}
	if c.Scheduling.StepMinutes <= 0 || c.Scheduling.StepMinutes > 24*60 {
		errs = append(errs, fmt.Errorf("scheduling.step_minutes must be in 1..1440, got %d", c.Scheduling.StepMinutes))
	}
	if !domain.Weekday(c.Scheduling.DefaultRestDay).IsValid() {
		errs = append(errs, fmt.Errorf("scheduling.default_rest_day must be in 0..6, got %d", c.Scheduling.DefaultRestDay))
	}
	if _, err := c.Scheduling.Location(); err != nil {
		errs = append(errs, fmt.Errorf("scheduling.default_timezone: %w", err))
	}

	return errors.Join(errs...)
}
