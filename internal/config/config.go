package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development signing key. Release builds refuse to start with it.
const DefaultJWTSecret = "change-me-in-production-taskhub-secret"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	CORS     CORSConfig     `mapstructure:"cors"`
	LogLevel string         `mapstructure:"log_level"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AcquireTimeout  time.Duration `mapstructure:"acquire_timeout"`
}

// DSN builds the Postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	TenantCacheTTL time.Duration `mapstructure:"tenant_cache_ttl"`
}

// Addr is the host:port pair for the client
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AuthConfig struct {
	SuperAdminEmail       string `mapstructure:"super_admin_email"`
	SuperAdminPassword    string `mapstructure:"super_admin_password"`
	SystemSubdomain       string `mapstructure:"system_subdomain"`
	BlockSuspendedTenants bool   `mapstructure:"block_suspended_tenants"`
	BcryptCost            int    `mapstructure:"bcrypt_cost"`
}

type NATSConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type AuditConfig struct {
	QueueSize       int    `mapstructure:"queue_size"`
	Workers         int    `mapstructure:"workers"`
	RetentionDays   int    `mapstructure:"retention_days"`
	CleanupSchedule string `mapstructure:"cleanup_schedule"`
}

type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// envAliases maps the conventional deployment variables onto config keys
var envAliases = map[string]string{
	"server.port":                  "PORT",
	"server.mode":                  "GIN_MODE",
	"database.driver":              "STORE",
	"database.host":                "DB_HOST",
	"database.port":                "DB_PORT",
	"database.user":                "DB_USER",
	"database.password":            "DB_PASSWORD",
	"database.name":                "DB_NAME",
	"database.sslmode":             "DB_SSLMODE",
	"redis.host":                   "REDIS_HOST",
	"redis.port":                   "REDIS_PORT",
	"redis.password":               "REDIS_PASSWORD",
	"jwt.secret":                   "JWT_SECRET",
	"jwt.expiry":                   "JWT_EXPIRES_IN",
	"auth.super_admin_email":       "SUPER_ADMIN_EMAIL",
	"auth.super_admin_password":    "SUPER_ADMIN_PASSWORD",
	"nats.url":                     "NATS_URL",
	"tracing.endpoint":             "OTEL_EXPORTER_OTLP_ENDPOINT",
	"cors.allowed_origins":         "FRONTEND_URL",
	"log_level":                    "LOG_LEVEL",
	"auth.block_suspended_tenants": "BLOCK_SUSPENDED_TENANTS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "saas_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.acquire_timeout", 5*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tenant_cache_ttl", 5*time.Minute)

	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.expiry", 24*time.Hour)
	v.SetDefault("jwt.issuer", "taskhub")

	v.SetDefault("auth.super_admin_email", "superadmin@system.com")
	v.SetDefault("auth.super_admin_password", "")
	v.SetDefault("auth.system_subdomain", "system")
	v.SetDefault("auth.block_suspended_tenants", true)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "audit")

	v.SetDefault("audit.queue_size", 1024)
	v.SetDefault("audit.workers", 2)
	v.SetDefault("audit.retention_days", 90)
	v.SetDefault("audit.cleanup_schedule", "0 0 2 * * *")

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "taskhub-api")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("log_level", "info")
}

// Load reads an optional .env file, then defaults overridden by environment variables.
// Nested keys map to upper-case names with dots replaced by underscores (DATABASE_MAX_OPEN_CONNS).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsRelease reports whether the server runs in gin release mode
func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.IsRelease() && (c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret) {
		errs = append(errs, errors.New("jwt.secret must be set in release mode"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret must not be empty"))
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("jwt.expiry must be positive"))
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not one of postgres, memory", c.Database.Driver))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost %d is out of range", c.Auth.BcryptCost))
	}
	if c.Audit.QueueSize <= 0 || c.Audit.Workers <= 0 {
		errs = append(errs, errors.New("audit.queue_size and audit.workers must be positive"))
	}

	return errors.Join(errs...)
}
