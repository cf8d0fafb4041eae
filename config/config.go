package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret only signs tokens when ENV is local.
const DefaultJWTSecret = "change-me-secret"

// Config gathers every environment setting the service reads.
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string

	Host        string
	Port        string
	MetricsPort string
	PublicDir   string
	CORSOrigins string

	Database Database
	Auth     Auth
	Log      Log

	RedisAddr        string
	LoginMaxFailures int
	LoginLockout     time.Duration

	KafkaBrokers string // "a:9092,b:9092"
	KafkaTopic   string

	IntegrityInterval time.Duration // 0 disables the background check
}

type Database struct {
	Driver      string // postgres, sqlite or memory
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	Path        string
	AutoMigrate bool
}

type Auth struct {
	JWTSecret     string
	TokenTTL      time.Duration
	BcryptCost    int
	AdminUsername string
	AdminPassword string
	AdminName     string
}

type Log struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads the environment, falling back to local defaults.
func Load() Config {
	return Config{
		Env:         getEnv("ENV", "local"),
		ServiceName: getEnv("SERVICE_NAME", "cayo"),

		Host:        getEnv("HOST", "127.0.0.1"),
		Port:        getEnv("PORT", "4000"),
		MetricsPort: getEnv("METRICS_PORT", "9095"),
		PublicDir:   getEnv("PUBLIC_DIR", "./public"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		Database: Database{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "cayo"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "cayo"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			Path:        getEnv("DB_PATH", "cayo.sqlite"),
			AutoMigrate: getBool("DB_AUTO_MIGRATE", true),
		},
		Auth: Auth{
			JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
			TokenTTL:      getDuration("TOKEN_TTL", 12*time.Hour),
			BcryptCost:    getInt("BCRYPT_COST", 10),
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
			AdminName:     getEnv("ADMIN_NAME", "Admin"),
		},
		Log: Log{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getInt("LOG_MAX_AGE_DAYS", 30),
		},

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		LoginMaxFailures: getInt("LOGIN_MAX_FAILURES", 5),
		LoginLockout:     getDuration("LOGIN_LOCKOUT", 15*time.Minute),

		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "cayo.events"),

		IntegrityInterval: getDuration("INTEGRITY_INTERVAL", 10*time.Minute),
	}
}

// Validate rejects settings the server must not start with.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is empty")
	}
	if c.Env != "local" && c.Auth.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set outside the local environment")
	}
	return nil
}

func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return d
}
