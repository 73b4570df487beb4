package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process settings. It is built once by main and passed explicitly.
type Config struct {
	DBDriver       string
	DBPath         string
	DatabaseURL    string
	Port           string
	RedisAddr      string
	TrustProxy     bool
	JWTSecret      string
	JWTTTL         time.Duration
	MediaDir       string
	SensorAPIURL   string
	SensorAPIToken string
	SensorSchedule string
	AdminPassword  string
	SeedRandom     int64
	ReportPath     string
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads an optional .env file and collects settings from the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv()
}

// FromEnv collects settings from the current environment without touching .env.
func FromEnv() (Config, error) {
	cfg := Config{
		DBDriver:       strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DBPath:         Get("DB_PATH", "data/app.db"),
		DatabaseURL:    Get("DATABASE_URL", ""),
		Port:           Get("PORT", "8080"),
		RedisAddr:      Get("REDIS_ADDR", "localhost:6379"),
		JWTSecret:      Get("JWT_SECRET", ""),
		MediaDir:       Get("MEDIA_DIR", "media"),
		SensorAPIURL:   Get("SENSOR_API_URL", "http://localhost:8080/sensor-data"),
		SensorAPIToken: Get("SENSOR_API_TOKEN", ""),
		SensorSchedule: Get("SENSOR_SCHEDULE", "@every 1s"),
		AdminPassword:  Get("ADMIN_PASSWORD", ""),
		ReportPath:     Get("REPORT_PATH", "report.xlsx"),
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("load config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("load config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	ttl, err := time.ParseDuration(Get("JWT_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: parse JWT_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("load config: JWT_TTL must be positive, got %s", ttl)
	}
	cfg.JWTTTL = ttl

	trust, err := strconv.ParseBool(Get("TRUST_PROXY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: parse TRUST_PROXY: %w", err)
	}
	cfg.TrustProxy = trust

	seed, err := strconv.ParseInt(Get("SEED_RANDOM", "42"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("load config: parse SEED_RANDOM: %w", err)
	}
	cfg.SeedRandom = seed

	return cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}
