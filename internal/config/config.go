package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Stage       string
	Database    DatabaseConfig
	Log         LogConfig
	RateLimit   RateLimitConfig
	Serverless  *ServerlessConfig
}

// RateLimitConfig holds local server rate limiting. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("STAGE", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_PATH", "./data/bonuses.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("DB_SLOW_QUERY_THRESHOLD", "2s")
	v.SetDefault("DB_QUERY_LOGGING", true)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_DB", "postgres")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Stage:       v.GetString("STAGE"),
		Database: DatabaseConfig{
			Driver:         v.GetString("DB_DRIVER"),
			Path:           v.GetString("DB_PATH"),
			Host:           v.GetString("POSTGRES_HOST"),
			Port:           v.GetString("POSTGRES_PORT"),
			User:           v.GetString("POSTGRES_USER"),
			Password:       v.GetString("POSTGRES_PASSWORD"),
			Name:           v.GetString("POSTGRES_DB"),
			SSLMode:        v.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns:   v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:   v.GetInt("DB_MAX_IDLE_CONNS"),
			AutoMigrate:    v.GetBool("DB_AUTO_MIGRATE"),
			AutoMigrateSet: os.Getenv("DB_AUTO_MIGRATE") != "",

			SlowQueryThreshold: v.GetDuration("DB_SLOW_QUERY_THRESHOLD"),
			QueryLogging:       v.GetBool("DB_QUERY_LOGGING"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Serverless: DetectServerless(),
	}

	if err := config.Database.Validate(); err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(config), nil
}

// IsProduction reports whether the application runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt gets an environment variable as integer with a fallback value
func GetEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
