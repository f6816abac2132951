package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Qdrant     QdrantConfig
	Gemini     GeminiConfig
	Runner     RunnerConfig
	Storage    StorageConfig
	Dispatcher DispatcherConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	MeetingBase string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey string
}

type RunnerConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	UploadPath string
}

type DispatcherConfig struct {
	Concurrency      int
	RetryMaxAttempts int
	RetryDelay       time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "3000"),
			Env:         getEnv("ENV", "development"),
			MeetingBase: getEnv("MEETING_BASE_URL", "https://meet.example.com/hiring"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hiring_pipeline"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "job_contexts"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Runner: RunnerConfig{
			BaseURL: getEnv("RUNNER_URL", "http://localhost:4000"),
			Timeout: getEnvAsDuration("RUNNER_TIMEOUT", "15s"),
		},
		Storage: StorageConfig{
			UploadPath: getEnv("UPLOAD_PATH", "./uploads"),
		},
		Dispatcher: DispatcherConfig{
			Concurrency:      getEnvAsInt("DISPATCHER_CONCURRENCY", 3),
			RetryMaxAttempts: getEnvAsInt("DISPATCHER_MAX_ATTEMPTS", 3),
			RetryDelay:       getEnvAsDuration("DISPATCHER_RETRY_DELAY", "2s"),
		},
		Log: LogConfig{
			JSON:  getEnv("LOG_FORMAT", "console") == "json",
			Debug: getEnv("LOG_DEBUG", "false") == "true",
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
