package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const DefaultAnalyzerBaseURL = "https://resume-analyzer-api-351747392494.asia-south1.run.app"

type Config struct {
	App          AppConfig
	Analyzer     AnalyzerConfig
	Intake       IntakeConfig
	Notification NotificationConfig
	Session      SessionConfig
	Storage      StorageConfig
	Database     DatabaseConfig
	Redis        RedisConfig
}

type AppConfig struct {
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development staging production test"`
}

type AnalyzerConfig struct {
	BaseURL          string        `validate:"required,url"`
	Timeout          time.Duration `validate:"gte=0"`
	MaxResponseBytes int64         `validate:"gt=0"`
}

type IntakeConfig struct {
	MaxFileSize  int64    `validate:"gt=0"`
	AllowedTypes []string `validate:"dive,required"`
	EnforceType  bool
	AutoSubmit   bool
}

type NotificationConfig struct {
	TTL time.Duration `validate:"gte=0"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `validate:"gt=0"`
	SweepInterval time.Duration `validate:"gt=0"`
	WaitTimeout   time.Duration `validate:"gt=0"`
}

type StorageConfig struct {
	Driver string `validate:"oneof=file redis postgres"`
	Dir    string `validate:"required_if=Driver file"`
	Key    string `validate:"required"`
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int `validate:"gte=0"`
}

func Load() *Config {
	return &Config{
		App: AppConfig{
			Port: getEnv("APP_PORT", "3000"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Analyzer: AnalyzerConfig{
			BaseURL:          getEnv("ANALYZER_BASE_URL", DefaultAnalyzerBaseURL),
			Timeout:          getEnvAsDuration("ANALYZER_TIMEOUT", "60s"),
			MaxResponseBytes: getEnvAsInt64("ANALYZER_MAX_RESPONSE_BYTES", 5*1024*1024),
		},
		Intake: IntakeConfig{
			MaxFileSize:  getEnvAsInt64("INTAKE_MAX_FILE_SIZE", 10*1024*1024),
			AllowedTypes: getEnvAsList("INTAKE_ALLOWED_TYPES", []string{".pdf", ".docx"}),
			EnforceType:  getEnvAsBool("INTAKE_ENFORCE_TYPE", false),
			AutoSubmit:   getEnvAsBool("INTAKE_AUTO_SUBMIT", true),
		},
		Notification: NotificationConfig{
			TTL: getEnvAsDuration("NOTIFICATION_TTL", "5s"),
		},
		Session: SessionConfig{
			IdleTTL:       getEnvAsDuration("SESSION_IDLE_TTL", "30m"),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", "1m"),
			WaitTimeout:   getEnvAsDuration("SESSION_WAIT_TIMEOUT", "25s"),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "file"),
			Dir:    getEnv("STORAGE_DIR", "./data"),
			Key:    getEnv("STORAGE_KEY", "analysisResult"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "resume_analyzer"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
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

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
