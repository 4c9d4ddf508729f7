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
	Server    ServerConfig
	Database  DatabaseConfig
	Gemini    GeminiConfig
	SMTP      SMTPConfig
	Blob      BlobConfig
	Company   CompanyConfig
	Storage   StorageConfig
	Screening ScreeningConfig
	Interview InterviewConfig
}

type ServerConfig struct {
	Port string
	Env  string
	// Screening a batch of applications is one long synchronous request,
	// so the write timeout is measured in minutes rather than seconds.
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type BlobConfig struct {
	BaseURL string
	Token   string
}

type CompanyConfig struct {
	Name           string
	CareersPageURL string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type ScreeningConfig struct {
	TopN             int
	MinimumScore     float64
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
}

type InterviewConfig struct {
	DurationMinutes int
	GapMinutes      int
	DefaultSSEName  string
	DefaultSSEEmail string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			Env:          getEnv("ENV", "development"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "10m"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "evalyn_hr"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "hr@yourcompany.com"),
		},
		Blob: BlobConfig{
			BaseURL: getEnv("BLOB_BASE_URL", ""),
			Token:   getEnv("BLOB_READ_WRITE_TOKEN", ""),
		},
		Company: CompanyConfig{
			Name:           getEnv("COMPANY_NAME", "Your Company"),
			CareersPageURL: getEnv("CAREERS_PAGE_URL", "https://yourcompany.com/careers"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads/cvs"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Screening: ScreeningConfig{
			TopN:             getEnvAsInt("SCREENING_TOP_N", 10),
			MinimumScore:     getEnvAsFloat("MINIMUM_MATCH_SCORE", 75.0),
			RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryBaseDelay:   getEnvAsDuration("RETRY_BASE_DELAY", "2s"),
		},
		Interview: InterviewConfig{
			DurationMinutes: getEnvAsInt("INTERVIEW_DURATION_MINUTES", 60),
			GapMinutes:      getEnvAsInt("INTERVIEW_GAP_MINUTES", 30),
			DefaultSSEName:  getEnv("DEFAULT_SSE_NAME", "Senior Software Engineer"),
			DefaultSSEEmail: getEnv("DEFAULT_SSE_EMAIL", ""),
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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
