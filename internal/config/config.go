package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMS       SMSConfig
	SMTP      SMTPConfig
	Workspace WorkspaceConfig
	Ai        AIConfig
}

type AppConfig struct {
	Port        string
	BaseURL     string
	Environment string
	LogFilePath string
	NatsURL     string
	RedisURL    string
}

type DatabaseConfig struct {
	Connection string
}

type SMSConfig struct {
	AccountSid string
	AuthToken  string
	FromNumber string
	BaseURL    string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type WorkspaceConfig struct {
	// Id identifies the single workspace this deployment serves.
	Id         string
	AdminEmail string
	EmbedTopic string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "huggingface"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string
	LLMModel          string
	HuggingFaceToken  string
	JinaToken         string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "3000"),
			BaseURL:     getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "app.log"),
			NatsURL:     getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMS: SMSConfig{
			AccountSid: getEnv("SMS_ACCOUNT_SID", ""),
			AuthToken:  getEnv("SMS_AUTH_TOKEN", ""),
			FromNumber: getEnv("SMS_FROM_NUMBER", ""),
			BaseURL:    getEnv("SMS_API_BASE_URL", "https://api.twilio.com"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "SMS Assistant"),
		},
		Workspace: WorkspaceConfig{
			Id:         getEnv("WORKSPACE_ID", "00000000-0000-0000-0000-000000000001"),
			AdminEmail: getEnv("WORKSPACE_ADMIN_EMAIL", ""),
			EmbedTopic: getEnv("EMBED_RESOURCE_TOPIC_NAME", "EMBED_RESOURCE"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			HuggingFaceToken:  getEnv("HUGGINGFACE_API_TOKEN", ""),
			JinaToken:         getEnv("JINA_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
