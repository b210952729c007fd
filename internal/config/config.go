package config

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Backend BackendConfig `json:"backend"`
	AI      AIConfig      `json:"ai"`
	Mail    MailConfig    `json:"mail"`
	Site    SiteConfig    `json:"site"`
	Mocks   MockConfig    `json:"mocks"`
}

type BackendConfig struct {
	BaseURL string `json:"base_url"`
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client `json:"-"`
}

type AIConfig struct {
	Provider string `json:"provider"` // "openrouter" or "gemini"
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

type MailConfig struct {
	SendGridAPIKey string `json:"sendgrid_api_key"`
	FeedbackTo     string `json:"feedback_to"`
	From           string `json:"from"`
}

type SiteConfig struct {
	BaseURL string `json:"base_url"`
}

type MockConfig struct {
	Enable bool `json:"enable"`
}

func Load() (*Config, error) {
	// local development keeps its settings in .env, deployments set the
	// environment directly
	_ = godotenv.Load()

	config := &Config{
		Backend: BackendConfig{
			BaseURL: os.Getenv("BACKEND_BASE_URL"),
		},
		AI: AIConfig{
			Provider: getEnvOrDefault("AI_PROVIDER", "openrouter"),
			APIKey:   os.Getenv("AI_API_KEY"),
			Model:    getEnvOrDefault("AI_MODEL", "google/gemini-2.5-flash"),
		},
		Mail: MailConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FeedbackTo:     getEnvOrDefault("FEEDBACK_TO", "feedback@storefront.example"),
			From:           getEnvOrDefault("MAIL_FROM", "no-reply@storefront.example"),
		},
		Site: SiteConfig{
			BaseURL: getEnvOrDefault("SITE_BASE_URL", "http://localhost:8080"),
		},
		Mocks: MockConfig{
			Enable: os.Getenv("ENABLE_MOCKS") == "true",
		},
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
