package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Email      EmailConfig
	Billing    BillingConfig
	Analytics  AnalyticsConfig
	Support    SupportConfig
	Automation AutomationConfig

	SlackWebhookURL string

	// TemplateBaseURL is the public dashboard URL used to build links inside emails.
	TemplateBaseURL string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

type BillingConfig struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeAPIBaseURL    string
}

type AnalyticsConfig struct {
	PostHogAPIKey string
	PostHogHost   string
}

type SupportConfig struct {
	ChatwootBaseURL   string
	ChatwootAPIToken  string
	ChatwootAccountID string
	ChatwootInboxID   string
}

type AutomationConfig struct {
	N8NBaseURL      string
	N8NAPIKey       string
	ComposioBaseURL string
	ComposioAPIKey  string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "retainflow"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "retainflow"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "hello@retainflow.app"),
		},
		Billing: BillingConfig{
			StripeSecretKey:     strings.TrimSpace(getenv("STRIPE_SECRET_KEY", "")),
			StripeWebhookSecret: strings.TrimSpace(getenv("STRIPE_WEBHOOK_SECRET", "")),
			StripeAPIBaseURL:    getenv("STRIPE_API_BASE_URL", "https://api.stripe.com"),
		},
		Analytics: AnalyticsConfig{
			PostHogAPIKey: strings.TrimSpace(getenv("POSTHOG_API_KEY", "")),
			PostHogHost:   getenv("POSTHOG_HOST", "https://app.posthog.com"),
		},
		Support: SupportConfig{
			ChatwootBaseURL:   strings.TrimRight(getenv("CHATWOOT_BASE_URL", ""), "/"),
			ChatwootAPIToken:  strings.TrimSpace(getenv("CHATWOOT_API_TOKEN", "")),
			ChatwootAccountID: getenv("CHATWOOT_ACCOUNT_ID", ""),
			ChatwootInboxID:   getenv("CHATWOOT_INBOX_ID", ""),
		},
		Automation: AutomationConfig{
			N8NBaseURL:      strings.TrimRight(getenv("N8N_BASE_URL", ""), "/"),
			N8NAPIKey:       strings.TrimSpace(getenv("N8N_API_KEY", "")),
			ComposioBaseURL: getenv("COMPOSIO_BASE_URL", "https://backend.composio.dev"),
			ComposioAPIKey:  strings.TrimSpace(getenv("COMPOSIO_API_KEY", "")),
		},

		SlackWebhookURL: strings.TrimSpace(getenv("SLACK_WEBHOOK_URL", "")),
		TemplateBaseURL: strings.TrimRight(getenv("TEMPLATE_BASE_URL", "https://app.retainflow.app"), "/"),
	}
}

// Module wires the application configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
)

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
