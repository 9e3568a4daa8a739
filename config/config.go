package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Redis (collection store)
	RedisURL       string
	StoreNamespace string

	// JWT & Security
	JWTSecret          string
	JWTExpirationHours int

	// Shared secret expected on inbound vendor webhooks. Empty
	// disables verification (local development).
	InboundWebhookSecret string

	// Demo credentials
	DemoPassword string

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Logging
	LogLevel  string
	LogFormat string

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Exports
	StorageLocalPath string

	// GoHighLevel
	GHLBaseURL    string
	GHLAPIKey     string
	GHLLocationID string

	// VAPI
	VAPIBaseURL     string
	VAPIAPIKey      string
	VAPIAssistantID string
	VAPIPhoneNumber string

	// n8n
	N8NBaseURL    string
	N8NAPIKey     string
	N8NWebhookURL string

	// Evolution API (WhatsApp)
	EvolutionBaseURL      string
	EvolutionAPIKey       string
	EvolutionInstanceName string

	// Jobs
	HealthSweepEnabled bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// API
		APIPort:        getEnv("API_PORT", "8080"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Redis
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		StoreNamespace: getEnv("STORE_NAMESPACE", "real_estate"),

		// JWT
		JWTSecret:          getEnv("JWT_SECRET", "change-this-in-production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),

		InboundWebhookSecret: getEnv("INBOUND_WEBHOOK_SECRET", ""),

		// Demo credentials (every seeded user logs in with this password)
		DemoPassword: getEnv("DEMO_PASSWORD", "password123"),

		// CORS
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 10),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", getEnv("API_ENVIRONMENT", "development")),

		// Exports
		StorageLocalPath: getEnv("STORAGE_LOCAL_PATH", "./data/exports"),

		// GoHighLevel
		GHLBaseURL:    getEnv("GHL_BASE_URL", "https://services.leadconnectorhq.com"),
		GHLAPIKey:     getEnv("GHL_API_KEY", ""),
		GHLLocationID: getEnv("GHL_LOCATION_ID", ""),

		// VAPI
		VAPIBaseURL:     getEnv("VAPI_BASE_URL", "https://api.vapi.ai"),
		VAPIAPIKey:      getEnv("VAPI_API_KEY", ""),
		VAPIAssistantID: getEnv("VAPI_ASSISTANT_ID", ""),
		VAPIPhoneNumber: getEnv("VAPI_PHONE_NUMBER", ""),

		// n8n
		N8NBaseURL:    getEnv("N8N_BASE_URL", ""),
		N8NAPIKey:     getEnv("N8N_API_KEY", ""),
		N8NWebhookURL: getEnv("N8N_WEBHOOK_URL", ""),

		// Evolution API
		EvolutionBaseURL:      getEnv("EVOLUTION_API_BASE_URL", "http://localhost:8081"),
		EvolutionAPIKey:       getEnv("EVOLUTION_API_KEY", ""),
		EvolutionInstanceName: getEnv("EVOLUTION_INSTANCE_NAME", "real_estate"),

		// Jobs
		HealthSweepEnabled: getEnvAsBool("HEALTH_SWEEP_ENABLED", true),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
