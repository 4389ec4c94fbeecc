// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
	GetAdminEmail() string
	GetAdminPassword() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetChatRatePerMinute() int
	GetChatRateBurst() int
}

// AIConfig provides settings for the chat-completion model client.
type AIConfig interface {
	GetOpenAIAPIKey() string
	GetOpenAIBaseURL() string
	GetOpenAIModel() string
	GetAITimeout() time.Duration
}

// SchedulingConfig provides settings for webhook verification and
// scheduling-link resolution.
type SchedulingConfig interface {
	GetCalendlySigningKey() string
	GetWebhookTolerance() time.Duration
	GetCalendlyToken() string
	GetCalendlyEventTypeBusiness() string
	GetCalendlyEventTypeVenture() string
	GetSchedulingLinkBusiness() string
	GetSchedulingLinkVenture() string
}

// FeeConfig provides monetization settings.
type FeeConfig interface {
	GetSuccessFeeCents() int64
	GetSuccessFeePolicy() string
	GetAvgDealSizeCents() int64
}

// NotifierConfig provides settings for the notification fan-out channels.
type NotifierConfig interface {
	GetNotifyWebhookURL() string
	GetAlertEmailTo() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailAlertEnabled() bool
}

// WorkerConfig provides settings for the asynq client and worker.
type WorkerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetFollowUpDelay() time.Duration
}

// StorageConfig provides settings for MinIO S3-compatible storage.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketRecordings() string
	IsMinIOEnabled() bool
}

// TranscribeConfig provides settings for the speech-to-text endpoint.
type TranscribeConfig interface {
	GetWhisperModelPath() string
	GetTranscribeMaxBytes() int64
	IsTranscribeEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                       string
	HTTPAddr                  string
	DatabaseURL               string
	JWTSecret                 string
	AccessTokenTTL            time.Duration
	AdminEmail                string
	AdminPassword             string
	CORSAllowAll              bool
	CORSOrigins               []string
	CORSAllowCreds            bool
	ChatRatePerMinute         int
	ChatRateBurst             int
	OpenAIAPIKey              string
	OpenAIBaseURL             string
	OpenAIModel               string
	AITimeout                 time.Duration
	CalendlySigningKey        string
	WebhookTolerance          time.Duration
	CalendlyToken             string
	CalendlyEventTypeBusiness string
	CalendlyEventTypeVenture  string
	SchedulingLinkBusiness    string
	SchedulingLinkVenture     string
	SuccessFeeCents           int64
	SuccessFeePolicy          string
	AvgDealSizeCents          int64
	NotifyWebhookURL          string
	AlertEmailTo              string
	SMTPHost                  string
	SMTPPort                  int
	SMTPUsername              string
	SMTPPassword              string
	EmailFromName             string
	EmailFromAddress          string
	RedisURL                  string
	RedisTLSInsecure          bool
	AsynqQueueName            string
	AsynqConcurrency          int
	FollowUpDelay             time.Duration
	MinIOEndpoint             string
	MinIOAccessKey            string
	MinIOSecretKey            string
	MinIOUseSSL               bool
	MinioBucketRecordings     string
	WhisperModelPath          string
	TranscribeMaxBytes        int64
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTSecret() string { return c.JWTSecret }

// AuthServiceConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }
func (c *Config) GetAdminEmail() string            { return c.AdminEmail }
func (c *Config) GetAdminPassword() string         { return c.AdminPassword }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string       { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool     { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string  { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool   { return c.CORSAllowCreds }
func (c *Config) GetChatRatePerMinute() int { return c.ChatRatePerMinute }
func (c *Config) GetChatRateBurst() int     { return c.ChatRateBurst }

// AIConfig implementation
func (c *Config) GetOpenAIAPIKey() string     { return c.OpenAIAPIKey }
func (c *Config) GetOpenAIBaseURL() string    { return c.OpenAIBaseURL }
func (c *Config) GetOpenAIModel() string      { return c.OpenAIModel }
func (c *Config) GetAITimeout() time.Duration { return c.AITimeout }

// SchedulingConfig implementation
func (c *Config) GetCalendlySigningKey() string        { return c.CalendlySigningKey }
func (c *Config) GetWebhookTolerance() time.Duration   { return c.WebhookTolerance }
func (c *Config) GetCalendlyToken() string             { return c.CalendlyToken }
func (c *Config) GetCalendlyEventTypeBusiness() string { return c.CalendlyEventTypeBusiness }
func (c *Config) GetCalendlyEventTypeVenture() string  { return c.CalendlyEventTypeVenture }
func (c *Config) GetSchedulingLinkBusiness() string    { return c.SchedulingLinkBusiness }
func (c *Config) GetSchedulingLinkVenture() string     { return c.SchedulingLinkVenture }

// FeeConfig implementation
func (c *Config) GetSuccessFeeCents() int64   { return c.SuccessFeeCents }
func (c *Config) GetSuccessFeePolicy() string { return c.SuccessFeePolicy }
func (c *Config) GetAvgDealSizeCents() int64  { return c.AvgDealSizeCents }

// NotifierConfig implementation
func (c *Config) GetNotifyWebhookURL() string { return c.NotifyWebhookURL }
func (c *Config) GetAlertEmailTo() string     { return c.AlertEmailTo }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailAlertEnabled() bool {
	return c.AlertEmailTo != "" && c.SMTPHost != ""
}

// WorkerConfig implementation
func (c *Config) GetRedisURL() string             { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool       { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string       { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int        { return c.AsynqConcurrency }
func (c *Config) GetFollowUpDelay() time.Duration { return c.FollowUpDelay }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string         { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string        { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string        { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool             { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketRecordings() string { return c.MinioBucketRecordings }
func (c *Config) IsMinIOEnabled() bool             { return c.MinIOEndpoint != "" }

// TranscribeConfig implementation
func (c *Config) GetWhisperModelPath() string  { return c.WhisperModelPath }
func (c *Config) GetTranscribeMaxBytes() int64 { return c.TranscribeMaxBytes }
func (c *Config) IsTranscribeEnabled() bool    { return c.WhisperModelPath != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                       getEnv("APP_ENV", "development"),
		HTTPAddr:                  getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		JWTSecret:                 getEnv("JWT_SECRET", ""),
		AccessTokenTTL:            mustDuration(getEnv("JWT_ACCESS_TTL", "12h")),
		AdminEmail:                strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		AdminPassword:             getEnv("ADMIN_PASSWORD", ""),
		CORSAllowAll:              corsAllowAll,
		CORSOrigins:               corsOrigins,
		CORSAllowCreds:            strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		ChatRatePerMinute:         mustInt(getEnv("CHAT_RATE_PER_MINUTE", "20")),
		ChatRateBurst:             mustInt(getEnv("CHAT_RATE_BURST", "5")),
		OpenAIAPIKey:              getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:             strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		OpenAIModel:               getEnv("OPENAI_MODEL", "gpt-4o"),
		AITimeout:                 mustDuration(getEnv("AI_TIMEOUT", "60s")),
		CalendlySigningKey:        getEnv("CALENDLY_SIGNING_KEY", ""),
		WebhookTolerance:          mustDuration(getEnv("WEBHOOK_TOLERANCE", "5m")),
		CalendlyToken:             getEnv("CALENDLY_TOKEN", ""),
		CalendlyEventTypeBusiness: getEnv("CALENDLY_EVENT_TYPE_BUSINESS", ""),
		CalendlyEventTypeVenture:  getEnv("CALENDLY_EVENT_TYPE_VENTURE", ""),
		SchedulingLinkBusiness:    getEnv("SCHEDULING_LINK_BUSINESS", ""),
		SchedulingLinkVenture:     getEnv("SCHEDULING_LINK_VENTURE", ""),
		SuccessFeeCents:           mustInt64(getEnv("SUCCESS_FEE_CENTS", "10000")),
		SuccessFeePolicy:          getEnv("SUCCESS_FEE_POLICY", "high_intent_booking_v1"),
		AvgDealSizeCents:          mustInt64(getEnv("AVG_DEAL_SIZE_CENTS", "500000")),
		NotifyWebhookURL:          getEnv("NOTIFY_WEBHOOK_URL", ""),
		AlertEmailTo:              getEnv("ALERT_EMAIL_TO", ""),
		SMTPHost:                  getEnv("SMTP_HOST", ""),
		SMTPPort:                  mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:              getEnv("SMTP_USERNAME", ""),
		SMTPPassword:              getEnv("SMTP_PASSWORD", ""),
		EmailFromName:             getEnv("EMAIL_FROM_NAME", "Landing"),
		EmailFromAddress:          getEnv("EMAIL_FROM_ADDRESS", ""),
		RedisURL:                  getEnv("REDIS_URL", ""),
		RedisTLSInsecure:          strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:            getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:          mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		FollowUpDelay:             mustDuration(getEnv("FOLLOWUP_DELAY", "24h")),
		MinIOEndpoint:             getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:            getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:            getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:               strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketRecordings:     getEnv("MINIO_BUCKET_RECORDINGS", "recordings"),
		WhisperModelPath:          getEnv("WHISPER_MODEL_PATH", ""),
		TranscribeMaxBytes:        mustInt64(getEnv("TRANSCRIBE_MAX_BYTES", "26214400")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.IsProduction() && cfg.CalendlySigningKey == "" {
		return nil, fmt.Errorf("CALENDLY_SIGNING_KEY is required in production")
	}
	if cfg.AlertEmailTo != "" && (cfg.SMTPHost == "" || cfg.EmailFromAddress == "") {
		return nil, fmt.Errorf("SMTP_HOST and EMAIL_FROM_ADDRESS are required when ALERT_EMAIL_TO is set")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with production hardening.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
