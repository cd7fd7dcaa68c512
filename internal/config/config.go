package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// UsernamePattern is a regular expression a username is checked against.
// A plain pattern rejects usernames it matches; an inverse pattern rejects
// usernames it does not match.
type UsernamePattern struct {
	Regex        string
	InverseMatch bool
}

// DefaultUsernamePatterns allow letters, digits and @.+-_ and reserve "me".
var DefaultUsernamePatterns = []UsernamePattern{
	{Regex: `^[\p{L}\p{N}_.@+-]+$`, InverseMatch: true},
	{Regex: `^me$`, InverseMatch: false},
}

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service Ports
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" required:"true"`

	// Authentication
	JWTSecret      string        `env:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" default:"24h"`

	// Confirmation codes
	ConfirmationCodeLength    int               `env:"CONFIRMATION_CODE_LENGTH" default:"16"`
	ConfirmationCodeSingleUse bool              `env:"CONFIRMATION_CODE_SINGLE_USE" default:"true"`
	UsernameForbiddenPatterns []UsernamePattern `env:"USERNAME_FORBIDDEN_PATTERNS"`

	// Redis (signup throttle, optional)
	RedisURL             string        `env:"REDIS_URL"`
	RedisPassword        string        `env:"REDIS_PASSWORD"`
	SignupThrottleLimit  int           `env:"SIGNUP_THROTTLE_LIMIT" default:"5"`
	SignupThrottleWindow time.Duration `env:"SIGNUP_THROTTLE_WINDOW" default:"1h"`

	// Per-client rate limit on /auth endpoints
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" default:"1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" default:"5"`

	// Mail
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" default:"587"`
	SMTPFrom     string `env:"SMTP_FROM" default:"noreply@yamdb.local"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// Monitoring
	PrometheusEnabled bool `env:"PROMETHEUS_ENABLED" default:"false"`

	// Development
	LogLevel    string   `env:"LOG_LEVEL" default:"debug"`
	LogFormat   string   `env:"LOG_FORMAT" default:"text"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:3000"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// a missing .env file is fine, system env vars still apply
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.AccessTokenTTL, "ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	// Confirmation codes
	if err := loadEnvInt(&config.ConfirmationCodeLength, "CONFIRMATION_CODE_LENGTH", 16); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.ConfirmationCodeSingleUse, "CONFIRMATION_CODE_SINGLE_USE", true); err != nil {
		return nil, err
	}
	if err := loadEnvUsernamePatterns(&config.UsernameForbiddenPatterns, "USERNAME_FORBIDDEN_PATTERNS", DefaultUsernamePatterns); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.SignupThrottleLimit, "SIGNUP_THROTTLE_LIMIT", 5); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.SignupThrottleWindow, "SIGNUP_THROTTLE_WINDOW", time.Hour); err != nil {
		return nil, err
	}

	// Rate limit
	if err := loadEnvFloat(&config.AuthRateLimit, "AUTH_RATE_LIMIT", 1); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.AuthRateBurst, "AUTH_RATE_BURST", 5); err != nil {
		return nil, err
	}

	// Mail
	if err := loadEnvString(&config.SMTPHost, "SMTP_HOST", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.SMTPPort, "SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPFrom, "SMTP_FROM", "noreply@yamdb.local"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPPassword, "SMTP_PASSWORD", ""); err != nil {
		return nil, err
	}

	// Monitoring
	if err := loadEnvBool(&config.PrometheusEnabled, "PROMETHEUS_ENABLED", false); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"http://localhost:3000"}); err != nil {
		return nil, err
	}
	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// loadEnvUsernamePatterns reads ";"-separated regexes, a leading "!" marks
// an inverse-match pattern. Example: `!^[\w.@+-]+$;^me$`
func loadEnvUsernamePatterns(target *[]UsernamePattern, key string, defaultValue []UsernamePattern) error {
	value := os.Getenv(key)
	if value == "" {
		*target = append([]UsernamePattern(nil), defaultValue...)
		return nil
	}
	patterns, err := ParseUsernamePatterns(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*target = patterns
	return nil
}

// ParseUsernamePatterns parses the USERNAME_FORBIDDEN_PATTERNS format.
func ParseUsernamePatterns(value string) ([]UsernamePattern, error) {
	var patterns []UsernamePattern
	for _, raw := range strings.Split(value, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		p := UsernamePattern{Regex: raw}
		if strings.HasPrefix(raw, "!") {
			p = UsernamePattern{Regex: raw[1:], InverseMatch: true}
		}
		if _, err := regexp.Compile(p.Regex); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p.Regex, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// HS256 keys shorter than the hash output weaken the signature
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}

	if c.ConfirmationCodeLength < 6 || c.ConfirmationCodeLength > 72 {
		errors = append(errors, "CONFIRMATION_CODE_LENGTH must be between 6 and 72")
	}
	if c.AccessTokenTTL <= 0 {
		errors = append(errors, "ACCESS_TOKEN_TTL must be positive")
	}
	if c.SignupThrottleLimit < 1 {
		errors = append(errors, "SIGNUP_THROTTLE_LIMIT must be at least 1")
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst < 1 {
		errors = append(errors, "AUTH_RATE_LIMIT must be positive and AUTH_RATE_BURST at least 1")
	}

	// without SMTP, codes only reach the log
	if c.IsProduction() && c.SMTPHost == "" {
		errors = append(errors, "SMTP_HOST is required in production")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
