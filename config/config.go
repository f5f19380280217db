package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultSubmitPath is where the relay listens when SUBMIT_PATH is unset
	DefaultSubmitPath = "/api/submit"
	// DefaultOutboundTimeout bounds each verification and webhook call
	DefaultOutboundTimeout = 10 * time.Second

	DefaultEnterpriseURL = "https://recaptchaenterprise.googleapis.com/v1"
	DefaultSiteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
)

// Verification modes, selected by which credential is configured
const (
	ModeEnterprise = "enterprise"
	ModeSiteVerify = "siteverify"
)

type Config struct {
	ServerPort  string
	Environment string
	// reCAPTCHA Enterprise (score based)
	RecaptchaAPIKey        string
	RecaptchaProjectID     string
	RecaptchaEnterpriseURL string
	// reCAPTCHA siteverify (checkbox v2 / v3 secret)
	RecaptchaSecretKey string
	RecaptchaVerifyURL string
	// Public key rendered into the landing page and sent with Enterprise assessments
	RecaptchaSiteKey string
	// Relay
	WebhookURL      string
	SubmitPath      string
	OutboundTimeout time.Duration
	AllowedOrigins  []string
	// Lead notification (Resend)
	ResendAPIKey    string
	EmailFrom       string
	EmailFromName   string
	EmailTestMode   bool
	LeadNotifyEmail string
}

// ConfigError reports a missing deployment setting. It is kept apart from
// input errors so operators can tell a broken deployment from a bad request.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Config Error: %s %s", e.Key, e.Reason)
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	submitPath := getEnv("SUBMIT_PATH", DefaultSubmitPath)
	if !strings.HasPrefix(submitPath, "/") {
		submitPath = "/" + submitPath
	}

	return &Config{
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		RecaptchaAPIKey:        strings.TrimSpace(os.Getenv("RECAPTCHA_API_KEY")),
		RecaptchaProjectID:     getEnv("RECAPTCHA_PROJECT_ID", ""),
		RecaptchaEnterpriseURL: getEnv("RECAPTCHA_ENTERPRISE_URL", DefaultEnterpriseURL),
		RecaptchaSecretKey:     strings.TrimSpace(os.Getenv("RECAPTCHA_SECRET_KEY")),
		RecaptchaVerifyURL:     getEnv("RECAPTCHA_VERIFY_URL", DefaultSiteVerifyURL),
		RecaptchaSiteKey:       getEnv("RECAPTCHA_SITE_KEY", ""),
		WebhookURL:             strings.TrimSpace(os.Getenv("N8N_WEBHOOK_URL")),
		SubmitPath:             submitPath,
		OutboundTimeout:        getEnvDuration("OUTBOUND_TIMEOUT", DefaultOutboundTimeout),
		AllowedOrigins:         strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		ResendAPIKey:           getEnv("RESEND_API_KEY", ""),
		EmailFrom:              getEnv("EMAIL_FROM", "noreply@example.com"),
		EmailFromName:          getEnv("EMAIL_FROM_NAME", "Landing Page"),
		EmailTestMode:          getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		LeadNotifyEmail:        getEnv("LEAD_NOTIFY_EMAIL", ""),
	}
}

// VerificationMode reports which verification strategy the credentials imply.
// An API key wins over a secret key. Empty means neither is configured.
func (c *Config) VerificationMode() string {
	switch {
	case c.RecaptchaAPIKey != "":
		return ModeEnterprise
	case c.RecaptchaSecretKey != "":
		return ModeSiteVerify
	default:
		return ""
	}
}

// Validate checks the settings the relay cannot run without.
func (c *Config) Validate() error {
	switch c.VerificationMode() {
	case ModeEnterprise:
		if c.RecaptchaProjectID == "" {
			return &ConfigError{Key: "RECAPTCHA_PROJECT_ID", Reason: "is required with RECAPTCHA_API_KEY"}
		}
		if c.RecaptchaSiteKey == "" {
			return &ConfigError{Key: "RECAPTCHA_SITE_KEY", Reason: "is required with RECAPTCHA_API_KEY"}
		}
	case ModeSiteVerify:
	default:
		return &ConfigError{Key: "RECAPTCHA_API_KEY", Reason: "is missing (set it or RECAPTCHA_SECRET_KEY)"}
	}

	if c.WebhookURL == "" {
		return &ConfigError{Key: "N8N_WEBHOOK_URL", Reason: "is missing"}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("[WARNING] Invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
