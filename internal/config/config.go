package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values for the driver/provider switches.
const (
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"

	EmailSendGrid = "sendgrid"
	EmailSMTP     = "smtp"
	EmailMock     = "mock"

	NotifyLive = "live"
	NotifyMock = "mock"

	EnvProduction = "production"
)

// Config holds all configuration for the application.
type Config struct {
	Port        string `mapstructure:"PORT"`
	GinMode     string `mapstructure:"GIN_MODE"`
	AppEnv      string `mapstructure:"APP_ENV"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	MongoURI       string `mapstructure:"MONGODB_URI"`
	MongoDatabase  string `mapstructure:"MONGODB_DATABASE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	AuthProvider string `mapstructure:"AUTH_PROVIDER"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	EmailProvider      string `mapstructure:"EMAIL_PROVIDER"`
	SendGridAPIKey     string `mapstructure:"SENDGRID_API_KEY"`
	SendGridTemplateID string `mapstructure:"SENDGRID_TEMPLATE_ID"`
	SMTPHost           string `mapstructure:"SMTP_HOST"`
	SMTPPort           string `mapstructure:"SMTP_PORT"`
	SMTPUsername       string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword       string `mapstructure:"SMTP_PASSWORD"`

	TwilioAccountSID       string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken        string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioVerifyServiceSID string `mapstructure:"TWILIO_VERIFY_SERVICE_SID"`
	TwilioPhoneNumber      string `mapstructure:"TWILIO_PHONE_NUMBER"`

	NotifyMode string `mapstructure:"NOTIFY_MODE"`

	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	RedisURL       string        `mapstructure:"REDIS_URL"`
	PlacesCacheTTL time.Duration `mapstructure:"PLACES_CACHE_TTL"`
	QuotaLockTTL   time.Duration `mapstructure:"QUOTA_LOCK_TTL"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`
}

var envKeys = []string{
	"PORT", "GIN_MODE", "APP_ENV", "FRONTEND_URL",
	"DATABASE_DRIVER", "MONGODB_URI", "MONGODB_DATABASE",
	"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"AUTH_PROVIDER", "JWT_SECRET",
	"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET",
	"EMAIL_PROVIDER", "SENDGRID_API_KEY", "SENDGRID_TEMPLATE_ID",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD",
	"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_VERIFY_SERVICE_SID", "TWILIO_PHONE_NUMBER",
	"NOTIFY_MODE", "GOOGLE_API_KEY",
	"REDIS_URL", "PLACES_CACHE_TTL", "QUOTA_LOCK_TTL",
	"RABBITMQ_URL",
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("DATABASE_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_DATABASE", "revuverse")
	v.SetDefault("AUTH_PROVIDER", AuthJWT)
	v.SetDefault("EMAIL_PROVIDER", EmailSendGrid)
	v.SetDefault("SMTP_HOST", "smtp.mailtrap.io")
	v.SetDefault("SMTP_PORT", "2525")
	v.SetDefault("NOTIFY_MODE", NotifyLive)
	v.SetDefault("PLACES_CACHE_TTL", time.Hour)
	v.SetDefault("QUOTA_LOCK_TTL", 10*time.Second)

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the options required by the selected drivers are present.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required when DATABASE_DRIVER=mongo")
		}
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required when DATABASE_DRIVER=firestore")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.AuthProvider {
	case AuthJWT:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
	case AuthFirebase:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required when AUTH_PROVIDER=firebase")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}

	switch c.EmailProvider {
	case EmailSendGrid, EmailSMTP, EmailMock:
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER %q", c.EmailProvider)
	}

	if c.NotifyMode != NotifyLive && c.NotifyMode != NotifyMock {
		return fmt.Errorf("unsupported NOTIFY_MODE %q", c.NotifyMode)
	}
	if c.IsProduction() && c.NotifyMode == NotifyMock {
		return errors.New("NOTIFY_MODE=mock is not allowed in production")
	}
	if c.IsProduction() && c.EmailProvider == EmailMock {
		return errors.New("EMAIL_PROVIDER=mock is not allowed in production")
	}
	if c.FrontendURL == "" {
		return errors.New("FRONTEND_URL is required")
	}
	return nil
}

// IsProduction reports whether APP_ENV selects production behavior.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

// UsesFirebase reports whether any component needs the Firebase Admin SDK.
func (c *Config) UsesFirebase() bool {
	return c.DatabaseDriver == DriverFirestore || c.AuthProvider == AuthFirebase
}
