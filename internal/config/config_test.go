package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.DatabaseDriver)
	assert.Equal(t, "revuverse", cfg.MongoDatabase)
	assert.Equal(t, AuthJWT, cfg.AuthProvider)
	assert.Equal(t, NotifyLive, cfg.NotifyMode)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, time.Hour, cfg.PlacesCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_MissingMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			DatabaseDriver: DriverMongo,
			MongoURI:       "mongodb://localhost",
			AuthProvider:   AuthJWT,
			JWTSecret:      "s",
			EmailProvider:  EmailSendGrid,
			NotifyMode:     NotifyLive,
			FrontendURL:    "http://localhost:3000",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.DatabaseDriver = "postgres" }, wantErr: "DATABASE_DRIVER"},
		{name: "firestore needs project", mutate: func(c *Config) { c.DatabaseDriver = DriverFirestore }, wantErr: "FIREBASE_PROJECT_ID"},
		{name: "jwt needs secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "unknown email provider", mutate: func(c *Config) { c.EmailProvider = "ses" }, wantErr: "EMAIL_PROVIDER"},
		{name: "mock forbidden in production", mutate: func(c *Config) {
			c.AppEnv = EnvProduction
			c.NotifyMode = NotifyMock
		}, wantErr: "production"},
		{name: "mock email forbidden in production", mutate: func(c *Config) {
			c.AppEnv = EnvProduction
			c.EmailProvider = EmailMock
		}, wantErr: "EMAIL_PROVIDER=mock"},
		{name: "mock email forbidden in production regardless of case", mutate: func(c *Config) {
			c.AppEnv = "Production"
			c.EmailProvider = EmailMock
		}, wantErr: "EMAIL_PROVIDER=mock"},
		{name: "mock email allowed outside production", mutate: func(c *Config) { c.EmailProvider = EmailMock }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
