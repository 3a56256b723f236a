package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DATA_SERVICE_URL", "http://localhost:5000/api/")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, DataSourceHTTP, cfg.DataSource)
	assert.Equal(t, "http://localhost:5000/api", cfg.DataService.URL)
	assert.Equal(t, 10*time.Second, cfg.DataService.Timeout)
	assert.False(t, cfg.DataService.UsesClientCredentials())
	assert.Equal(t, 3*time.Second, cfg.Notice.TransitionTTL)
	assert.Equal(t, 5*time.Second, cfg.Notice.CleanupTTL)
	assert.Equal(t, time.Second, cfg.Notice.SweepInterval)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, time.Minute, cfg.Session.EvictInterval)
}

func TestLoad_ClientCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DATA_SERVICE_URL", "http://localhost:5000/api")
	t.Setenv("DATA_SERVICE_CLIENT_ID", "console")
	t.Setenv("DATA_SERVICE_CLIENT_SECRET", "s3cret")
	t.Setenv("DATA_SERVICE_TOKEN_URL", "http://localhost:5000/oauth/token")
	t.Setenv("DATA_SERVICE_SCOPES", "leaves:write, reports:read")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.DataService.UsesClientCredentials())
	assert.Equal(t, []string{"leaves:write", "reports:read"}, cfg.DataService.Scopes)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing jwt secret",
			env:  map[string]string{"DATA_SERVICE_URL": "http://x"},
			want: "JWT_SECRET_KEY is required",
		},
		{
			name: "missing data service url",
			env:  map[string]string{"JWT_SECRET_KEY": "s"},
			want: "DATA_SERVICE_URL is required",
		},
		{
			name: "postgres without password",
			env:  map[string]string{"JWT_SECRET_KEY": "s", "DATA_SOURCE": "postgres"},
			want: "DB_PASSWORD is required",
		},
		{
			name: "unknown data source",
			env:  map[string]string{"JWT_SECRET_KEY": "s", "DATA_SOURCE": "mongo"},
			want: "DATA_SOURCE must be",
		},
		{
			name: "bad duration",
			env:  map[string]string{"JWT_SECRET_KEY": "s", "DATA_SERVICE_URL": "http://x", "NOTICE_CLEANUP_TTL": "soon"},
			want: "invalid NOTICE_CLEANUP_TTL",
		},
		{
			name: "zero session idle ttl",
			env:  map[string]string{"JWT_SECRET_KEY": "s", "DATA_SERVICE_URL": "http://x", "SESSION_IDLE_TTL": "0s"},
			want: "session durations must be positive",
		},
		{
			name: "client id without token url",
			env:  map[string]string{"JWT_SECRET_KEY": "s", "DATA_SERVICE_URL": "http://x", "DATA_SERVICE_CLIENT_ID": "c", "DATA_SERVICE_CLIENT_SECRET": "x"},
			want: "DATA_SERVICE_TOKEN_URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"JWT_SECRET_KEY", "DATA_SERVICE_URL", "DATA_SOURCE", "DB_PASSWORD"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: 5432, User: "hr", Password: "pw", Name: "hris", SSLMode: "disable"}}
	assert.Equal(t, "postgres://hr:pw@db:5432/hris?sslmode=disable", cfg.DatabaseURL())
}
