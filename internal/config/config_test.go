package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
auth:
  jwt_secret: "s"
email:
  notify_email: "team@yd.example"
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:9090", cfg.Server.PublicURL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.NotEmpty(t, cfg.Database.DSN)
	assert.Equal(t, 5*time.Second, cfg.Wizard.Window)
	assert.Equal(t, 100*time.Millisecond, cfg.Wizard.Tick)
	assert.Equal(t, 30*time.Minute, cfg.Wizard.IdleTTL)
	assert.Equal(t, 720*time.Hour, cfg.Wizard.Retention)
	assert.Equal(t, "team@yd.example", cfg.Wizard.FallbackTo)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoadFileEnvOverrides(t *testing.T) {
	t.Setenv("YDA_JWT_SECRET", "from-env")
	t.Setenv("PORT", "7070")
	t.Setenv("YDA_FORM_ENDPOINT", "https://forms.example/f/1")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "https://forms.example/f/1", cfg.Wizard.FormEndpoint)
}

func TestValidate(t *testing.T) {
	_, err := LoadFile(writeConfig(t, `database: {driver: mysql, url: x}
auth: {jwt_secret: s}`))
	assert.ErrorContains(t, err, "database.driver")

	_, err = LoadFile(writeConfig(t, `auth:
  jwt_secret: s
  accounts:
    - {email: a@b.io, password_hash: h, role: owner}`))
	assert.ErrorContains(t, err, "auth.accounts[0].role")

	_, err = LoadFile(writeConfig(t, "auth: {jwt_secret: ''}"))
	if os.Getenv("YDA_JWT_SECRET") == "" {
		assert.ErrorContains(t, err, "jwt_secret")
	}

	_, err = LoadFile(writeConfig(t, "server: [not, a, map]"))
	assert.Error(t, err)
}

func TestValidateRejectsNonPositiveDurations(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"wizard: {sweep_interval: -1m}", "wizard.sweep_interval must be positive"},
		{"wizard: {window: -5s}", "wizard.window must be positive"},
		{"wizard: {idle_ttl: -30m}", "wizard.idle_ttl must be positive"},
		{"wizard: {tick: -1ms}", "wizard.tick must be positive"},
		{"wizard: {retention: -1h}", "wizard.retention must be positive"},
		{"wizard: {window: 1s, tick: 2s}", "must not exceed wizard.window"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, "auth: {jwt_secret: s}\n"+tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}

	cfg, err := LoadFile(writeConfig(t, "auth: {jwt_secret: s}\nwizard: {window: 300ms, tick: 10ms}"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.Wizard.Tick)
}

func TestAllAccounts(t *testing.T) {
	a := AuthConfig{
		AdminEmail:        "admin@yd.example",
		AdminPasswordHash: "h",
		Accounts:          []AccountConfig{{Email: "ed@yd.example", PasswordHash: "h2", Role: "editor"}},
	}
	all := a.AllAccounts()
	require.Len(t, all, 2)
	assert.Equal(t, "admin", all[0].Role)
	assert.Equal(t, "editor", all[1].Role)
	assert.Empty(t, AuthConfig{}.AllAccounts())
}
