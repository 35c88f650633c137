package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultPath = "config/config.yaml"

type FilesConfig struct {
	RootDir  string `yaml:"root_dir"`
	FontPath string `yaml:"font_path"`
}

// AccountConfig is a back-office login. PasswordHash is a bcrypt hash; Role is
// admin, editor or viewer.
type AccountConfig struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

type AuthConfig struct {
	JWTSecret         string          `yaml:"jwt_secret"`
	TokenTTL          time.Duration   `yaml:"token_ttl"`
	AdminEmail        string          `yaml:"admin_email"`
	AdminPasswordHash string          `yaml:"admin_password_hash"`
	Accounts          []AccountConfig `yaml:"accounts"`
}

// AllAccounts returns the configured accounts with the admin shorthand first.
func (a AuthConfig) AllAccounts() []AccountConfig {
	var out []AccountConfig
	if a.AdminEmail != "" && a.AdminPasswordHash != "" {
		out = append(out, AccountConfig{Email: a.AdminEmail, PasswordHash: a.AdminPasswordHash, Role: "admin"})
	}
	return append(out, a.Accounts...)
}

type WizardConfig struct {
	FormEndpoint  string        `yaml:"form_endpoint"`
	DryRun        bool          `yaml:"dry_run"`
	CC            string        `yaml:"cc"`
	FallbackTo    string        `yaml:"fallback_to"`
	Window        time.Duration `yaml:"window"`
	Tick          time.Duration `yaml:"tick"`
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	IdleTTL       time.Duration `yaml:"idle_ttl"`
	Retention     time.Duration `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
		// PublicURL prefixes links sent in emails.
		PublicURL      string        `yaml:"public_url"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		NotifyEmail  string `yaml:"notify_email"`
	} `yaml:"email"`
	Files    FilesConfig    `yaml:"files"`
	Auth     AuthConfig     `yaml:"auth"`
	Wizard   WizardConfig   `yaml:"wizard"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
}

// Load reads the YAML config from YDA_CONFIG (or config/config.yaml),
// applies environment overrides and fills defaults. A missing file is not an
// error: defaults plus environment are enough for local runs.
func Load() (*Config, error) {
	path := os.Getenv("YDA_CONFIG")
	if path == "" {
		path = defaultPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("YDA_DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("YDA_DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("YDA_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("YDA_SMTP_PASSWORD"); v != "" {
		c.Email.SMTPPassword = v
	}
	if v := os.Getenv("YDA_TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("YDA_FORM_ENDPOINT"); v != "" {
		c.Wizard.FormEndpoint = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Server.ShutdownGrace == 0 {
		c.Server.ShutdownGrace = 10 * time.Second
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "file:ydadvisory.db?_pragma=foreign_keys(1)"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Files.RootDir == "" {
		c.Files.RootDir = "./files"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 12 * time.Hour
	}
	if c.Wizard.Window == 0 {
		c.Wizard.Window = 5 * time.Second
	}
	if c.Wizard.Tick == 0 {
		c.Wizard.Tick = 100 * time.Millisecond
	}
	if c.Wizard.SubmitTimeout == 0 {
		c.Wizard.SubmitTimeout = 30 * time.Second
	}
	if c.Wizard.IdleTTL == 0 {
		c.Wizard.IdleTTL = 30 * time.Minute
	}
	if c.Wizard.Retention == 0 {
		c.Wizard.Retention = 30 * 24 * time.Hour
	}
	if c.Wizard.SweepInterval == 0 {
		c.Wizard.SweepInterval = 5 * time.Minute
	}
	if c.Wizard.FallbackTo == "" {
		c.Wizard.FallbackTo = c.Email.NotifyEmail
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (or YDA_JWT_SECRET)")
	}
	for _, d := range []struct {
		key string
		val time.Duration
	}{
		{"server.shutdown_grace", c.Server.ShutdownGrace},
		{"auth.token_ttl", c.Auth.TokenTTL},
		{"wizard.window", c.Wizard.Window},
		{"wizard.tick", c.Wizard.Tick},
		{"wizard.submit_timeout", c.Wizard.SubmitTimeout},
		{"wizard.idle_ttl", c.Wizard.IdleTTL},
		{"wizard.retention", c.Wizard.Retention},
		{"wizard.sweep_interval", c.Wizard.SweepInterval},
	} {
		if d.val <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.val)
		}
	}
	if c.Wizard.Tick > c.Wizard.Window {
		return fmt.Errorf("wizard.tick (%s) must not exceed wizard.window (%s)", c.Wizard.Tick, c.Wizard.Window)
	}
	for i, acc := range c.Auth.Accounts {
		switch acc.Role {
		case "admin", "editor", "viewer":
		default:
			return fmt.Errorf("auth.accounts[%d].role must be admin, editor or viewer, got %q", i, acc.Role)
		}
	}
	return nil
}

// SMTPEnabled reports whether outbound email is configured.
func (c *Config) SMTPEnabled() bool {
	return c.Email.SMTPHost != "" && c.Email.FromEmail != ""
}
