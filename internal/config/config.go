// Package config loads pollo settings from defaults, an INI file, a dotenv
// file and POLLO_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/inovacc/pollo/internal/application"
	"github.com/inovacc/pollo/internal/notify"
	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Sender names accepted in Notify.Senders.
const (
	SenderLog   = "log"
	SenderSMTP  = "smtp"
	SenderSlack = "slack"
)

type StoreConfig struct {
	// Backend is bolt or sqlite
	Backend string `ini:"backend"`

	// Path of the database file; empty uses the application directory
	Path string `ini:"path"`
}

type NotifyConfig struct {
	Senders      []string      `ini:"senders" delim:","`
	Timeout      time.Duration `ini:"timeout"`
	From         string        `ini:"from"`
	SMTPHost     string        `ini:"smtp_host"`
	SMTPPort     int           `ini:"smtp_port"`
	SMTPUsername string        `ini:"smtp_username"`
	SMTPPassword string        `ini:"smtp_password"`
	SlackWebhook string        `ini:"slack_webhook"`
	SlackToken   string        `ini:"slack_bot_token"`
	SlackChannel string        `ini:"slack_channel"`
}

type LogConfig struct {
	Level string `ini:"level"`

	// Format is text or json; empty picks json when stderr is not a terminal
	Format string `ini:"format"`
}

// Config is the complete runtime configuration.
type Config struct {
	Store  StoreConfig
	Notify NotifyConfig
	Log    LogConfig
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Backend: "bolt"},
		Notify: NotifyConfig{
			Senders:  []string{SenderLog},
			Timeout:  10 * time.Second,
			From:     "no-reply@pollopollo.org",
			SMTPPort: 587,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultFile returns the INI file read when no --config is given.
func DefaultFile() (string, error) {
	dir, err := application.GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, application.ConfigFileName), nil
}

// Load builds a Config. An empty file reads DefaultFile when it exists;
// a file named explicitly must exist. envFile is an optional dotenv file
// whose values sit below real environment variables.
func Load(file, envFile string) (*Config, error) {
	cfg := Default()

	explicit := file != ""
	if !explicit {
		def, err := DefaultFile()
		if err == nil {
			file = def
		}
	}

	if file != "" {
		if err := cfg.loadINI(file); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	dotenv := map[string]string{}

	if envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}

		if values != nil {
			dotenv = values
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}

		v, ok := dotenv[key]

		return v, ok
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadINI(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	f, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if err := f.Section("store").MapTo(&c.Store); err != nil {
		return fmt.Errorf("section store: %w", err)
	}

	if err := f.Section("notify").MapTo(&c.Notify); err != nil {
		return fmt.Errorf("section notify: %w", err)
	}

	if err := f.Section("log").MapTo(&c.Log); err != nil {
		return fmt.Errorf("section log: %w", err)
	}

	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BACKEND":         &c.Store.Backend,
		"DB":              &c.Store.Path,
		"LOG_LEVEL":       &c.Log.Level,
		"LOG_FORMAT":      &c.Log.Format,
		"MAIL_FROM":       &c.Notify.From,
		"SMTP_HOST":       &c.Notify.SMTPHost,
		"SMTP_USERNAME":   &c.Notify.SMTPUsername,
		"SMTP_PASSWORD":   &c.Notify.SMTPPassword,
		"SLACK_WEBHOOK":   &c.Notify.SlackWebhook,
		"SLACK_BOT_TOKEN": &c.Notify.SlackToken,
		"SLACK_CHANNEL":   &c.Notify.SlackChannel,
	}

	for key, dst := range strs {
		if v, ok := lookup(application.EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(application.EnvPrefix + "NOTIFY_SENDERS"); ok {
		c.Notify.Senders = splitList(v)
	}

	if v, ok := lookup(application.EnvPrefix + "SMTP_PORT"); ok {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sSMTP_PORT: %w", application.EnvPrefix, err)
		}

		c.Notify.SMTPPort = port
	}

	if v, ok := lookup(application.EnvPrefix + "NOTIFY_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sNOTIFY_TIMEOUT: %w", application.EnvPrefix, err)
		}

		c.Notify.Timeout = d
	}

	return nil
}

func splitList(raw string) []string {
	var out []string

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}

	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "bolt", "sqlite":
	default:
		return fmt.Errorf("store backend %q: want bolt or sqlite", c.Store.Backend)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format %q: want text or json", c.Log.Format)
	}

	if c.Notify.Timeout < 0 {
		return errors.New("notify timeout must not be negative")
	}

	for _, s := range c.Notify.Senders {
		switch s {
		case SenderLog:
		case SenderSMTP:
			if c.Notify.SMTPHost == "" || c.Notify.From == "" {
				return errors.New("smtp sender needs smtp_host and from")
			}

			if c.Notify.SMTPPort <= 0 || c.Notify.SMTPPort > 65535 {
				return fmt.Errorf("smtp port %d out of range", c.Notify.SMTPPort)
			}
		case SenderSlack:
			if err := c.validateSlack(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown notify sender %q", s)
		}
	}

	return nil
}

func (c *Config) validateSlack() error {
	n := c.Notify

	switch {
	case n.SlackWebhook != "":
		return notify.ValidateWebhookURL(n.SlackWebhook)
	case n.SlackToken != "":
		if n.SlackChannel == "" {
			return errors.New("slack bot token needs slack_channel")
		}

		return notify.ValidateBotToken(n.SlackToken)
	default:
		return errors.New("slack sender needs slack_webhook or slack_bot_token")
	}
}

// HasSender reports whether name is enabled.
func (c *Config) HasSender(name string) bool {
	return slices.Contains(c.Notify.Senders, name)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}

	return level, nil
}

// DatabasePath returns Store.Path or the backend's default file.
func (c *Config) DatabasePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}

	return application.DefaultDatabasePath(c.Store.Backend)
}
