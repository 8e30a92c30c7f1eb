package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/inovacc/pollo/internal/application"
	"github.com/inovacc/pollo/internal/config"
	"github.com/inovacc/pollo/internal/core"
	"github.com/inovacc/pollo/internal/notify"
	"github.com/inovacc/pollo/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// services is everything a command needs, built once per invocation.
type services struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     store.Store
	engine    *core.Engine
	cascade   *core.Cascade
	catalog   *core.Catalog
	directory *core.Directory
	json      bool
}

var svc *services

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Donation matching for PolloPollo products",
	Long: `Pollo manages receivers' applications for producers' products.

Receivers apply for products, donors fund applications, producers confirm
pickup. Withdrawing a product cancels its open applications and notifies
the receivers.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// PersistentPostRunE is skipped when RunE fails.
		_ = teardown(rootCmd, nil)

		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "INI config file (default <config dir>/pollo/pollo.ini)")
	flags.String("env-file", ".env", "dotenv file with POLLO_* variables")
	flags.String("backend", "", "store backend: bolt or sqlite")
	flags.String("db", "", "database file path")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	flags.Bool("json", false, "print results as JSON")
}

func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}

	return cmd.Runnable()
}

func setup(cmd *cobra.Command, _ []string) error {
	if !needsServices(cmd) {
		return nil
	}

	flags := cmd.Flags()

	cfgFile, _ := flags.GetString("config")
	envFile, _ := flags.GetString("env-file")
	jsonOut, _ := flags.GetBool("json")

	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	overrides := map[string]*string{
		"backend":    &cfg.Store.Backend,
		"db":         &cfg.Store.Path,
		"log-level":  &cfg.Log.Level,
		"log-format": &cfg.Log.Format,
	}

	for name, dst := range overrides {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	path, err := cfg.DatabasePath()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store.Backend, path)
	if err != nil {
		return fmt.Errorf("open %s store at %s: %w", cfg.Store.Backend, path, err)
	}

	logger.Debug("store opened", "backend", cfg.Store.Backend, "path", path)

	notifier, err := newDispatcher(cfg, logger)
	if err != nil {
		_ = st.Close()
		return err
	}
	opts := []core.Option{core.WithLogger(logger)}

	svc = &services{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		engine:    core.NewEngine(st, st, st, notifier, opts...),
		cascade:   core.NewCascade(st, st, st, notifier, opts...),
		catalog:   core.NewCatalog(st, st, opts...),
		directory: core.NewDirectory(st, opts...),
		json:      jsonOut,
	}

	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if svc == nil || svc.store == nil {
		return nil
	}

	err := svc.store.Close()
	svc = nil

	return err
}

// newLogger builds the slog logger. Without an explicit format the output is
// JSON unless stderr is a terminal.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	format := cfg.Log.Format
	if format == "" {
		format = "text"
		if !term.IsTerminal(int(os.Stderr.Fd())) {
			format = "json"
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// newDispatcher registers the configured senders. SMTP reaches the receiver.
// The log sender stands in for it when SMTP is off and is a copy otherwise;
// Slack is always a copy.
func newDispatcher(cfg *config.Config, logger *slog.Logger) (*notify.Dispatcher, error) {
	d := notify.NewDispatcher(
		notify.WithLogger(logger),
		notify.WithSendTimeout(cfg.Notify.Timeout),
	)

	mailing := cfg.HasSender(config.SenderSMTP)

	for _, name := range cfg.Notify.Senders {
		switch name {
		case config.SenderLog:
			if mailing {
				d.RegisterCopy(notify.NewLogSender(logger))
			} else {
				d.Register(notify.NewLogSender(logger))
			}
		case config.SenderSMTP:
			mailer, err := notify.NewSMTPSender(notify.SMTPConfig{
				Host:     cfg.Notify.SMTPHost,
				Port:     cfg.Notify.SMTPPort,
				From:     cfg.Notify.From,
				Username: cfg.Notify.SMTPUsername,
				Password: cfg.Notify.SMTPPassword,
				Timeout:  cfg.Notify.Timeout,
			})
			if err != nil {
				return nil, err
			}

			d.Register(mailer)
		case config.SenderSlack:
			d.RegisterCopy(notify.NewSlackSender(
				notify.WithWebhook(cfg.Notify.SlackWebhook),
				notify.WithBotToken(cfg.Notify.SlackToken),
				notify.WithDefaultChannel(cfg.Notify.SlackChannel),
			))
		}
	}

	return d, nil
}
