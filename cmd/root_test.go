package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/inovacc/pollo/internal/config"
	"github.com/inovacc/pollo/internal/model"
	"github.com/inovacc/pollo/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t       *testing.T
	backend string
	db      string
}

func newCLI(t *testing.T, backend string) *cli {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()

	return &cli{t: t, backend: backend, db: filepath.Join(dir, "pollo."+backend)}
}

// run executes the root command with --json against the test store and
// decodes stdout into out when out is non-nil.
func (c *cli) run(out any, args ...string) error {
	c.t.Helper()

	var stdout, stderr bytes.Buffer

	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--json", "--log-format", "json", "--backend", c.backend, "--db", c.db))

	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		_ = teardown(rootCmd, nil)
		return err
	}

	if out != nil {
		require.NoError(c.t, json.Unmarshal(stdout.Bytes(), out), "stdout: %s", stdout.String())
	}

	return nil
}

func (c *cli) mustRun(out any, args ...string) {
	c.t.Helper()
	require.NoError(c.t, c.run(out, args...))
}

func TestCLI_DonationFlow(t *testing.T) {
	c := newCLI(t, "bolt")

	var receiver, producer struct {
		ID   int64  `json:"id"`
		Role string `json:"role"`
	}

	c.mustRun(&receiver, "user", "add", "--email", "ana@example.org", "--first-name", "Ana", "--surname", "Lopez", "--role", "receiver")
	c.mustRun(&producer, "user", "add", "--email", "farm@example.org", "--first-name", "Luis", "--surname", "Vega", "--role", "producer")
	assert.Equal(t, "receiver", receiver.Role)
	assert.Equal(t, "producer", producer.Role)

	c.mustRun(nil, "producer", "set", "2", "--street", "Calle Sol", "--number", "12", "--city", "Arequipa", "--wallet", "W1", "--device", " D1 ")

	var product struct {
		ID        int64 `json:"id"`
		Available bool  `json:"available"`
	}

	c.mustRun(&product, "product", "add", "--producer", "2", "--title", "Six laying hens", "--price", "40")
	assert.Equal(t, int64(1), product.ID)
	assert.True(t, product.Available)

	type application struct {
		ID           int64  `json:"id"`
		Status       string `json:"status"`
		DonationDate string `json:"donation_date"`
	}

	var first, second application

	c.mustRun(&first, "apply", "--receiver", "1", "--product", "1", "--motivation", "Eggs for the kitchen")
	c.mustRun(&second, "apply", "--receiver", "1", "--product", "1", "--motivation", "Eggs for the school")
	assert.Equal(t, "open", first.Status)

	var moved struct {
		OK       bool `json:"ok"`
		Notified bool `json:"notified"`
	}

	c.mustRun(&moved, "application", "donate", "1")
	assert.True(t, moved.OK)
	assert.True(t, moved.Notified)

	c.mustRun(&first, "application", "show", "1")
	assert.Equal(t, "pending", first.Status)
	assert.NotEmpty(t, first.DonationDate)

	var contract struct {
		Price  int    `json:"price"`
		Wallet string `json:"wallet_address"`
		Device string `json:"device_address"`
	}

	c.mustRun(&contract, "application", "contract", "1")
	assert.Equal(t, 40, contract.Price)
	assert.Equal(t, "W1", contract.Wallet)
	assert.Equal(t, "D1", contract.Device)

	err := c.run(nil, "application", "contract", "99")
	require.ErrorIs(t, err, model.ErrNotFound)

	err = c.run(nil, "application", "delete", "1", "--user", "1")
	require.Error(t, err)

	err = c.run(nil, "application", "reset", "2")
	require.Error(t, err, "open applications cannot be reset")

	var withdrawn struct {
		OK               bool `json:"ok"`
		PendingCount     int  `json:"pending_count"`
		NotificationSent bool `json:"notification_sent"`
	}

	c.mustRun(&withdrawn, "product", "withdraw", "1")
	assert.True(t, withdrawn.OK)
	assert.Equal(t, 1, withdrawn.PendingCount)
	assert.True(t, withdrawn.NotificationSent)

	c.mustRun(&second, "application", "show", "2")
	assert.Equal(t, "unavailable", second.Status)

	var summary struct {
		PendingAllTime int `json:"pending_all_time"`
		Closed         int `json:"closed"`
	}

	c.mustRun(&summary, "stats", "1")
	assert.Equal(t, 1, summary.PendingAllTime)
	assert.Equal(t, 1, summary.Closed)
}

func TestCLI_SQLiteBackend(t *testing.T) {
	c := newCLI(t, "sqlite")

	var u struct {
		ID int64 `json:"id"`
	}

	c.mustRun(&u, "user", "add", "--email", "ana@example.org", "--first-name", "Ana", "--surname", "Lopez")
	assert.Equal(t, int64(1), u.ID)

	var page struct {
		Total int `json:"total"`
	}

	c.mustRun(&page, "application", "open")
	assert.Zero(t, page.Total)
}

func TestCLI_InvalidID(t *testing.T) {
	c := newCLI(t, "bolt")

	err := c.run(nil, "application", "show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid application id")
}

func TestNewDispatcher_Roles(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		senders []string
		deliver []string
		copies  []string
	}{
		{name: "log only", senders: []string{"log"}, deliver: []string{"log"}},
		{name: "smtp and log", senders: []string{"smtp", "log"}, deliver: []string{"smtp"}, copies: []string{"log"}},
		{name: "all", senders: []string{"log", "slack", "smtp"}, deliver: []string{"smtp"}, copies: []string{"log", "slack"}},
	}

	names := func(senders []notify.Sender) []string {
		var out []string
		for _, s := range senders {
			out = append(out, s.Name())
		}

		return out
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Notify.Senders = tt.senders
			cfg.Notify.SMTPHost = "mail.example.org"
			cfg.Notify.SlackWebhook = "https://hooks.slack.com/services/T/B/X"
			require.NoError(t, cfg.Validate())

			d, err := newDispatcher(cfg, logger)
			require.NoError(t, err)

			assert.Equal(t, tt.deliver, names(d.Senders()))
			assert.Equal(t, tt.copies, names(d.Copies()))
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{" 12 ", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseID(tt.raw, "product")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
