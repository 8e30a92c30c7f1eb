package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig configures an SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string

	// Timeout bounds dialing and each SMTP command; zero keeps the client default
	Timeout time.Duration
}

// SMTPSender e-mails messages to their recipient through an SMTP relay.
// It does one attempt per message.
type SMTPSender struct {
	from string

	// send is swapped in tests
	send func(ctx context.Context, msg *mail.Msg) error
}

// NewSMTPSender creates an SMTPSender. STARTTLS is used when the relay offers it.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client for %s: %w", cfg.Host, err)
	}

	return &SMTPSender{
		from: cfg.From,
		send: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}, nil
}

// Name returns the sender name.
func (s *SMTPSender) Name() string {
	return "smtp"
}

// Send delivers msg to its recipient. It returns as soon as ctx is done, even
// when the relay has not answered yet.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return errors.New("recipient address is empty")
	}

	m, err := s.compose(msg)
	if err != nil {
		return err
	}

	done := make(chan error, 1)

	go func() {
		done <- s.send(ctx, m)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", msg.To, ctx.Err())
	}
}

func (s *SMTPSender) compose(msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("sender address %q: %w", s.from, err)
	}

	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("recipient address %q: %w", msg.To, err)
	}

	m.Subject(msg.Subject)
	m.SetMessageIDWithValue(msg.ID + "@pollo")
	m.SetDateWithValue(msg.Timestamp)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	return m, nil
}
