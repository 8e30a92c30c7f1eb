// Package notify delivers receiver-facing messages for application lifecycle events.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is a single outbound notification.
type Message struct {
	// ID correlates log lines and sender payloads for one message
	ID string

	// To is the recipient address
	To string

	Subject string
	Body    string

	// Timestamp is when the message was created
	Timestamp time.Time
}

// NewMessage creates a message with a fresh ID and the current timestamp.
func NewMessage(to, subject, body string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		To:        to,
		Subject:   subject,
		Body:      body,
		Timestamp: time.Now(),
	}
}

// Sender is the interface for notification transports.
type Sender interface {
	// Send delivers the message.
	// Returns an error if the message could not be delivered.
	Send(ctx context.Context, msg *Message) error

	// Name returns the sender's name for logging purposes.
	Name() string
}

// Notifier sends a message to an address and reports whether it was delivered.
// Implementations do not retry.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string) bool
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, to, subject, body string) bool

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, to, subject, body string) bool {
	return f(ctx, to, subject, body)
}
