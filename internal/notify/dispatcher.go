package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/inovacc/pollo/internal/model"
)

// Dispatcher routes messages to registered senders and implements Notifier.
//
// Senders added with Register reach the recipient; a message counts as
// delivered when at least one of them accepted it. Senders added with
// RegisterCopy receive a best-effort copy that never affects the result.
type Dispatcher struct {
	senders []Sender
	copies  []Sender
	mu      sync.RWMutex
	timeout time.Duration
	logger  *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSendTimeout bounds each individual send. Zero leaves sends unbounded.
func WithSendTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		disp.timeout = d
	}
}

// WithLogger sets the logger used for delivery failures.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(disp *Dispatcher) {
		disp.logger = logger
	}
}

// NewDispatcher creates a new notification dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		senders: make([]Sender, 0),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Register adds a sender that delivers to the message recipient.
func (d *Dispatcher) Register(sender Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.senders = append(d.senders, sender)
}

// RegisterCopy adds a side channel, such as an operator log or chat room.
func (d *Dispatcher) RegisterCopy(sender Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.copies = append(d.copies, sender)
}

// Senders returns a copy of the delivering senders.
func (d *Dispatcher) Senders() []Sender {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.senders)
}

// Copies returns a copy of the side-channel senders.
func (d *Dispatcher) Copies() []Sender {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.copies)
}

// Notify implements Notifier.
func (d *Dispatcher) Notify(ctx context.Context, to, subject, body string) bool {
	return d.Deliver(ctx, NewMessage(to, subject, body))
}

// Deliver sends msg through every delivering sender and reports whether any
// succeeded, then hands it to the side channels.
func (d *Dispatcher) Deliver(ctx context.Context, msg *Message) bool {
	senders := d.Senders()
	if len(senders) == 0 {
		d.logger.Warn("notify: no delivering sender registered", "message_id", msg.ID)
	}

	delivered := false

	for _, sender := range senders {
		if d.try(ctx, sender, msg) {
			delivered = true
		}
	}

	for _, sender := range d.Copies() {
		d.try(ctx, sender, msg)
	}

	return delivered
}

func (d *Dispatcher) try(ctx context.Context, sender Sender, msg *Message) bool {
	if err := d.sendWithRecover(ctx, sender, msg); err != nil {
		d.logger.Warn("notify: delivery failed",
			"message_id", msg.ID,
			"error", &model.NotificationError{Sender: sender.Name(), To: msg.To, Err: err})

		return false
	}

	return true
}

// sendWithRecover sends a message and converts sender panics into errors.
func (d *Dispatcher) sendWithRecover(ctx context.Context, sender Sender, msg *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in sender %s: %v", sender.Name(), r)
		}
	}()

	if d.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	return sender.Send(ctx, msg)
}
