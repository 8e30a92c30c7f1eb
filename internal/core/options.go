package core

import (
	"log/slog"
	"time"
)

// settings holds the collaborators shared by every core service.
type settings struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a core service.
type Option func(*settings)

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now. Returned times are converted to UTC.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

func (s settings) clock() time.Time {
	return s.now().UTC()
}
