package history

import (
	"log/slog"

	"github.com/dshills/undostack/internal/clock"
	"github.com/dshills/undostack/internal/notify"
)

// Default retention policy.
const (
	DefaultMaxUnits        = 30000
	DefaultMinTransactions = 30
)

// Sink receives a notification after every state-changing operation.
// *notify.Notifier satisfies it.
type Sink interface {
	Notify(change notify.Change)
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used to stamp transactions.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithLogger sets the logger. The default discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithNotifier sets the sink that is told about history changes.
func WithNotifier(sink Sink) Option {
	return func(m *Manager) {
		m.sink = sink
	}
}

// WithRetention sets the eviction policy. See SetRetentionPolicy.
func WithRetention(maxUnits, minTransactions int) Option {
	return func(m *Manager) {
		m.SetRetentionPolicy(maxUnits, minTransactions)
	}
}

// WithSource names the manager in notifications and log records.
func WithSource(source string) Option {
	return func(m *Manager) {
		m.source = source
	}
}
