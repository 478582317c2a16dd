package vaultcrypt

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Session defaults, matching the stock client.
const (
	DefaultIdleTimeout = 60 * time.Second
	DefaultRevealTTL   = 30 * time.Second
)

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*sessionConfig)

// sessionConfig holds session configuration options.
type sessionConfig struct {
	idleTimeout time.Duration
	revealTTL   time.Duration
	logger      *logrus.Logger
	now         func() time.Time
	derive      func(passphrase string, masterSalt []byte) (*MasterContext, error)
}

// defaultSessionConfig returns the default configuration.
func defaultSessionConfig() *sessionConfig {
	return &sessionConfig{
		idleTimeout: DefaultIdleTimeout,
		revealTTL:   DefaultRevealTTL,
		logger:      logrus.New(),
		now:         time.Now,
		derive:      DeriveMasterContext,
	}
}

// WithIdleTimeout sets how long the session may go without activity before
// it locks itself. Zero or negative disables the idle lock.
func WithIdleTimeout(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.idleTimeout = d
	}
}

// WithRevealTTL sets the default lifetime of secrets revealed through the session.
func WithRevealTTL(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		if d > 0 {
			c.revealTTL = d
		}
	}
}

// WithLogger sets the logger used for session lifecycle events.
// Key material and plaintext are never logged.
func WithLogger(logger *logrus.Logger) SessionOption {
	return func(c *sessionConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the time source used for reveal deadlines.
func WithClock(now func() time.Time) SessionOption {
	return func(c *sessionConfig) {
		if now != nil {
			c.now = now
		}
	}
}
