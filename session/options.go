package session

import "time"

// Config holds the session configuration.
type Config struct {
	// PollInterval is the delay between status polls while the device is
	// busy or a response is not yet ready
	PollInterval time.Duration

	// MaxAttempts is the poll attempt budget per wait. Exhausting it
	// surfaces ErrTimeout. The engine never exceeds it.
	MaxAttempts int

	// VariableChallenge mirrors the slot's variable-length challenge
	// flag. It controls challenge framing (trailing-zero challenges are
	// padded with 0xFF so the device-side length scan preserves them)
	// and host-side verification.
	VariableChallenge bool

	// Logger is used for logging operations (optional)
	Logger Logger

	// Sleep is the wait function used between polls. Replaceable so
	// tests can poll instantly.
	Sleep func(time.Duration)
}

// defaultConfig returns the default configuration. The budget leaves room
// for a slot that waits on a physical touch.
func defaultConfig() Config {
	return Config{
		PollInterval:      10 * time.Millisecond,
		MaxAttempts:       1500,
		VariableChallenge: true,
		Sleep:             time.Sleep,
	}
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithPollInterval sets the delay between status polls.
//
// Example:
//
//	s := session.New(dev, session.WithPollInterval(time.Millisecond))
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.PollInterval = d
		}
	}
}

// WithMaxAttempts sets the poll attempt budget per wait.
//
// Example:
//
//	s := session.New(dev, session.WithMaxAttempts(100))
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxAttempts = n
		}
	}
}

// WithFixedChallenge declares that the target slot was programmed without
// variable-length challenge support, so challenges are framed zero-padded
// and verified over the full 64-byte payload.
func WithFixedChallenge() Option {
	return func(c *Config) {
		c.VariableChallenge = false
	}
}

// WithLogger sets a logger for session operations.
//
// Example:
//
//	s := session.New(dev, session.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithSleep replaces the wait function used between polls. Intended for
// tests that stub instant readiness.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Config) {
		if sleep != nil {
			c.Sleep = sleep
		}
	}
}
