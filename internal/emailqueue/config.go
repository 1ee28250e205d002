package emailqueue

import "time"

// Config controls the queue worker loop.
type Config struct {
	Concurrency     int
	MaxAttempts     int
	RetryBackoff    time.Duration
	PollTimeout     time.Duration
	PromoteInterval time.Duration
	CompletedKeep   int64
	FailedKeep      int64
}

func DefaultConfig() Config {
	return Config{
		Concurrency:     5,
		MaxAttempts:     3,
		RetryBackoff:    time.Second,
		PollTimeout:     time.Second,
		PromoteInterval: 500 * time.Millisecond,
		CompletedKeep:   100,
		FailedKeep:      50,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaults.MaxAttempts
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = defaults.RetryBackoff
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = defaults.PollTimeout
	}
	if c.PromoteInterval <= 0 {
		c.PromoteInterval = defaults.PromoteInterval
	}
	if c.CompletedKeep <= 0 {
		c.CompletedKeep = defaults.CompletedKeep
	}
	if c.FailedKeep <= 0 {
		c.FailedKeep = defaults.FailedKeep
	}
	return c
}
