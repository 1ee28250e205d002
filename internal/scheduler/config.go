package scheduler

import "time"

// Config controls the daily churn sweep.
type Config struct {
	SweepInterval time.Duration
	BatchSize     int
	BatchDelay    time.Duration
	FetchLimit    int
	RunTimeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		SweepInterval: 24 * time.Hour,
		BatchSize:     10,
		BatchDelay:    time.Second,
		FetchLimit:    500,
		RunTimeout:    30 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.SweepInterval <= 0 {
		c.SweepInterval = defaults.SweepInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = defaults.BatchDelay
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = defaults.FetchLimit
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = defaults.RunTimeout
	}
	return c
}
