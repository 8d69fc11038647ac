package arbiter

import (
	"fmt"
	"time"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from JSON, YAML, TOML, environment variables, etc. The
// zero-value is useful – all nested fields inherit their package defaults.

type Config struct {
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Events    EventsConfig    `json:"events" yaml:"events"`
}

// SchedulerConfig controls the timeout and escalation sweep.
type SchedulerConfig struct {
	PollingInterval time.Duration `json:"pollingInterval" yaml:"pollingInterval"`
}

// EventsConfig controls the lifecycle event queue.
type EventsConfig struct {
	Buffer     int           `json:"buffer" yaml:"buffer"`
	MaxRetries int           `json:"maxRetries" yaml:"maxRetries"`
	RetryDelay time.Duration `json:"retryDelay" yaml:"retryDelay"`
	DeadLetter bool          `json:"deadLetter" yaml:"deadLetter"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to New via
// WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			PollingInterval: time.Minute,
		},
		Events: EventsConfig{
			Buffer:     100,
			MaxRetries: 3,
			RetryDelay: 100 * time.Millisecond,
			DeadLetter: true,
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Scheduler.PollingInterval <= 0 {
		return fmt.Errorf("scheduler.pollingInterval must be > 0")
	}
	if c.Events.Buffer <= 0 {
		return fmt.Errorf("events.buffer must be > 0")
	}
	return nil
}
