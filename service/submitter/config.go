package submitter

import (
	"time"

	"github.com/agfarms/flow-custodian/models/custody"
)

// Config is the configuration for a submitter.
type Config struct {
	PollInterval    time.Duration
	FinalityTimeout time.Duration
}

// DefaultConfig is the default configuration for a submitter.
var DefaultConfig = Config{
	PollInterval:    custody.DefaultPollInterval,
	FinalityTimeout: custody.DefaultFinalityTimeout,
}

// Option is a configuration option for a submitter.
type Option func(*Config)

// WithPollInterval sets the interval between transaction status polls.
func WithPollInterval(interval time.Duration) Option {
	return func(cfg *Config) {
		cfg.PollInterval = interval
	}
}

// WithFinalityTimeout sets the wall-clock bound on waiting for a submitted
// transaction to seal.
func WithFinalityTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.FinalityTimeout = timeout
	}
}
