package transactor

import (
	"github.com/agfarms/flow-custodian/models/custody"
)

// Config is the configuration for a transactor.
type Config struct {
	GasLimit uint64
}

// DefaultConfig is the default configuration for a transactor.
var DefaultConfig = Config{
	GasLimit: custody.DefaultGasLimit,
}

// Option is a configuration option for a transactor.
type Option func(*Config)

// WithGasLimit sets the compute ceiling applied to every transaction.
func WithGasLimit(limit uint64) Option {
	return func(cfg *Config) {
		cfg.GasLimit = limit
	}
}
