package adapter

import (
	"github.com/agfarms/flow-custodian/models/custody"
)

// Config is the configuration for an adapter.
type Config struct {
	FlowDir             string  `validate:"required"`
	ReadRate            float64 `validate:"gt=0"`
	WriteRate           float64 `validate:"gt=0"`
	CreateAccountScript string  `validate:"required"`
}

// DefaultConfig is the default configuration for an adapter. The pacing
// limits keep us below access node throttling without tuning per call.
var DefaultConfig = Config{
	ReadRate:            custody.DefaultReadRate,
	WriteRate:           custody.DefaultWriteRate,
	CreateAccountScript: "cadence/transactions/createAccount.cdc",
}

// Option is a configuration option for an adapter.
type Option func(*Config)

// WithFlowDir sets the directory Cadence sources are read from.
func WithFlowDir(dir string) Option {
	return func(cfg *Config) {
		cfg.FlowDir = dir
	}
}

// WithReadRate sets the client-side pacing limit for read-only calls, in
// requests per second.
func WithReadRate(limit float64) Option {
	return func(cfg *Config) {
		cfg.ReadRate = limit
	}
}

// WithWriteRate sets the client-side pacing limit for state-changing calls,
// in requests per second.
func WithWriteRate(limit float64) Option {
	return func(cfg *Config) {
		cfg.WriteRate = limit
	}
}

// WithCreateAccountScript sets the path of the Cadence transaction used to
// provision new accounts.
func WithCreateAccountScript(path string) Option {
	return func(cfg *Config) {
		cfg.CreateAccountScript = path
	}
}
