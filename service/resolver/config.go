package resolver

import (
	"github.com/onflow/flow-go-sdk/crypto"
)

// Config is the configuration for a resolver. The algorithm defaults differ
// between the fixed service account and dynamically provisioned user
// accounts, and both pairs are configurable.
type Config struct {
	FlowDir         string `validate:"required"`
	ServiceAccount  string `validate:"required"`
	ServiceSigAlgo  crypto.SignatureAlgorithm
	ServiceHashAlgo crypto.HashAlgorithm
	UserSigAlgo     crypto.SignatureAlgorithm
	UserHashAlgo    crypto.HashAlgorithm
	CacheSize       uint64 `validate:"gt=0"`
}

// DefaultConfig is the default configuration for a resolver.
var DefaultConfig = Config{
	ServiceAccount:  "mainnet-agfarms",
	ServiceSigAlgo:  crypto.ECDSA_secp256k1,
	ServiceHashAlgo: crypto.SHA2_256,
	UserSigAlgo:     crypto.ECDSA_P256,
	UserHashAlgo:    crypto.SHA3_256,
	CacheSize:       16_000_000,
}

// Option is a configuration option for a resolver.
type Option func(*Config)

// WithFlowDir sets the directory holding registry documents, key files and
// Cadence sources.
func WithFlowDir(dir string) Option {
	return func(cfg *Config) {
		cfg.FlowDir = dir
	}
}

// WithServiceAccount sets the name of the default fee-paying service account.
func WithServiceAccount(name string) Option {
	return func(cfg *Config) {
		cfg.ServiceAccount = name
	}
}

// WithServiceAlgorithms sets the default algorithm pair for the service
// account key.
func WithServiceAlgorithms(sig crypto.SignatureAlgorithm, hash crypto.HashAlgorithm) Option {
	return func(cfg *Config) {
		cfg.ServiceSigAlgo = sig
		cfg.ServiceHashAlgo = hash
	}
}

// WithUserAlgorithms sets the default algorithm pair for dynamically
// provisioned user keys.
func WithUserAlgorithms(sig crypto.SignatureAlgorithm, hash crypto.HashAlgorithm) Option {
	return func(cfg *Config) {
		cfg.UserSigAlgo = sig
		cfg.UserHashAlgo = hash
	}
}

// WithCacheSize sets the size in bytes of the registry document cache.
func WithCacheSize(size uint64) Option {
	return func(cfg *Config) {
		cfg.CacheSize = size
	}
}
