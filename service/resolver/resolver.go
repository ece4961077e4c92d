// Package resolver maps symbolic role values to fully resolved signing
// accounts. A value can come from four places, tried in order: the default
// service account, an explicit private-key map supplied by the caller, the
// local key-file registry with its structured registry documents, and an
// external wallet record store.
package resolver

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	sdk "github.com/onflow/flow-go-sdk"
	"github.com/onflow/flow-go-sdk/crypto"

	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/models/failure"
	"github.com/agfarms/flow-custodian/service/signer"
)

// Store represents an external record store that can map an opaque wallet
// identifier to an address and plaintext key material.
type Store interface {
	Wallet(ctx context.Context, authID string) (custody.WalletRecord, error)
}

// Resolver resolves symbolic role values into signing accounts. It is safe
// for concurrent use; the service account key material is loaded once and
// cached for the lifetime of the resolver.
type Resolver struct {
	log   zerolog.Logger
	cfg   Config
	store Store
	cache *ristretto.Cache

	serviceOnce sync.Once
	service     custody.Account
	serviceErr  error
}

// New creates a new resolver with the given record store and options. The
// store may be nil, in which case opaque identifiers fail resolution.
func New(log zerolog.Logger, store Store, options ...Option) (*Resolver, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}
	err := validator.New().Struct(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid resolver configuration: %w", err)
	}

	// Ristretto recommends keeping ten times as many counters as items in
	// the cache when full; registry documents are around a kilobyte each.
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cfg.CacheSize) / 1000 * 10,
		MaxCost:     int64(cfg.CacheSize),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize registry cache: %w", err)
	}

	r := Resolver{
		log:   log.With().Str("component", "resolver").Logger(),
		cfg:   cfg,
		store: store,
		cache: cache,
	}

	return &r, nil
}

// Service resolves the default fee-paying service account. The key file and
// registry entry are loaded on first use and cached indefinitely; they do
// not change at runtime. This account backs almost every transaction, so a
// failure here should abort startup.
func (r *Resolver) Service() (custody.Account, error) {
	r.serviceOnce.Do(func() {
		r.service, r.serviceErr = r.loadNamed(r.cfg.ServiceAccount, r.cfg.ServiceSigAlgo, r.cfg.ServiceHashAlgo)
	})
	if r.serviceErr != nil {
		return custody.Account{}, r.serviceErr
	}
	return r.service, nil
}

// Resolve maps a symbolic role value to a signing account. The role name is
// only used for error context. The explicit key map takes precedence over
// every other source for address-shaped values; matching is case-insensitive
// and prefix-normalized.
func (r *Resolver) Resolve(ctx context.Context, role string, value string, keys map[string]string) (custody.Account, error) {

	// An absent value means the designated service account.
	if value == "" {
		account, err := r.Service()
		if err != nil {
			return custody.Account{}, failure.ResolutionError{
				Description: failure.NewDescription("could not load service account", failure.WithErr(err)),
				Role:        role,
				Value:       r.cfg.ServiceAccount,
			}
		}
		return account, nil
	}

	var sources *multierror.Error

	// An address-shaped value with an explicitly supplied key wins over
	// every registry.
	if isAddressShaped(value) {
		keyHex, ok := explicitKey(value, keys)
		if ok {
			account, err := r.userAccount(value, keyHex)
			if err != nil {
				return custody.Account{}, failure.ResolutionError{
					Description: failure.NewDescription("could not use explicit key", failure.WithErr(err)),
					Role:        role,
					Value:       value,
				}
			}
			return account, nil
		}
		sources = multierror.Append(sources, fmt.Errorf("no explicit key supplied for address"))
	}

	// A name present in the local registries resolves through its dedicated
	// key file.
	account, err := r.resolveNamed(value)
	if err == nil {
		return account, nil
	}
	sources = multierror.Append(sources, err)

	// Everything else is an opaque identifier for the record store.
	if r.store == nil {
		sources = multierror.Append(sources, fmt.Errorf("no record store configured"))
		return custody.Account{}, failure.ResolutionError{
			Description: failure.NewDescription("could not resolve value", failure.WithErr(sources.ErrorOrNil())),
			Role:        role,
			Value:       value,
		}
	}

	record, err := r.store.Wallet(ctx, value)
	if err != nil {
		sources = multierror.Append(sources, fmt.Errorf("record store lookup failed: %w", err))
		return custody.Account{}, failure.ResolutionError{
			Description: failure.NewDescription("could not resolve value", failure.WithErr(sources.ErrorOrNil())),
			Role:        role,
			Value:       value,
		}
	}

	account, err = r.userAccount(record.Address, record.PrivateKey)
	if err != nil {
		return custody.Account{}, failure.ResolutionError{
			Description: failure.NewDescription("could not use stored key", failure.WithErr(err)),
			Role:        role,
			Value:       value,
		}
	}

	r.log.Debug().Str("role", role).Str("address", account.Address.Hex()).Msg("resolved account from record store")

	return account, nil
}

// resolveNamed resolves a configured account name through its key file and
// registry metadata.
func (r *Resolver) resolveNamed(name string) (custody.Account, error) {
	if name == r.cfg.ServiceAccount {
		return r.Service()
	}
	return r.loadNamed(name, r.cfg.UserSigAlgo, r.cfg.UserHashAlgo)
}

// loadNamed loads an account from its dedicated key file, with key index and
// algorithm metadata from the registry documents. Missing metadata falls
// back to the given algorithm defaults.
func (r *Resolver) loadNamed(name string, defaultSig crypto.SignatureAlgorithm, defaultHash crypto.HashAlgorithm) (custody.Account, error) {

	path := r.keyFile(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return custody.Account{}, fmt.Errorf("could not read key file (path: %s): %w", path, err)
	}
	keyHex := strings.TrimSpace(string(data))

	entry, key, ok, err := r.lookupRegistry(name)
	if err != nil {
		return custody.Account{}, err
	}
	if !ok {
		return custody.Account{}, fmt.Errorf("account not found in registry (name: %s)", name)
	}

	sigAlgo, err := signer.ParseSigAlgo(key.SignatureAlgorithm, defaultSig)
	if err != nil {
		return custody.Account{}, err
	}
	hashAlgo, err := signer.ParseHashAlgo(key.HashAlgorithm, defaultHash)
	if err != nil {
		return custody.Account{}, err
	}

	sign, err := signer.FromHex(keyHex, sigAlgo, hashAlgo)
	if err != nil {
		return custody.Account{}, fmt.Errorf("could not create signer (name: %s): %w", name, err)
	}

	keyIndex := 0
	if key.Index != nil {
		keyIndex = *key.Index
	}

	account := custody.Account{
		Address:  sdk.HexToAddress(entry.Address),
		KeyIndex: keyIndex,
		SigAlgo:  sigAlgo,
		HashAlgo: hashAlgo,
		Signer:   sign,
	}

	return account, nil
}

// userAccount builds an account for a raw address and plaintext key, using
// the default algorithm pair for provisioned user keys. Key index zero is
// assumed; provisioned accounts carry a single key.
func (r *Resolver) userAccount(address string, keyHex string) (custody.Account, error) {
	sign, err := signer.FromHex(keyHex, r.cfg.UserSigAlgo, r.cfg.UserHashAlgo)
	if err != nil {
		return custody.Account{}, fmt.Errorf("could not create signer: %w", err)
	}
	account := custody.Account{
		Address:  sdk.HexToAddress(address),
		KeyIndex: 0,
		SigAlgo:  r.cfg.UserSigAlgo,
		HashAlgo: r.cfg.UserHashAlgo,
		Signer:   sign,
	}
	return account, nil
}

// explicitKey finds a key for the given address in the explicit key map,
// comparing case-insensitively with prefixes stripped.
func explicitKey(address string, keys map[string]string) (string, bool) {
	want := normalizeAddress(address)
	for candidate, keyHex := range keys {
		if normalizeAddress(candidate) == want {
			return keyHex, true
		}
	}
	return "", false
}

func normalizeAddress(address string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X")
	return strings.ToLower(trimmed)
}

func isAddressShaped(value string) bool {
	trimmed := normalizeAddress(value)
	if len(trimmed) != custody.AddressHexLength {
		return false
	}
	for _, c := range trimmed {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
