// Package adapter is the public call surface of the custody engine. It wires
// the resolver, transactor and submitter together behind four operations and
// normalizes every outcome, expected failures included, into a single result
// record so that no caller ever branches on which internal stage failed.
package adapter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/onflow/cadence"
	sdk "github.com/onflow/flow-go-sdk"
	"github.com/onflow/flow-go-sdk/crypto"

	"github.com/agfarms/flow-custodian/models/convert"
	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/models/failure"
)

// API is the subset of the Flow Access API the adapter consumes directly.
// It is the engine's only seam to the network; everything else is local.
type API interface {
	GetAccountAtLatestBlock(ctx context.Context, address sdk.Address) (*sdk.Account, error)
	ExecuteScriptAtLatestBlock(ctx context.Context, script []byte, args []cadence.Value) (cadence.Value, error)
	GetTransactionResult(ctx context.Context, txID sdk.Identifier) (*sdk.TransactionResult, error)
}

// Resolver represents something that can resolve symbolic role values and
// the service account.
type Resolver interface {
	Service() (custody.Account, error)
	Resolve(ctx context.Context, role string, value string, keys map[string]string) (custody.Account, error)
}

// Transactor represents something that can execute a signed transaction end
// to end.
type Transactor interface {
	Execute(ctx context.Context, script []byte, args []cadence.Value, roles custody.RoleSet, keys map[string]string) (sdk.Identifier, *sdk.TransactionResult, error)
}

// Adapter exposes the custody engine's call surface.
type Adapter struct {
	log      zerolog.Logger
	api      API
	resolve  Resolver
	transact Transactor
	cfg      Config

	read  *rate.Limiter
	write *rate.Limiter
}

// New creates a new adapter. The service account is resolved eagerly so a
// broken deployment fails here rather than on the first transaction.
func New(log zerolog.Logger, api API, resolve Resolver, transact Transactor, options ...Option) (*Adapter, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}
	err := validator.New().Struct(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter configuration: %w", err)
	}

	_, err = resolve.Service()
	if err != nil {
		return nil, fmt.Errorf("could not load service account: %w", err)
	}

	a := Adapter{
		log:      log.With().Str("component", "adapter").Logger(),
		api:      api,
		resolve:  resolve,
		transact: transact,
		cfg:      cfg,
		read:     rate.NewLimiter(rate.Limit(cfg.ReadRate), 1),
		write:    rate.NewLimiter(rate.Limit(cfg.WriteRate), 1),
	}

	return &a, nil
}

// ExecuteScript runs the read-only Cadence script of the given call against
// the latest sealed state and returns its decoded value.
func (a *Adapter) ExecuteScript(ctx context.Context, call custody.ScriptCall) custody.Result {

	start := time.Now()

	err := a.read.Wait(ctx)
	if err != nil {
		return a.fail(start, fmt.Errorf("could not pace script execution: %w", err))
	}

	source, err := a.source(call.Path)
	if err != nil {
		return a.fail(start, err)
	}
	args, err := convert.Values(call.Args)
	if err != nil {
		return a.fail(start, err)
	}

	value, err := a.api.ExecuteScriptAtLatestBlock(ctx, source, args)
	if err != nil {
		return a.fail(start, failure.TransportError{
			Description: failure.NewDescription("could not execute script",
				failure.WithString("script", call.Path),
				failure.WithErr(err),
			),
			Operation: "execute_script",
		})
	}

	return a.ok(start, convert.Result(value), "")
}

// SendTransaction submits the state-changing transaction of the given call,
// signed according to its role set, and waits for finality.
func (a *Adapter) SendTransaction(ctx context.Context, call custody.TransactionCall) custody.Result {

	start := time.Now()

	err := a.write.Wait(ctx)
	if err != nil {
		return a.fail(start, fmt.Errorf("could not pace transaction submission: %w", err))
	}

	source, err := a.source(call.Path)
	if err != nil {
		return a.fail(start, err)
	}
	args, err := convert.Values(call.Args)
	if err != nil {
		return a.fail(start, err)
	}

	txID, result, err := a.transact.Execute(ctx, source, args, call.Roles, call.Keys)
	if err != nil {
		return a.fail(start, err)
	}

	data := map[string]interface{}{
		"id":     txID.Hex(),
		"status": result.Status.String(),
	}

	return a.ok(start, data, txID.Hex())
}

// GetAccount returns the on-chain account with the given address: balance,
// keys and deployed contract names.
func (a *Adapter) GetAccount(ctx context.Context, address string) custody.Result {

	start := time.Now()

	err := a.read.Wait(ctx)
	if err != nil {
		return a.fail(start, fmt.Errorf("could not pace account lookup: %w", err))
	}

	account, err := a.api.GetAccountAtLatestBlock(ctx, sdk.HexToAddress(address))
	if err != nil {
		return a.fail(start, failure.TransportError{
			Description: failure.NewDescription("could not get account",
				failure.WithString("address", address),
				failure.WithErr(err),
			),
			Operation: "get_account",
		})
	}

	keys := make([]map[string]interface{}, 0, len(account.Keys))
	for _, key := range account.Keys {
		keys = append(keys, map[string]interface{}{
			"index":           key.Index,
			"sequence_number": key.SequenceNumber,
			"revoked":         key.Revoked,
		})
	}
	contracts := make([]string, 0, len(account.Contracts))
	for name := range account.Contracts {
		contracts = append(contracts, name)
	}
	sort.Strings(contracts)

	data := map[string]interface{}{
		"address":   "0x" + account.Address.Hex(),
		"balance":   account.Balance,
		"keys":      keys,
		"contracts": contracts,
	}

	return a.ok(start, data, "")
}

// GetTransaction returns the current status of a previously submitted
// transaction.
func (a *Adapter) GetTransaction(ctx context.Context, id string) custody.Result {

	start := time.Now()

	err := a.read.Wait(ctx)
	if err != nil {
		return a.fail(start, fmt.Errorf("could not pace transaction lookup: %w", err))
	}

	txID := sdk.HexToID(strings.TrimPrefix(id, "0x"))
	result, err := a.api.GetTransactionResult(ctx, txID)
	if err != nil {
		return a.fail(start, failure.TransportError{
			Description: failure.NewDescription("could not get transaction result",
				failure.WithString("transaction", id),
				failure.WithErr(err),
			),
			Operation: "get_transaction_result",
		})
	}

	sealed := result.Status == sdk.TransactionStatusSealed && result.Error == nil
	res := custody.Result{
		Success:       sealed,
		TransactionID: txID.Hex(),
		Data:          map[string]interface{}{"status": result.Status.String()},
		ExecutionTime: time.Since(start).Seconds(),
	}
	if result.Error != nil {
		res.ErrorMessage = result.Error.Error()
	}

	return res
}

// CreateAccount provisions a new on-chain account: it generates a fresh key
// pair with the default user algorithms, submits the account creation
// transaction through the service account and parses the created address
// from the emitted event. The private key is returned to the caller for
// storage; the engine does not keep it.
func (a *Adapter) CreateAccount(ctx context.Context) custody.Result {

	start := time.Now()

	err := a.write.Wait(ctx)
	if err != nil {
		return a.fail(start, fmt.Errorf("could not pace account creation: %w", err))
	}

	seed := make([]byte, 64)
	_, err = rand.Read(seed)
	if err != nil {
		return a.fail(start, fmt.Errorf("could not generate key seed: %w", err))
	}
	key, err := crypto.GeneratePrivateKey(crypto.ECDSA_P256, seed)
	if err != nil {
		return a.fail(start, fmt.Errorf("could not generate private key: %w", err))
	}
	publicKey := key.PublicKey().Encode()

	source, err := a.source(a.cfg.CreateAccountScript)
	if err != nil {
		return a.fail(start, err)
	}
	args, err := convert.Values([]interface{}{publicKey})
	if err != nil {
		return a.fail(start, err)
	}

	// All three roles default to the service account.
	txID, result, err := a.transact.Execute(ctx, source, args, custody.RoleSet{}, nil)
	if err != nil {
		return a.fail(start, err)
	}

	var address sdk.Address
	for _, event := range result.Events {
		if event.Type != sdk.EventAccountCreated {
			continue
		}
		address = sdk.AccountCreatedEvent(event).Address()
		break
	}
	if address == sdk.EmptyAddress {
		return a.fail(start, failure.RejectionError{
			Description:   failure.NewDescription("transaction sealed without account creation event"),
			TransactionID: txID.Hex(),
			Status:        result.Status.String(),
		})
	}

	data := map[string]interface{}{
		"address":     "0x" + address.Hex(),
		"private_key": hex.EncodeToString(key.Encode()),
		"public_key":  hex.EncodeToString(publicKey),
	}

	return a.ok(start, data, txID.Hex())
}

// source reads a Cadence source file, resolving relative paths against the
// configured flow directory.
func (a *Adapter) source(path string) ([]byte, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(a.cfg.FlowDir, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("could not read source file (path: %s): %w", full, err)
	}
	return data, nil
}
