// Package transactor builds, signs and dispatches Flow transactions. It owns
// the two correctness-critical rules of the whole engine: every distinct
// (address, key index) pair signs the envelope exactly once, and submissions
// sharing a proposer account are serialized so that sequence numbers never
// collide.
package transactor

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/onflow/cadence"
	sdk "github.com/onflow/flow-go-sdk"

	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/models/failure"
)

// API is the subset of the Flow Access API needed to anchor and sequence a
// transaction.
type API interface {
	GetLatestBlock(ctx context.Context, isSealed bool) (*sdk.Block, error)
	GetAccountAtLatestBlock(ctx context.Context, address sdk.Address) (*sdk.Account, error)
}

// Resolver represents something that can resolve a symbolic role value into
// a signing account.
type Resolver interface {
	Resolve(ctx context.Context, role string, value string, keys map[string]string) (custody.Account, error)
}

// Submitter represents something that can submit a signed transaction and
// wait for its finality.
type Submitter interface {
	SubmitAndWait(ctx context.Context, tx *sdk.Transaction) (sdk.Identifier, *sdk.TransactionResult, error)
}

// Transactor executes state-changing transactions end to end: role
// resolution, sequence fetch, envelope assembly, multi-party signing and
// hand-off to the submitter.
type Transactor struct {
	log     zerolog.Logger
	api     API
	resolve Resolver
	submit  Submitter
	cfg     Config

	mu    sync.Mutex
	locks map[sdk.Address]*sync.Mutex
}

// New creates a new transactor using the given API, resolver and submitter.
func New(log zerolog.Logger, api API, resolve Resolver, submit Submitter, options ...Option) *Transactor {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	t := Transactor{
		log:     log.With().Str("component", "transactor").Logger(),
		api:     api,
		resolve: resolve,
		submit:  submit,
		cfg:     cfg,
		locks:   make(map[sdk.Address]*sync.Mutex),
	}

	return &t
}

// Execute resolves the given roles, builds and signs the transaction and
// submits it, holding the proposer's submission lock until finality is
// reached or the wait gives up. The returned identifier is set as soon as
// the network has accepted the submission, even when sealing later fails.
func (t *Transactor) Execute(ctx context.Context, script []byte, args []cadence.Value, roleSet custody.RoleSet, keys map[string]string) (sdk.Identifier, *sdk.TransactionResult, error) {

	roles, err := t.resolveRoles(ctx, roleSet, keys)
	if err != nil {
		return sdk.Identifier{}, nil, err
	}

	// Two concurrent submissions from the same proposer would race on the
	// sequence number and one of them would be rejected as stale. The lock
	// covers the window from sequence fetch until the transaction is final,
	// because the on-chain sequence number only advances on execution.
	unlock := t.lockProposer(roles.Proposer.Address)
	defer unlock()

	tx, err := t.build(ctx, script, args, roles)
	if err != nil {
		return sdk.Identifier{}, nil, err
	}

	return t.submit.SubmitAndWait(ctx, tx)
}

// resolveRoles resolves the three signing roles. An empty authorizer list
// defaults to the proposer, which keeps single-party transactions to one
// symbolic value.
func (t *Transactor) resolveRoles(ctx context.Context, roleSet custody.RoleSet, keys map[string]string) (custody.Roles, error) {

	proposer, err := t.resolve.Resolve(ctx, "proposer", roleSet.Proposer, keys)
	if err != nil {
		return custody.Roles{}, err
	}
	payer, err := t.resolve.Resolve(ctx, "payer", roleSet.Payer, keys)
	if err != nil {
		return custody.Roles{}, err
	}

	authorizers := make([]custody.Account, 0, len(roleSet.Authorizers))
	for _, value := range roleSet.Authorizers {
		authorizer, err := t.resolve.Resolve(ctx, "authorizer", value, keys)
		if err != nil {
			return custody.Roles{}, err
		}
		authorizers = append(authorizers, authorizer)
	}
	if len(authorizers) == 0 {
		authorizers = append(authorizers, proposer)
	}

	roles := custody.Roles{
		Proposer:    proposer,
		Payer:       payer,
		Authorizers: authorizers,
	}

	return roles, nil
}

// build assembles the canonical transaction payload and signs the envelope.
// Any failure aborts before the first signature so that a partially signed
// envelope can never leave this method.
func (t *Transactor) build(ctx context.Context, script []byte, args []cadence.Value, roles custody.Roles) (*sdk.Transaction, error) {

	// The reference block anchors the transaction's freshness window and
	// must come from a recently sealed block.
	block, err := t.api.GetLatestBlock(ctx, true)
	if err != nil {
		return nil, failure.TransportError{
			Description: failure.NewDescription("could not get latest sealed block", failure.WithErr(err)),
			Operation:   "get_latest_block",
		}
	}

	sequence, err := t.sequenceNumber(ctx, roles.Proposer)
	if err != nil {
		return nil, err
	}

	tx := sdk.NewTransaction().
		SetScript(script).
		SetReferenceBlockID(block.ID).
		SetProposalKey(roles.Proposer.Address, roles.Proposer.KeyIndex, sequence).
		SetPayer(roles.Payer.Address).
		SetGasLimit(t.cfg.GasLimit)

	// Authorizer order is part of the authorization contract of the script.
	for _, authorizer := range roles.Authorizers {
		tx.AddAuthorizer(authorizer.Address)
	}

	for i, arg := range args {
		err := tx.AddArgument(arg)
		if err != nil {
			return nil, failure.EncodingError{
				Description: failure.NewDescription("could not add argument", failure.WithErr(err)),
				Index:       i,
			}
		}
	}

	// Authorizers sign first in list order, the proposer follows, the payer
	// signs last; duplicates are already eliminated.
	for _, account := range roles.Signers() {
		err := tx.SignEnvelope(account.Address, account.KeyIndex, account.Signer)
		if err != nil {
			return nil, fmt.Errorf("could not sign envelope (address: %s, key: %d): %w", account.Address.Hex(), account.KeyIndex, err)
		}
	}

	t.log.Debug().
		Str("proposer", roles.Proposer.Address.Hex()).
		Uint64("sequence", sequence).
		Int("signatures", len(tx.EnvelopeSignatures)).
		Msg("transaction assembled and signed")

	return tx, nil
}

// sequenceNumber fetches the proposer key's current on-chain sequence
// number. A key index outside the account's key list falls back to the first
// key, mirroring the behavior of the accounts we provision.
func (t *Transactor) sequenceNumber(ctx context.Context, proposer custody.Account) (uint64, error) {

	account, err := t.api.GetAccountAtLatestBlock(ctx, proposer.Address)
	if err != nil {
		return 0, failure.TransportError{
			Description: failure.NewDescription("could not get proposer account",
				failure.WithAddress("address", proposer.Address),
				failure.WithErr(err),
			),
			Operation: "get_account",
		}
	}
	if len(account.Keys) == 0 {
		return 0, fmt.Errorf("proposer account has no keys (address: %s)", proposer.Address.Hex())
	}

	index := proposer.KeyIndex
	if index >= len(account.Keys) {
		index = 0
	}

	return account.Keys[index].SequenceNumber, nil
}

// lockProposer acquires the submission lock for the given proposer address
// and returns the matching release.
func (t *Transactor) lockProposer(address sdk.Address) func() {
	t.mu.Lock()
	lock, ok := t.locks[address]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[address] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
