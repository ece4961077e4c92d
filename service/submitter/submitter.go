// Package submitter sends signed transaction envelopes to the Flow Access
// API and polls their status to finality with a bounded wait.
package submitter

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	sdk "github.com/onflow/flow-go-sdk"

	"github.com/agfarms/flow-custodian/models/failure"
)

// API is the subset of the Flow Access API needed to submit a transaction
// and follow its status.
type API interface {
	SendTransaction(ctx context.Context, tx sdk.Transaction) error
	GetTransactionResult(ctx context.Context, txID sdk.Identifier) (*sdk.TransactionResult, error)
}

// Submitter submits signed transactions and waits for them to seal.
type Submitter struct {
	log zerolog.Logger
	api API
	cfg Config
}

// New creates a new submitter that uses the specified API, typically a Flow
// SDK access client.
func New(log zerolog.Logger, api API, options ...Option) *Submitter {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	s := Submitter{
		log: log.With().Str("component", "submitter").Logger(),
		api: api,
		cfg: cfg,
	}

	return &s
}

// SubmitAndWait submits the given signed transaction and polls its status
// until it is sealed, terminally rejected or the finality timeout elapses.
// The transaction identifier is captured at submission time and returned in
// every outcome past that point, so callers can reconcile a transaction the
// engine gave up waiting on.
func (s *Submitter) SubmitAndWait(ctx context.Context, tx *sdk.Transaction) (sdk.Identifier, *sdk.TransactionResult, error) {

	err := s.api.SendTransaction(ctx, *tx)
	if err != nil {
		return sdk.Identifier{}, nil, failure.TransportError{
			Description: failure.NewDescription("could not submit transaction", failure.WithErr(err)),
			Operation:   "send_transaction",
		}
	}

	txID := tx.ID()
	s.log.Debug().Str("transaction", txID.Hex()).Msg("transaction submitted")

	result, err := s.wait(ctx, txID)
	return txID, result, err
}

// wait polls the transaction status at the configured interval until a
// terminal state or the timeout. A transaction that fails to seal in time is
// reported as a timeout, never as a rejection: it may still seal later.
func (s *Submitter) wait(ctx context.Context, txID sdk.Identifier) (*sdk.TransactionResult, error) {

	deadline := time.NewTimer(s.cfg.FinalityTimeout)
	defer deadline.Stop()
	poll := time.NewTicker(s.cfg.PollInterval)
	defer poll.Stop()

	for {
		result, err := s.api.GetTransactionResult(ctx, txID)
		if err != nil {
			return nil, failure.TransportError{
				Description: failure.NewDescription("could not get transaction result",
					failure.WithString("transaction", txID.Hex()),
					failure.WithErr(err),
				),
				Operation: "get_transaction_result",
			}
		}

		switch {
		case result.Status == sdk.TransactionStatusSealed && result.Error == nil:
			s.log.Debug().Str("transaction", txID.Hex()).Msg("transaction sealed")
			return result, nil

		case result.Status == sdk.TransactionStatusSealed:
			return result, failure.RejectionError{
				Description:   failure.NewDescription("transaction sealed with execution error", failure.WithErr(result.Error)),
				TransactionID: txID.Hex(),
				Status:        result.Status.String(),
			}

		case result.Status == sdk.TransactionStatusExpired:
			return result, failure.RejectionError{
				Description:   failure.NewDescription("transaction expired before execution"),
				TransactionID: txID.Hex(),
				Status:        result.Status.String(),
			}
		}

		select {
		case <-ctx.Done():
			return nil, failure.TimeoutError{
				Description:   failure.NewDescription("context canceled while waiting for seal", failure.WithErr(ctx.Err())),
				TransactionID: txID.Hex(),
				Wait:          s.cfg.FinalityTimeout,
			}
		case <-deadline.C:
			return nil, failure.TimeoutError{
				Description:   failure.NewDescription("transaction did not seal within timeout"),
				TransactionID: txID.Hex(),
				Wait:          s.cfg.FinalityTimeout,
			}
		case <-poll.C:
			// Poll again.
		}
	}
}
