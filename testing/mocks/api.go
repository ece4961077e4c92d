package mocks

import (
	"context"
	"testing"

	"github.com/onflow/cadence"
	sdk "github.com/onflow/flow-go-sdk"
)

// API mocks the Flow Access API seam shared by the adapter, transactor and
// submitter.
type API struct {
	GetLatestBlockFunc             func(ctx context.Context, isSealed bool) (*sdk.Block, error)
	GetAccountAtLatestBlockFunc    func(ctx context.Context, address sdk.Address) (*sdk.Account, error)
	ExecuteScriptAtLatestBlockFunc func(ctx context.Context, script []byte, args []cadence.Value) (cadence.Value, error)
	SendTransactionFunc            func(ctx context.Context, tx sdk.Transaction) error
	GetTransactionResultFunc       func(ctx context.Context, txID sdk.Identifier) (*sdk.TransactionResult, error)
}

// BaselineAPI returns an API mock where every call succeeds with generic
// values: a sealed reference block, a single-key account, a fixed-point
// script result and an immediately sealed transaction.
func BaselineAPI(t *testing.T) *API {
	t.Helper()

	a := API{
		GetLatestBlockFunc: func(context.Context, bool) (*sdk.Block, error) {
			return GenericBlock(), nil
		},
		GetAccountAtLatestBlockFunc: func(_ context.Context, address sdk.Address) (*sdk.Account, error) {
			return GenericOnChainAccount(address, GenericSequence), nil
		},
		ExecuteScriptAtLatestBlockFunc: func(context.Context, []byte, []cadence.Value) (cadence.Value, error) {
			return cadence.UFix64(1_250_000_000), nil
		},
		SendTransactionFunc: func(context.Context, sdk.Transaction) error {
			return nil
		},
		GetTransactionResultFunc: func(context.Context, sdk.Identifier) (*sdk.TransactionResult, error) {
			return GenericResult(sdk.TransactionStatusSealed), nil
		},
	}

	return &a
}

func (a *API) GetLatestBlock(ctx context.Context, isSealed bool) (*sdk.Block, error) {
	return a.GetLatestBlockFunc(ctx, isSealed)
}

func (a *API) GetAccountAtLatestBlock(ctx context.Context, address sdk.Address) (*sdk.Account, error) {
	return a.GetAccountAtLatestBlockFunc(ctx, address)
}

func (a *API) ExecuteScriptAtLatestBlock(ctx context.Context, script []byte, args []cadence.Value) (cadence.Value, error) {
	return a.ExecuteScriptAtLatestBlockFunc(ctx, script, args)
}

func (a *API) SendTransaction(ctx context.Context, tx sdk.Transaction) error {
	return a.SendTransactionFunc(ctx, tx)
}

func (a *API) GetTransactionResult(ctx context.Context, txID sdk.Identifier) (*sdk.TransactionResult, error) {
	return a.GetTransactionResultFunc(ctx, txID)
}
