package mocks

import (
	"context"
	"testing"

	"github.com/onflow/cadence"
	sdk "github.com/onflow/flow-go-sdk"

	"github.com/agfarms/flow-custodian/models/custody"
)

// Transactor mocks the end-to-end transaction execution seam consumed by
// the adapter.
type Transactor struct {
	ExecuteFunc func(ctx context.Context, script []byte, args []cadence.Value, roles custody.RoleSet, keys map[string]string) (sdk.Identifier, *sdk.TransactionResult, error)
}

// BaselineTransactor returns a transactor mock where every execution seals
// immediately.
func BaselineTransactor(t *testing.T) *Transactor {
	t.Helper()

	tr := Transactor{
		ExecuteFunc: func(context.Context, []byte, []cadence.Value, custody.RoleSet, map[string]string) (sdk.Identifier, *sdk.TransactionResult, error) {
			return GenericIdentifier(7), GenericResult(sdk.TransactionStatusSealed), nil
		},
	}

	return &tr
}

func (tr *Transactor) Execute(ctx context.Context, script []byte, args []cadence.Value, roles custody.RoleSet, keys map[string]string) (sdk.Identifier, *sdk.TransactionResult, error) {
	return tr.ExecuteFunc(ctx, script, args, roles, keys)
}
