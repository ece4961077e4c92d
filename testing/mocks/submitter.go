package mocks

import (
	"context"
	"testing"

	sdk "github.com/onflow/flow-go-sdk"
)

// Submitter mocks the submit-and-wait seam consumed by the transactor.
type Submitter struct {
	SubmitAndWaitFunc func(ctx context.Context, tx *sdk.Transaction) (sdk.Identifier, *sdk.TransactionResult, error)
}

// BaselineSubmitter returns a submitter mock where every transaction seals
// immediately.
func BaselineSubmitter(t *testing.T) *Submitter {
	t.Helper()

	s := Submitter{
		SubmitAndWaitFunc: func(_ context.Context, tx *sdk.Transaction) (sdk.Identifier, *sdk.TransactionResult, error) {
			return tx.ID(), GenericResult(sdk.TransactionStatusSealed), nil
		},
	}

	return &s
}

func (s *Submitter) SubmitAndWait(ctx context.Context, tx *sdk.Transaction) (sdk.Identifier, *sdk.TransactionResult, error) {
	return s.SubmitAndWaitFunc(ctx, tx)
}
