package mocks

import (
	"context"
	"testing"

	"github.com/agfarms/flow-custodian/models/custody"
)

// Store mocks the wallet record store seam consumed by the resolver.
type Store struct {
	WalletFunc func(ctx context.Context, authID string) (custody.WalletRecord, error)
}

// BaselineStore returns a store mock where every identifier maps to a
// generic wallet record.
func BaselineStore(t *testing.T) *Store {
	t.Helper()

	s := Store{
		WalletFunc: func(context.Context, string) (custody.WalletRecord, error) {
			record := custody.WalletRecord{
				Address:    GenericAddress(1).Hex(),
				PrivateKey: GenericKeyHex,
			}
			return record, nil
		},
	}

	return &s
}

func (s *Store) Wallet(ctx context.Context, authID string) (custody.WalletRecord, error) {
	return s.WalletFunc(ctx, authID)
}
