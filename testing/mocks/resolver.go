package mocks

import (
	"context"
	"testing"

	"github.com/agfarms/flow-custodian/models/custody"
)

// Resolver mocks the account resolution seam.
type Resolver struct {
	ServiceFunc func() (custody.Account, error)
	ResolveFunc func(ctx context.Context, role string, value string, keys map[string]string) (custody.Account, error)
}

// BaselineResolver returns a resolver mock where every value resolves to the
// same generic account.
func BaselineResolver(t *testing.T) *Resolver {
	t.Helper()

	account := GenericAccount(t, 0)
	r := Resolver{
		ServiceFunc: func() (custody.Account, error) {
			return account, nil
		},
		ResolveFunc: func(context.Context, string, string, map[string]string) (custody.Account, error) {
			return account, nil
		},
	}

	return &r
}

func (r *Resolver) Service() (custody.Account, error) {
	return r.ServiceFunc()
}

func (r *Resolver) Resolve(ctx context.Context, role string, value string, keys map[string]string) (custody.Account, error) {
	return r.ResolveFunc(ctx, role, value, keys)
}
