package adapter_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/cadence"
	sdk "github.com/onflow/flow-go-sdk"

	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/models/failure"
	"github.com/agfarms/flow-custodian/service/adapter"
	"github.com/agfarms/flow-custodian/service/submitter"
	"github.com/agfarms/flow-custodian/service/transactor"
	"github.com/agfarms/flow-custodian/testing/mocks"
)

// writeSources lays out a flow directory with the Cadence sources the test
// calls reference.
func writeSources(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "get_balance.cdc"), []byte(`pub fun main(): UFix64 { return 12.5 }`), 0o600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "transfer.cdc"), []byte(`transaction(to: Address, amount: UFix64) {}`), 0o600)
	require.NoError(t, err)

	transactions := filepath.Join(dir, "cadence", "transactions")
	err = os.MkdirAll(transactions, 0o700)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(transactions, "createAccount.cdc"), []byte(`transaction(publicKey: [UInt8]) {}`), 0o600)
	require.NoError(t, err)

	return dir
}

func baselineAdapter(t *testing.T, api adapter.API, resolve adapter.Resolver, transact adapter.Transactor) *adapter.Adapter {
	t.Helper()

	dir := writeSources(t)
	a, err := adapter.New(mocks.NoopLogger, api, resolve, transact,
		adapter.WithFlowDir(dir),
		adapter.WithReadRate(1000),
		adapter.WithWriteRate(1000),
	)
	require.NoError(t, err)

	return a
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("broken service account fails construction", func(t *testing.T) {
		t.Parallel()

		resolve := mocks.BaselineResolver(t)
		resolve.ServiceFunc = func() (custody.Account, error) {
			return custody.Account{}, mocks.GenericError
		}

		_, err := adapter.New(mocks.NoopLogger, mocks.BaselineAPI(t), resolve, mocks.BaselineTransactor(t),
			adapter.WithFlowDir(t.TempDir()),
		)

		assert.Error(t, err)
	})

	t.Run("missing flow directory fails validation", func(t *testing.T) {
		t.Parallel()

		_, err := adapter.New(mocks.NoopLogger, mocks.BaselineAPI(t), mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

		assert.Error(t, err)
	})
}

func TestAdapter_ExecuteScript(t *testing.T) {
	t.Parallel()

	t.Run("nominal case decodes the returned value", func(t *testing.T) {
		t.Parallel()

		a := baselineAdapter(t, mocks.BaselineAPI(t), mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

		res := a.ExecuteScript(context.Background(), custody.ScriptCall{Path: "get_balance.cdc"})

		assert.True(t, res.Success)
		assert.Empty(t, res.TransactionID)
		assert.Equal(t, 12.5, res.Data)
	})

	t.Run("missing source fails without a network call", func(t *testing.T) {
		t.Parallel()

		api := mocks.BaselineAPI(t)
		api.ExecuteScriptAtLatestBlockFunc = func(context.Context, []byte, []cadence.Value) (cadence.Value, error) {
			t.Fatal("script should not be executed")
			return nil, nil
		}
		a := baselineAdapter(t, api, mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

		res := a.ExecuteScript(context.Background(), custody.ScriptCall{Path: "missing.cdc"})

		assert.False(t, res.Success)
		assert.NotEmpty(t, res.ErrorMessage)
	})

	t.Run("bad argument fails without a network call", func(t *testing.T) {
		t.Parallel()

		api := mocks.BaselineAPI(t)
		api.ExecuteScriptAtLatestBlockFunc = func(context.Context, []byte, []cadence.Value) (cadence.Value, error) {
			t.Fatal("script should not be executed")
			return nil, nil
		}
		a := baselineAdapter(t, api, mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

		res := a.ExecuteScript(context.Background(), custody.ScriptCall{
			Path: "get_balance.cdc",
			Args: []interface{}{-1},
		})

		assert.False(t, res.Success)
	})

	t.Run("execution failure surfaces in the result record", func(t *testing.T) {
		t.Parallel()

		api := mocks.BaselineAPI(t)
		api.ExecuteScriptAtLatestBlockFunc = func(context.Context, []byte, []cadence.Value) (cadence.Value, error) {
			return nil, mocks.GenericError
		}
		a := baselineAdapter(t, api, mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

		res := a.ExecuteScript(context.Background(), custody.ScriptCall{Path: "get_balance.cdc"})

		assert.False(t, res.Success)
		assert.NotEmpty(t, res.ErrorMessage)
	})
}

func TestAdapter_SendTransaction(t *testing.T) {
	t.Parallel()

	t.Run("sealed transaction reports its identifier", func(t *testing.T) {
		t.Parallel()

		a := baselineAdapter(t, mocks.BaselineAPI(t), mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

		res := a.SendTransaction(context.Background(), custody.TransactionCall{
			Path: "transfer.cdc",
			Args: []interface{}{"0xf8d6e0586b0a20c8", "12.5"},
		})

		assert.True(t, res.Success)
		assert.Equal(t, mocks.GenericIdentifier(7).Hex(), res.TransactionID)
		data, ok := res.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, mocks.GenericIdentifier(7).Hex(), data["id"])
	})

	t.Run("rejection after submission keeps the identifier", func(t *testing.T) {
		t.Parallel()

		txID := mocks.GenericIdentifier(3)
		transact := mocks.BaselineTransactor(t)
		transact.ExecuteFunc = func(context.Context, []byte, []cadence.Value, custody.RoleSet, map[string]string) (sdk.Identifier, *sdk.TransactionResult, error) {
			err := failure.RejectionError{
				Description:   failure.NewDescription("transaction sealed with execution error", failure.WithErr(mocks.GenericError)),
				TransactionID: txID.Hex(),
				Status:        sdk.TransactionStatusSealed.String(),
			}
			return txID, mocks.GenericResult(sdk.TransactionStatusSealed), err
		}
		a := baselineAdapter(t, mocks.BaselineAPI(t), mocks.BaselineResolver(t), transact)

		res := a.SendTransaction(context.Background(), custody.TransactionCall{Path: "transfer.cdc"})

		assert.False(t, res.Success)
		assert.Equal(t, txID.Hex(), res.TransactionID)
		assert.NotEmpty(t, res.ErrorMessage)
	})

	t.Run("timeout after submission keeps the identifier", func(t *testing.T) {
		t.Parallel()

		txID := mocks.GenericIdentifier(4)
		transact := mocks.BaselineTransactor(t)
		transact.ExecuteFunc = func(context.Context, []byte, []cadence.Value, custody.RoleSet, map[string]string) (sdk.Identifier, *sdk.TransactionResult, error) {
			err := failure.TimeoutError{
				Description:   failure.NewDescription("transaction did not seal within timeout"),
				TransactionID: txID.Hex(),
				Wait:          custody.DefaultFinalityTimeout,
			}
			return txID, nil, err
		}
		a := baselineAdapter(t, mocks.BaselineAPI(t), mocks.BaselineResolver(t), transact)

		res := a.SendTransaction(context.Background(), custody.TransactionCall{Path: "transfer.cdc"})

		assert.False(t, res.Success)
		assert.Equal(t, txID.Hex(), res.TransactionID)
		assert.Contains(t, res.ErrorMessage, "timed out")
		assert.NotContains(t, res.ErrorMessage, "rejected")
	})

	t.Run("resolution failure reports no identifier", func(t *testing.T) {
		t.Parallel()

		transact := mocks.BaselineTransactor(t)
		transact.ExecuteFunc = func(context.Context, []byte, []cadence.Value, custody.RoleSet, map[string]string) (sdk.Identifier, *sdk.TransactionResult, error) {
			err := failure.ResolutionError{
				Description: failure.NewDescription("could not resolve value", failure.WithErr(mocks.GenericError)),
				Role:        "proposer",
				Value:       "nobody",
			}
			return sdk.Identifier{}, nil, err
		}
		a := baselineAdapter(t, mocks.BaselineAPI(t), mocks.BaselineResolver(t), transact)

		res := a.SendTransaction(context.Background(), custody.TransactionCall{Path: "transfer.cdc"})

		assert.False(t, res.Success)
		assert.Empty(t, res.TransactionID)
		assert.NotEmpty(t, res.ErrorMessage)
	})
}

func TestAdapter_GetAccount(t *testing.T) {
	t.Parallel()

	a := baselineAdapter(t, mocks.BaselineAPI(t), mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

	res := a.GetAccount(context.Background(), "f8d6e0586b0a20c7")

	require.True(t, res.Success)
	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0xf8d6e0586b0a20c7", data["address"])
	assert.Equal(t, uint64(84_000_000), data["balance"])
	keys, ok := data["keys"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, keys, 1)
	assert.Equal(t, mocks.GenericSequence, keys[0]["sequence_number"])
}

func TestAdapter_GetTransaction(t *testing.T) {
	t.Parallel()

	t.Run("sealed transaction reads as success", func(t *testing.T) {
		t.Parallel()

		a := baselineAdapter(t, mocks.BaselineAPI(t), mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

		res := a.GetTransaction(context.Background(), "0x"+mocks.GenericIdentifier(1).Hex())

		assert.True(t, res.Success)
		assert.Equal(t, mocks.GenericIdentifier(1).Hex(), res.TransactionID)
	})

	t.Run("pending transaction reads as not yet successful", func(t *testing.T) {
		t.Parallel()

		api := mocks.BaselineAPI(t)
		api.GetTransactionResultFunc = func(context.Context, sdk.Identifier) (*sdk.TransactionResult, error) {
			return mocks.GenericResult(sdk.TransactionStatusPending), nil
		}
		a := baselineAdapter(t, api, mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

		res := a.GetTransaction(context.Background(), mocks.GenericIdentifier(1).Hex())

		assert.False(t, res.Success)
		assert.Empty(t, res.ErrorMessage)
	})

	t.Run("execution error reads as failure with message", func(t *testing.T) {
		t.Parallel()

		api := mocks.BaselineAPI(t)
		api.GetTransactionResultFunc = func(context.Context, sdk.Identifier) (*sdk.TransactionResult, error) {
			result := mocks.GenericResult(sdk.TransactionStatusSealed)
			result.Error = mocks.GenericError
			return result, nil
		}
		a := baselineAdapter(t, api, mocks.BaselineResolver(t), mocks.BaselineTransactor(t))

		res := a.GetTransaction(context.Background(), mocks.GenericIdentifier(1).Hex())

		assert.False(t, res.Success)
		assert.NotEmpty(t, res.ErrorMessage)
	})
}

func TestAdapter_CreateAccount(t *testing.T) {
	t.Parallel()

	t.Run("nominal case returns the new account and key pair", func(t *testing.T) {
		t.Parallel()

		created := mocks.GenericAddress(9)
		transact := mocks.BaselineTransactor(t)
		transact.ExecuteFunc = func(_ context.Context, _ []byte, args []cadence.Value, roles custody.RoleSet, _ map[string]string) (sdk.Identifier, *sdk.TransactionResult, error) {
			// The public key travels as a byte array and every role defaults
			// to the service account.
			require.Len(t, args, 1)
			assert.IsType(t, cadence.Array{}, args[0])
			assert.Equal(t, custody.RoleSet{}, roles)

			result := mocks.GenericResult(sdk.TransactionStatusSealed)
			result.Events = []sdk.Event{
				{
					Type:  sdk.EventAccountCreated,
					Value: cadence.NewEvent([]cadence.Value{cadence.BytesToAddress(created.Bytes())}),
				},
			}
			return mocks.GenericIdentifier(5), result, nil
		}
		a := baselineAdapter(t, mocks.BaselineAPI(t), mocks.BaselineResolver(t), transact)

		res := a.CreateAccount(context.Background())

		require.True(t, res.Success, res.ErrorMessage)
		assert.Equal(t, mocks.GenericIdentifier(5).Hex(), res.TransactionID)
		data, ok := res.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "0x"+created.Hex(), data["address"])
		assert.NotEmpty(t, data["private_key"])
		assert.NotEmpty(t, data["public_key"])
	})

	t.Run("missing creation event reads as failure with identifier", func(t *testing.T) {
		t.Parallel()

		transact := mocks.BaselineTransactor(t)
		transact.ExecuteFunc = func(context.Context, []byte, []cadence.Value, custody.RoleSet, map[string]string) (sdk.Identifier, *sdk.TransactionResult, error) {
			return mocks.GenericIdentifier(5), mocks.GenericResult(sdk.TransactionStatusSealed), nil
		}
		a := baselineAdapter(t, mocks.BaselineAPI(t), mocks.BaselineResolver(t), transact)

		res := a.CreateAccount(context.Background())

		assert.False(t, res.Success)
		assert.Equal(t, mocks.GenericIdentifier(5).Hex(), res.TransactionID)
	})
}

func TestAdapter_EndToEnd(t *testing.T) {
	t.Parallel()

	// Full pipeline with a real transactor and submitter: one sequence fetch,
	// one submission, one envelope signature when a single account fills
	// every role.
	var accountFetches, submissions int
	var captured sdk.Transaction

	api := mocks.BaselineAPI(t)
	api.GetAccountAtLatestBlockFunc = func(_ context.Context, address sdk.Address) (*sdk.Account, error) {
		accountFetches++
		return mocks.GenericOnChainAccount(address, mocks.GenericSequence), nil
	}
	api.SendTransactionFunc = func(_ context.Context, tx sdk.Transaction) error {
		submissions++
		captured = tx
		return nil
	}

	resolve := mocks.BaselineResolver(t)
	sub := submitter.New(mocks.NoopLogger, api,
		submitter.WithPollInterval(time.Millisecond),
		submitter.WithFinalityTimeout(time.Second),
	)
	transact := transactor.New(mocks.NoopLogger, api, resolve, sub)
	dir := writeSources(t)
	a, err := adapter.New(mocks.NoopLogger, api, resolve, transact,
		adapter.WithFlowDir(dir),
		adapter.WithWriteRate(1000),
	)
	require.NoError(t, err)

	res := a.SendTransaction(context.Background(), custody.TransactionCall{
		Path: "transfer.cdc",
		Args: []interface{}{"hello", "world"},
		Roles: custody.RoleSet{
			Proposer:    "svc",
			Payer:       "svc",
			Authorizers: []string{"svc"},
		},
	})

	require.True(t, res.Success, res.ErrorMessage)
	assert.NotEmpty(t, res.TransactionID)
	assert.Equal(t, 1, accountFetches)
	assert.Equal(t, 1, submissions)
	assert.Len(t, captured.EnvelopeSignatures, 1)
	assert.Equal(t, mocks.GenericSequence, captured.ProposalKey.SequenceNumber)
	assert.Len(t, captured.Arguments, 2)
}
