package custody_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	sdk "github.com/onflow/flow-go-sdk"

	"github.com/agfarms/flow-custodian/models/custody"
)

func testAccount(index int, keyIndex int) custody.Account {
	var bytes [8]byte
	binary.BigEndian.PutUint64(bytes[:], 0xf8d6e0586b0a20c7+uint64(index))
	return custody.Account{
		Address:  sdk.BytesToAddress(bytes[:]),
		KeyIndex: keyIndex,
	}
}

func TestRoles_Signers(t *testing.T) {
	t.Run("single account filling every role signs once", func(t *testing.T) {
		t.Parallel()

		account := testAccount(0, 0)
		roles := custody.Roles{
			Proposer:    account,
			Payer:       account,
			Authorizers: []custody.Account{account},
		}

		signers := roles.Signers()

		assert.Len(t, signers, 1)
		assert.Equal(t, account.Address, signers[0].Address)
	})

	t.Run("authorizers sign first, payer signs last", func(t *testing.T) {
		t.Parallel()

		proposer := testAccount(0, 0)
		authorizer := testAccount(1, 0)
		payer := testAccount(2, 0)
		roles := custody.Roles{
			Proposer:    proposer,
			Payer:       payer,
			Authorizers: []custody.Account{authorizer, proposer},
		}

		signers := roles.Signers()

		assert.Len(t, signers, 3)
		assert.Equal(t, authorizer.Address, signers[0].Address)
		assert.Equal(t, proposer.Address, signers[1].Address)
		assert.Equal(t, payer.Address, signers[2].Address)
	})

	t.Run("same address with different key index signs twice", func(t *testing.T) {
		t.Parallel()

		proposer := testAccount(0, 0)
		payer := testAccount(0, 1)
		roles := custody.Roles{
			Proposer:    proposer,
			Payer:       payer,
			Authorizers: []custody.Account{proposer},
		}

		signers := roles.Signers()

		assert.Len(t, signers, 2)
		assert.Equal(t, 0, signers[0].KeyIndex)
		assert.Equal(t, 1, signers[1].KeyIndex)
	})
}
