package mocks

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	sdk "github.com/onflow/flow-go-sdk"
	"github.com/onflow/flow-go-sdk/crypto"

	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/service/signer"
)

// Global variables that can be used for testing. They are non-nil valid
// values for the types commonly needed by custody components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	// GenericKeyHex is a valid P-256/secp256k1 private key scalar.
	GenericKeyHex = "1a4e7984a4d801a1f26d9a5a4f240ed2f533e5a40401c0b10c07048895c9b046"

	GenericSequence = uint64(42)
)

// GenericAddress returns a distinct valid-looking Flow address for the given
// index.
func GenericAddress(index int) sdk.Address {
	var bytes [8]byte
	binary.BigEndian.PutUint64(bytes[:], 0xf8d6e0586b0a20c7+uint64(index))
	return sdk.BytesToAddress(bytes[:])
}

// GenericIdentifier returns a distinct identifier for the given index.
func GenericIdentifier(index int) sdk.Identifier {
	var id sdk.Identifier
	id[0] = byte(index) + 1
	id[31] = 0x2a
	return id
}

// GenericBlock returns a sealed block usable as a reference block.
func GenericBlock() *sdk.Block {
	return &sdk.Block{
		BlockHeader: sdk.BlockHeader{
			ID:     GenericIdentifier(0),
			Height: 425,
		},
	}
}

// GenericOnChainAccount returns an on-chain account with a single key at the
// given sequence number.
func GenericOnChainAccount(address sdk.Address, sequence uint64) *sdk.Account {
	return &sdk.Account{
		Address: address,
		Balance: 84_000_000,
		Keys: []*sdk.AccountKey{
			{
				Index:          0,
				SequenceNumber: sequence,
			},
		},
		Contracts: map[string][]byte{},
	}
}

// GenericSigner returns a working signer for GenericKeyHex.
func GenericSigner(t *testing.T) crypto.Signer {
	t.Helper()

	sign, err := signer.FromHex(GenericKeyHex, crypto.ECDSA_P256, crypto.SHA3_256)
	if err != nil {
		t.Fatalf("could not create generic signer: %v", err)
	}

	return sign
}

// GenericAccount returns a resolved signing account at the given address
// index.
func GenericAccount(t *testing.T, index int) custody.Account {
	t.Helper()

	return custody.Account{
		Address:  GenericAddress(index),
		KeyIndex: 0,
		SigAlgo:  crypto.ECDSA_P256,
		HashAlgo: crypto.SHA3_256,
		Signer:   GenericSigner(t),
	}
}

// GenericResult returns a transaction result with the given status.
func GenericResult(status sdk.TransactionStatus) *sdk.TransactionResult {
	return &sdk.TransactionResult{
		Status: status,
	}
}
