package custody

import (
	sdk "github.com/onflow/flow-go-sdk"
	"github.com/onflow/flow-go-sdk/crypto"
)

// Account is a fully resolved signing identity: an on-chain address, the
// index of the key used to sign, the algorithms that key was created with and
// a signer wrapping the private key material. The private key itself never
// leaves the signer.
type Account struct {
	Address  sdk.Address
	KeyIndex int
	SigAlgo  crypto.SignatureAlgorithm
	HashAlgo crypto.HashAlgorithm
	Signer   crypto.Signer
}

// Same returns true if the other account signs with the same on-chain key,
// meaning its signature would duplicate ours on an envelope.
func (a Account) Same(o Account) bool {
	return a.Address == o.Address && a.KeyIndex == o.KeyIndex
}

// RoleSet holds the symbolic values for the three signing roles of a
// transaction. A value can be empty (use the service account), a raw address,
// a configured account name or an opaque wallet identifier; the resolver
// decides which. An empty authorizer list defaults to the proposer.
type RoleSet struct {
	Proposer    string
	Payer       string
	Authorizers []string
}

// Roles is a RoleSet after resolution. The authorizer order is preserved from
// the role set, as it is part of the authorization contract of the script.
type Roles struct {
	Proposer    Account
	Payer       Account
	Authorizers []Account
}

// Signers returns the accounts that must sign the transaction envelope, in
// signing order: authorizers first in list order, then the proposer, then the
// payer last, with every duplicate (address, key index) pair dropped. Each
// distinct pair signs exactly once.
func (r Roles) Signers() []Account {
	candidates := make([]Account, 0, len(r.Authorizers)+2)
	candidates = append(candidates, r.Authorizers...)
	candidates = append(candidates, r.Proposer, r.Payer)

	type pair struct {
		address  sdk.Address
		keyIndex int
	}
	seen := make(map[pair]struct{}, len(candidates))
	signers := make([]Account, 0, len(candidates))
	for _, candidate := range candidates {
		p := pair{address: candidate.Address, keyIndex: candidate.KeyIndex}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		signers = append(signers, candidate)
	}

	return signers
}
