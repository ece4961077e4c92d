// Package signer turns raw private key material and a declared algorithm
// pair into a signing capability for transaction envelopes. The cryptographic
// primitives themselves are delegated to the Flow SDK; the only job here is
// correct selection of curve, hash and key.
package signer

import (
	"fmt"

	"github.com/onflow/flow-go-sdk/crypto"
)

// Algorithm pairs supported by the Flow network. Anything outside this closed
// set is rejected before a key is ever decoded.
var (
	supportedSigAlgos = map[crypto.SignatureAlgorithm]struct{}{
		crypto.ECDSA_P256:      {},
		crypto.ECDSA_secp256k1: {},
	}
	supportedHashAlgos = map[crypto.HashAlgorithm]struct{}{
		crypto.SHA2_256: {},
		crypto.SHA3_256: {},
	}
)

// FromHex wraps a hex-encoded private key scalar and its algorithm pair into
// a signer producing detached signatures over arbitrary payloads.
func FromHex(keyHex string, sigAlgo crypto.SignatureAlgorithm, hashAlgo crypto.HashAlgorithm) (crypto.Signer, error) {

	if _, ok := supportedSigAlgos[sigAlgo]; !ok {
		return nil, fmt.Errorf("unsupported signature algorithm (%s)", sigAlgo)
	}
	if _, ok := supportedHashAlgos[hashAlgo]; !ok {
		return nil, fmt.Errorf("unsupported hash algorithm (%s)", hashAlgo)
	}

	key, err := crypto.DecodePrivateKeyHex(sigAlgo, keyHex)
	if err != nil {
		return nil, fmt.Errorf("could not decode private key: %w", err)
	}

	sign, err := crypto.NewInMemorySigner(key, hashAlgo)
	if err != nil {
		return nil, fmt.Errorf("could not create in-memory signer: %w", err)
	}

	return sign, nil
}

// ParseSigAlgo maps an algorithm name from a registry document to the SDK
// constant, falling back to the given default when the name is empty.
func ParseSigAlgo(name string, fallback crypto.SignatureAlgorithm) (crypto.SignatureAlgorithm, error) {
	if name == "" {
		return fallback, nil
	}
	algo := crypto.StringToSignatureAlgorithm(name)
	if _, ok := supportedSigAlgos[algo]; !ok {
		return crypto.UnknownSignatureAlgorithm, fmt.Errorf("unsupported signature algorithm (%s)", name)
	}
	return algo, nil
}

// ParseHashAlgo maps a hash algorithm name from a registry document to the
// SDK constant, falling back to the given default when the name is empty.
func ParseHashAlgo(name string, fallback crypto.HashAlgorithm) (crypto.HashAlgorithm, error) {
	if name == "" {
		return fallback, nil
	}
	algo := crypto.StringToHashAlgorithm(name)
	if _, ok := supportedHashAlgos[algo]; !ok {
		return crypto.UnknownHashAlgorithm, fmt.Errorf("unsupported hash algorithm (%s)", name)
	}
	return algo, nil
}
