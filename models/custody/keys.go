package custody

import (
	"encoding/base64"
)

// Encrypted key blobs are base64(salt || nonce || ciphertext) with a 16-byte
// salt, a 12-byte nonce and at least one 16-byte GCM tag.
const minEncryptedLength = 16 + 12 + 16

// KeyMaterial is private key material as read from a storage backend. It is
// classified exactly once, at the storage boundary; the signing core only
// ever receives PlaintextKey values.
type KeyMaterial interface {
	isKeyMaterial()
}

// PlaintextKey is a hex-encoded private key scalar, ready for use.
type PlaintextKey string

// EncryptedKey is an encrypted blob that must pass through a decryptor
// before it can be used.
type EncryptedKey string

func (PlaintextKey) isKeyMaterial() {}
func (EncryptedKey) isKeyMaterial() {}

// ClassifyKey tags raw stored key material as plaintext or encrypted. A
// 64-character hex string is a plaintext P-256/secp256k1 scalar; a base64
// blob of sufficient length is an encrypted envelope; anything else is
// passed through as plaintext and left to fail key decoding downstream.
func ClassifyKey(raw string) KeyMaterial {
	if len(raw) == 64 && isHex(raw) {
		return PlaintextKey(raw)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err == nil && len(decoded) >= minEncryptedLength {
		return EncryptedKey(raw)
	}
	return PlaintextKey(raw)
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// WalletRecord is the resolved form of a stored wallet row: an address and
// plaintext key material. Decryption has already happened by the time a
// record leaves the store.
type WalletRecord struct {
	Address    string
	PrivateKey string
	PublicKey  string
}
