// Package keycrypt implements the at-rest encryption scheme for stored
// wallet keys: AES-256-GCM under a key derived from a master secret with
// PBKDF2-SHA256 and a per-blob salt. Blobs are base64 of
// salt || nonce || ciphertext.
package keycrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength  = 16
	nonceLength = 12
	keyLength   = 32
	iterations  = 100_000
)

// Crypt encrypts and decrypts wallet key material under a master secret.
type Crypt struct {
	master []byte
}

// New creates a crypt from a master secret given as a 64-character hex
// string or as base64. Both forms must decode to the same 32-byte secret;
// hex is tried first, since a hex secret can also be valid base64.
func New(master string) (*Crypt, error) {
	secret, err := hex.DecodeString(master)
	if err != nil || len(secret) != keyLength {
		secret, err = base64.StdEncoding.DecodeString(master)
		if err != nil {
			return nil, fmt.Errorf("could not decode master key (want hex or base64): %w", err)
		}
	}
	if len(secret) != keyLength {
		return nil, fmt.Errorf("invalid master key length (have: %d, want: %d)", len(secret), keyLength)
	}
	c := Crypt{master: secret}
	return &c, nil
}

// Encrypt encrypts hex-encoded plaintext key material into a blob.
func (c *Crypt) Encrypt(plaintextHex string) (string, error) {

	plaintext, err := hex.DecodeString(plaintextHex)
	if err != nil {
		return "", fmt.Errorf("could not decode plaintext hex: %w", err)
	}

	salt := make([]byte, saltLength)
	_, err = rand.Read(salt)
	if err != nil {
		return "", fmt.Errorf("could not generate salt: %w", err)
	}
	nonce := make([]byte, nonceLength)
	_, err = rand.Read(nonce)
	if err != nil {
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}

	aead, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	blob := make([]byte, 0, saltLength+nonceLength+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt decrypts a blob back into hex-encoded plaintext key material.
func (c *Crypt) Decrypt(blob string) (string, error) {

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("could not decode blob: %w", err)
	}
	if len(raw) < saltLength+nonceLength+16 {
		return "", fmt.Errorf("invalid blob length (have: %d)", len(raw))
	}

	salt := raw[:saltLength]
	nonce := raw[saltLength : saltLength+nonceLength]
	ciphertext := raw[saltLength+nonceLength:]

	aead, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("could not decrypt blob: %w", err)
	}

	return hex.EncodeToString(plaintext), nil
}

// Rotate re-encrypts a blob under the master secret of the given crypt,
// supporting master key rotation without ever exposing plaintext outside
// this package.
func (c *Crypt) Rotate(blob string, next *Crypt) (string, error) {
	plaintext, err := c.Decrypt(blob)
	if err != nil {
		return "", fmt.Errorf("could not decrypt blob for rotation: %w", err)
	}
	rotated, err := next.Encrypt(plaintext)
	if err != nil {
		return "", fmt.Errorf("could not re-encrypt blob: %w", err)
	}
	return rotated, nil
}

func (c *Crypt) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.master, salt, iterations, keyLength, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}
	return aead, nil
}
