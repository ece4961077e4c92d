package keycrypt_test

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/service/keycrypt"
)

const (
	masterHex = "a3f201d94be7c05812e6f3a9d07c4b16e8290d5f7a1c3864b2d90e17f5a6c438"
	otherHex  = "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"
	keyHex    = "1a4e7984a4d801a1f26d9a5a4f240ed2f533e5a40401c0b10c07048895c9b046"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := keycrypt.New(masterHex)
	assert.NoError(t, err)

	secret, err := hex.DecodeString(masterHex)
	require.NoError(t, err)
	_, err = keycrypt.New(base64.StdEncoding.EncodeToString(secret))
	assert.NoError(t, err)

	_, err = keycrypt.New("not hex, not base64")
	assert.Error(t, err)

	_, err = keycrypt.New("abcd")
	assert.Error(t, err)
}

func TestNew_MasterFormsAreEquivalent(t *testing.T) {
	t.Parallel()

	hexCrypt, err := keycrypt.New(masterHex)
	require.NoError(t, err)

	secret, err := hex.DecodeString(masterHex)
	require.NoError(t, err)
	base64Crypt, err := keycrypt.New(base64.StdEncoding.EncodeToString(secret))
	require.NoError(t, err)

	blob, err := hexCrypt.Encrypt(keyHex)
	require.NoError(t, err)

	plaintext, err := base64Crypt.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, keyHex, plaintext)
}

func TestCrypt_RoundTrip(t *testing.T) {
	t.Parallel()

	crypt, err := keycrypt.New(masterHex)
	require.NoError(t, err)

	blob, err := crypt.Encrypt(keyHex)
	require.NoError(t, err)

	// A blob must classify as encrypted so the record store knows to route
	// it through decryption.
	assert.Equal(t, custody.EncryptedKey(blob), custody.ClassifyKey(blob))

	plaintext, err := crypt.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, keyHex, plaintext)

	// Fresh salt and nonce make repeated encryptions distinct.
	again, err := crypt.Encrypt(keyHex)
	require.NoError(t, err)
	assert.NotEqual(t, blob, again)
}

func TestCrypt_Decrypt(t *testing.T) {
	t.Parallel()

	crypt, err := keycrypt.New(masterHex)
	require.NoError(t, err)
	blob, err := crypt.Encrypt(keyHex)
	require.NoError(t, err)

	t.Run("wrong master secret fails", func(t *testing.T) {
		t.Parallel()

		other, err := keycrypt.New(otherHex)
		require.NoError(t, err)

		_, err = other.Decrypt(blob)
		assert.Error(t, err)
	})

	t.Run("tampered blob fails", func(t *testing.T) {
		t.Parallel()

		raw, err := base64.StdEncoding.DecodeString(blob)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0x01
		tampered := base64.StdEncoding.EncodeToString(raw)

		_, err = crypt.Decrypt(tampered)
		assert.Error(t, err)
	})

	t.Run("truncated blob fails", func(t *testing.T) {
		t.Parallel()

		_, err := crypt.Decrypt("c2hvcnQ=")
		assert.Error(t, err)
	})
}

func TestCrypt_Rotate(t *testing.T) {
	t.Parallel()

	crypt, err := keycrypt.New(masterHex)
	require.NoError(t, err)
	next, err := keycrypt.New(otherHex)
	require.NoError(t, err)

	blob, err := crypt.Encrypt(keyHex)
	require.NoError(t, err)

	rotated, err := crypt.Rotate(blob, next)
	require.NoError(t, err)

	plaintext, err := next.Decrypt(rotated)
	require.NoError(t, err)
	assert.Equal(t, keyHex, plaintext)

	_, err = crypt.Decrypt(rotated)
	assert.Error(t, err)
}
