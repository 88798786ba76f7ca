package primitives

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHmacSha512Truncated256IsPrefixOfFullHmac(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 16)
	data := []byte("hello world")

	full := HmacSha512(key, data)
	truncated := HmacSha512Truncated256(key, data)

	assert.Equal(t, full[:Hmac512_256Size], truncated[:])
}

func TestChaCha20EncryptDecryptRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, ChaChaKeySize)
	nonce := bytes.Repeat([]byte{0x02}, ChaChaNonceSize)
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	ciphertext, err := ChaCha20(key, nonce, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	recovered, err := ChaCha20(key, nonce, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)
}

func TestChaCha20RejectsBadSizes(t *testing.T) {
	_, err := ChaCha20(make([]byte, 16), make([]byte, ChaChaNonceSize), []byte("x"))
	assert.Error(t, err)

	_, err = ChaCha20(make([]byte, ChaChaKeySize), make([]byte, 4), []byte("x"))
	assert.Error(t, err)
}

func TestScryptDeterministic(t *testing.T) {
	params := ScryptParams{LogN: 10, R: 8, P: 1}
	a, err := Scrypt([]byte("passphrase"), []byte("salt"), params, 32)
	require.NoError(t, err)
	b, err := Scrypt([]byte("passphrase"), []byte("salt"), params, 32)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Scrypt([]byte("other"), []byte("salt"), params, 32)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestConstantTimeCompare(t *testing.T) {
	assert.True(t, ConstantTimeCompare([]byte("abc"), []byte("abc")))
	assert.False(t, ConstantTimeCompare([]byte("abc"), []byte("abd")))
	assert.False(t, ConstantTimeCompare([]byte("abc"), []byte("ab")))
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
}
