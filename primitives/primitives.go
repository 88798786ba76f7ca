// Package primitives pins the exact cryptographic bindings the rest of
// ironvault builds on: SHA-512, HMAC-SHA-512, a truncated HMAC-SHA-512-256,
// ChaCha20, scrypt, PBKDF2-HMAC-SHA256, and constant-time comparison.
//
// Nothing here is a general-purpose crypto toolkit. Each function has one
// fixed contract so the SIV construction in package siv and the container
// format in package container stay reproducible byte-for-byte across
// implementations.
package primitives

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Sha512Size and Hmac512_256Size are the output lengths of the two hash
// primitives used throughout the container and SIV layers.
const (
	Sha512Size      = sha512.Size    // 64
	Hmac512_256Size = sha256.Size    // 32, HMAC-SHA-512 truncated
	ChaChaKeySize   = chacha20.KeySize
	ChaChaNonceSize = chacha20.NonceSize // 12 bytes, the "96-bit nonce"
)

// Sha512 returns the SHA-512 digest of data.
func Sha512(data []byte) [Sha512Size]byte {
	return sha512.Sum512(data)
}

// HmacSha512 computes HMAC-SHA-512(key, data), returning all 64 bytes.
func HmacSha512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// HmacSha512Truncated256 computes HMAC-SHA-512(key, data) and returns the
// leading 32 bytes. This is NOT the FIPS HMAC-SHA-512/256 construction,
// which uses distinct initialization constants; it is a plain truncation
// of the full HMAC-SHA-512 output, as required by spec §4.1.
func HmacSha512Truncated256(key, data []byte) [Hmac512_256Size]byte {
	full := HmacSha512(key, data)
	var out [Hmac512_256Size]byte
	copy(out[:], full[:Hmac512_256Size])
	return out
}

// ChaCha20 XORs data with the ChaCha20 keystream under key/nonce. The same
// function encrypts and decrypts: it is a pure keystream XOR with no
// authentication of its own.
func ChaCha20(key []byte, nonce []byte, data []byte) ([]byte, error) {
	if len(key) != ChaChaKeySize {
		return nil, fmt.Errorf("primitives: chacha20 key must be %d bytes, got %d", ChaChaKeySize, len(key))
	}
	if len(nonce) != ChaChaNonceSize {
		return nil, fmt.Errorf("primitives: chacha20 nonce must be %d bytes, got %d", ChaChaNonceSize, len(nonce))
	}
	cipher, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, fmt.Errorf("primitives: init chacha20: %w", err)
	}
	out := make([]byte, len(data))
	cipher.XORKeyStream(out, data)
	return out, nil
}

// ScryptParams are the tunable cost parameters for scrypt, stored
// log2(N) rather than N so they fit in a single byte on disk.
type ScryptParams struct {
	LogN uint8
	R    uint32
	P    uint32
}

// Scrypt derives dkLen bytes from password/salt under the given cost
// parameters.
func Scrypt(password, salt []byte, params ScryptParams, dkLen int) ([]byte, error) {
	n := uint64(1) << params.LogN
	return scrypt.Key(password, salt, int(n), int(params.R), int(params.P), dkLen)
}

// Pbkdf2Sha256 derives dkLen bytes via PBKDF2-HMAC-SHA256. Used only by the
// legacy V1 container reader (§4.6).
func Pbkdf2Sha256(password, salt []byte, iterations, dkLen int) []byte {
	return pbkdf2.Key(password, salt, iterations, dkLen, sha256.New)
}

// HmacSha256 computes HMAC-SHA256(key, data). Used only by the legacy V1
// container reader.
func HmacSha256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// Sha256_256 returns the SHA-256 digest. Used only as the V1 container's
// trailing checksum.
func Sha256_256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Sha512_256 returns the leading-32-bytes-of-SHA-512 checksum used by the
// V2 container trailer. This is distinct from the standard SHA-512/256
// algorithm (which has its own IV); it is simply truncated SHA-512, to
// match the container's use of the same truncation convention as
// HmacSha512Truncated256.
func Sha512_256(data []byte) [32]byte {
	full := sha512.Sum512(data)
	var out [32]byte
	copy(out[:], full[:32])
	return out
}

// ConstantTimeCompare reports whether a and b are byte-for-byte equal,
// taking time independent of where they first differ.
func ConstantTimeCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zero overwrites b with zero bytes in place. Used to scrub passphrases and
// derived key material once they are no longer needed (spec §5).
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
