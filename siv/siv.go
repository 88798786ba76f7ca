// Package siv implements the hand-rolled Synthetic-IV (SIV) deterministic
// authenticated encryption construction used for every encryption
// operation in ironvault: a keyed HMAC-SHA-512-256 MAC over (AAD,
// plaintext) reused as the nonce for a ChaCha20-based stream cipher.
//
// The construction is nonce-misuse-resistant by design (the caller never
// supplies a nonce) and deterministic: encrypting the same (keys, aad,
// plaintext) twice always yields the same (siv, ciphertext). This is what
// lets the sync engine (package sync) detect "these two replicas already
// agree on this object" by comparing SIVs alone, without decrypting.
//
// This is modeled on the S2V/SIV-AEAD family (see RFC 5297 and the
// stripe-archive/siv-go, Yawning/hs1siv reference constructions) but uses
// HMAC-SHA-512-256 as the PRF and ChaCha20 as the stream cipher rather than
// CMAC-AES, per spec §4.4.
package siv

import (
	"errors"
	"fmt"

	"github.com/ironvault-project/ironvault/primitives"
)

// KeySize is the size, in bytes, of each of the two keys in Keys.
const KeySize = 128

// SivSize is the size, in bytes, of a computed SIV value.
const SivSize = primitives.Hmac512_256Size

// Keys holds the two independent 128-byte keys used by the SIV
// construction: one for the MAC that produces the SIV, one for the stream
// cipher keyed by that SIV. This is spec's SivEncryptionKeys.
type Keys struct {
	SivKey    [KeySize]byte
	CipherKey [KeySize]byte
}

// ErrAuthenticationFailure is returned by Decrypt when the recomputed SIV
// does not match the one supplied by the caller — the ciphertext, SIV, or
// AAD was tampered with, or the wrong keys were used.
var ErrAuthenticationFailure = errors.New("siv: authentication failure")

// Encrypt computes the deterministic (siv, ciphertext) pair for aad and
// plaintext under keys, per spec §4.4:
//
//	siv        = HMAC-SHA-512-256(keys.SivKey, Encode(aad, plaintext))
//	ciphertext = Cipher(keys.CipherKey, siv, plaintext)
func Encrypt(keys Keys, aad, plaintext []byte) (sivOut [SivSize]byte, ciphertext []byte, err error) {
	sivOut = primitives.HmacSha512Truncated256(keys.SivKey[:], Encode(aad, plaintext))

	ciphertext, err = Cipher(keys.CipherKey[:], sivOut[:], plaintext)
	if err != nil {
		return [SivSize]byte{}, nil, fmt.Errorf("siv: encrypt: %w", err)
	}
	return sivOut, ciphertext, nil
}

// Decrypt recovers plaintext from (siv, ciphertext) under keys, verifying
// that the recomputed SIV over (aad, plaintext) matches the supplied siv.
// It returns ErrAuthenticationFailure itself, unwrapped, if the check
// fails — the caller must not use the returned plaintext in that case (it
// is nil).
func Decrypt(keys Keys, sivIn [SivSize]byte, aad, ciphertext []byte) ([]byte, error) {
	plaintext, err := Cipher(keys.CipherKey[:], sivIn[:], ciphertext)
	if err != nil {
		return nil, fmt.Errorf("siv: decrypt: %w", err)
	}

	expected := primitives.HmacSha512Truncated256(keys.SivKey[:], Encode(aad, plaintext))
	if !primitives.ConstantTimeCompare(sivIn[:], expected[:]) {
		primitives.Zero(plaintext)
		return nil, ErrAuthenticationFailure
	}
	return plaintext, nil
}
