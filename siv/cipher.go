package siv

import (
	"fmt"

	"github.com/ironvault-project/ironvault/primitives"
)

// CipherKeySize is the size of the 128-byte key consumed by Cipher.
const CipherKeySize = 128

// Cipher implements the IND$ stream cipher from spec §4.3:
//
//	Cipher(key: 128, nonce: 32, data) = ChaCha20(chacha_key, chacha_nonce[:12], data)
//
// where (chacha_key:32, chacha_nonce:32) = HMAC-SHA-512(key, nonce), split at
// 32 bytes. Only the first 12 bytes of chacha_nonce are used, since ChaCha20
// takes a 96-bit nonce. The same function both encrypts and decrypts: it is
// a pure keystream XOR with no authentication of its own — authentication
// is provided by the SIV construction in siv.go.
func Cipher(key []byte, nonce []byte, data []byte) ([]byte, error) {
	if len(key) != CipherKeySize {
		return nil, fmt.Errorf("siv: cipher key must be %d bytes, got %d", CipherKeySize, len(key))
	}
	if len(nonce) != 32 {
		return nil, fmt.Errorf("siv: cipher nonce must be 32 bytes, got %d", len(nonce))
	}

	derived := primitives.HmacSha512(key, nonce)
	chachaKey := derived[:32]
	chachaNonce := derived[32:64]

	return primitives.ChaCha20(chachaKey, chachaNonce[:primitives.ChaChaNonceSize], data)
}
