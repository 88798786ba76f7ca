package container

import (
	"bytes"
	"compress/gzip"
	"crypto/subtle"
	"encoding/binary"
	"io"

	"github.com/ironvault-project/ironvault/ironerr"
	"github.com/ironvault-project/ironvault/primitives"
)

// V1 layout (read-only; this module never writes it), all integers
// little-endian:
//
//	magic         26 bytes  "fortress1-scrypt-chacha20\x00"
//	log_n          1 byte
//	r              4 bytes
//	p              4 bytes
//	scrypt_salt   32 bytes
//	pbkdf2_salt   32 bytes
//	ciphertext     variable
//	hmac tag      32 bytes  HMAC-SHA256(k_hmac, ciphertext)
//	checksum      32 bytes  SHA-256 over every preceding byte
//
// master_key = scrypt(passphrase, scrypt_salt, params, dkLen=32)
// (k_chacha[32], n_chacha[8], k_hmac[32]) =
//
//	PBKDF2-HMAC-SHA256(master_key, pbkdf2_salt, iterations=1, dkLen=72)
//
// The legacy 8-byte ChaCha20 nonce occupies the last 8 bytes of the 12-byte
// IETF nonce this codebase's stream cipher expects; the first 4 bytes are
// zero.
// Once decrypted, ciphertext is gzip-compressed JSON (the pre-SIV payload
// encoding). Decode returns the raw decompressed bytes; unmarshaling into
// the object model is package store's job.

const (
	v1ScryptSaltSize = 32
	v1Pbkdf2SaltSize = 32
	v1HmacTagSize    = 32
	v1ChecksumSize   = 32
	v1DerivedSize    = 32 + 8 + 32 // k_chacha + n_chacha + k_hmac
	v1HeaderSize     = len(MagicV1) + scryptParamsSize + v1ScryptSaltSize + v1Pbkdf2SaltSize
)

func decodeV1(data []byte, passphrase []byte) ([]byte, error) {
	minSize := v1HeaderSize + v1HmacTagSize + v1ChecksumSize
	if len(data) < minSize {
		return nil, ironerr.New(ironerr.KindCorruption, "v1 container truncated")
	}

	checksumOffset := len(data) - v1ChecksumSize
	body, wantChecksum := data[:checksumOffset], data[checksumOffset:]
	gotChecksum := primitives.Sha256_256(body)
	if subtle.ConstantTimeCompare(gotChecksum, wantChecksum) != 1 {
		return nil, ironerr.New(ironerr.KindCorruption, "v1 checksum mismatch")
	}

	cursor := len(MagicV1)
	logN := body[cursor]
	cursor++
	r := binary.LittleEndian.Uint32(body[cursor : cursor+4])
	cursor += 4
	p := binary.LittleEndian.Uint32(body[cursor : cursor+4])
	cursor += 4
	scryptSalt := body[cursor : cursor+v1ScryptSaltSize]
	cursor += v1ScryptSaltSize
	pbkdf2Salt := body[cursor : cursor+v1Pbkdf2SaltSize]
	cursor += v1Pbkdf2SaltSize

	tagOffset := len(body) - v1HmacTagSize
	ciphertext, wantTag := body[cursor:tagOffset], body[tagOffset:]

	params := primitives.ScryptParams{LogN: logN, R: r, P: p}
	masterKey, err := primitives.Scrypt(passphrase, scryptSalt, params, 32)
	if err != nil {
		return nil, ironerr.Wrap(ironerr.KindCorruption, "v1 scrypt", err)
	}

	derived := primitives.Pbkdf2Sha256(masterKey, pbkdf2Salt, 1, v1DerivedSize)
	kChaCha := derived[:32]
	nChaCha := derived[32:40]
	kHmac := derived[40:72]

	gotTag := primitives.HmacSha256(kHmac, ciphertext)
	if subtle.ConstantTimeCompare(gotTag, wantTag) != 1 {
		return nil, ironerr.New(ironerr.KindWrongPassphrase, "v1 hmac tag mismatch")
	}

	ietfNonce := make([]byte, 4, primitives.ChaChaNonceSize)
	ietfNonce = append(ietfNonce, nChaCha...)
	compressed, err := primitives.ChaCha20(kChaCha, ietfNonce, ciphertext)
	if err != nil {
		return nil, ironerr.Wrap(ironerr.KindCorruption, "v1 chacha20", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, ironerr.Wrap(ironerr.KindCorruption, "v1 gzip header", err)
	}
	defer gz.Close()

	plaintext, err := io.ReadAll(gz)
	if err != nil {
		return nil, ironerr.Wrap(ironerr.KindCorruption, "v1 gzip body", err)
	}
	return plaintext, nil
}
