package container

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/ironvault-project/ironvault/ironerr"
	"github.com/ironvault-project/ironvault/primitives"
	"github.com/ironvault-project/ironvault/siv"
)

// V2 layout, all integers little-endian:
//
//	magic        10 bytes  "fortress2\x00"
//	log_n         1 byte
//	r             4 bytes
//	p             4 bytes
//	scrypt_salt  32 bytes
//	siv          32 bytes  (siv.SivSize)
//	payload       variable (ciphertext, same length as plaintext)
//	checksum     32 bytes  truncated-SHA-512 over every preceding byte
//
// SIV runs with empty AAD (spec §4.6); the header is authenticated only by
// the trailing checksum, which covers every preceding byte and guards
// against truncation/bit-rot independent of passphrase verification, so a
// damaged file is reported as corruption rather than (confusingly) a wrong
// passphrase.

const (
	scryptParamsSize = 1 + 4 + 4
	headerSizeV2     = len(MagicV2) + scryptParamsSize + ScryptSaltSize
)

func encodeHeaderV2(scryptSalt [ScryptSaltSize]byte, params primitives.ScryptParams) []byte {
	header := make([]byte, 0, headerSizeV2)
	header = append(header, MagicV2...)
	header = append(header, params.LogN)
	header = binary.LittleEndian.AppendUint32(header, params.R)
	header = binary.LittleEndian.AppendUint32(header, params.P)
	header = append(header, scryptSalt[:]...)
	return header
}

func encodeV2(payload []byte, passphrase []byte, scryptSalt [ScryptSaltSize]byte, params primitives.ScryptParams) ([]byte, error) {
	keys, err := deriveMasterKeys(passphrase, scryptSalt[:], params)
	if err != nil {
		return nil, err
	}

	header := encodeHeaderV2(scryptSalt, params)

	sivTag, ciphertext, err := siv.Encrypt(keys, nil, payload)
	if err != nil {
		return nil, ironerr.Wrap(ironerr.KindCorruption, "siv encrypt", err)
	}

	body := make([]byte, 0, len(header)+len(sivTag)+len(ciphertext)+ChecksumSize)
	body = append(body, header...)
	body = append(body, sivTag[:]...)
	body = append(body, ciphertext...)

	checksum := primitives.Sha512_256(body)
	body = append(body, checksum[:]...)

	return body, nil
}

func decodeV2(data []byte, passphrase []byte) ([]byte, [ScryptSaltSize]byte, primitives.ScryptParams, error) {
	var saltOut [ScryptSaltSize]byte
	minSize := headerSizeV2 + siv.SivSize + ChecksumSize
	if len(data) < minSize {
		return nil, saltOut, primitives.ScryptParams{}, ironerr.New(ironerr.KindCorruption, "container truncated")
	}

	checksumOffset := len(data) - ChecksumSize
	body, wantChecksum := data[:checksumOffset], data[checksumOffset:]
	gotChecksum := primitives.Sha512_256(body)
	if subtle.ConstantTimeCompare(gotChecksum[:], wantChecksum) != 1 {
		return nil, saltOut, primitives.ScryptParams{}, ironerr.New(ironerr.KindCorruption, "checksum mismatch")
	}

	cursor := len(MagicV2)
	logN := body[cursor]
	cursor++
	r := binary.LittleEndian.Uint32(body[cursor : cursor+4])
	cursor += 4
	p := binary.LittleEndian.Uint32(body[cursor : cursor+4])
	cursor += 4
	scryptSalt := body[cursor : cursor+ScryptSaltSize]
	cursor += ScryptSaltSize
	copy(saltOut[:], scryptSalt)

	var sivTag [siv.SivSize]byte
	copy(sivTag[:], body[cursor:cursor+siv.SivSize])
	cursor += siv.SivSize
	ciphertext := body[cursor:]

	params := primitives.ScryptParams{LogN: logN, R: r, P: p}
	keys, err := deriveMasterKeys(passphrase, scryptSalt, params)
	if err != nil {
		return nil, saltOut, params, ironerr.Wrap(ironerr.KindCorruption, "derive master key", err)
	}

	plaintext, err := siv.Decrypt(keys, sivTag, nil, ciphertext)
	if err != nil {
		return nil, saltOut, params, ironerr.Wrap(ironerr.KindWrongPassphrase, "siv decrypt", err)
	}
	return plaintext, saltOut, params, nil
}
