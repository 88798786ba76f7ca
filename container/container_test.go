package container

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironvault-project/ironvault/ironerr"
	"github.com/ironvault-project/ironvault/primitives"
)

func testParams() primitives.ScryptParams {
	// Deliberately tiny so the test suite stays fast; production defaults
	// live in package store.
	return primitives.ScryptParams{LogN: 10, R: 8, P: 1}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var salt [ScryptSaltSize]byte
	copy(salt[:], []byte("0123456789abcdef0123456789abcde"))

	payload := []byte(`{"objects":[]}`)
	passphrase := []byte("correct horse battery staple")

	encoded, err := Encode(payload, passphrase, salt, testParams())
	require.NoError(t, err)

	decoded, err := Decode(encoded, passphrase)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded.Payload)
	assert.False(t, decoded.Migrated)
}

func TestDecodeWrongPassphrase(t *testing.T) {
	var salt [ScryptSaltSize]byte
	copy(salt[:], []byte("0123456789abcdef0123456789abcde"))

	encoded, err := Encode([]byte("secret"), []byte("right"), salt, testParams())
	require.NoError(t, err)

	_, err = Decode(encoded, []byte("wrong"))
	assert.True(t, ironerr.Is(err, ironerr.KindWrongPassphrase))
}

func TestDecodeDetectsCorruption(t *testing.T) {
	var salt [ScryptSaltSize]byte
	copy(salt[:], []byte("0123456789abcdef0123456789abcde"))

	encoded, err := Encode([]byte("secret"), []byte("pw"), salt, testParams())
	require.NoError(t, err)

	encoded[len(encoded)-1] ^= 0xFF

	_, err = Decode(encoded, []byte("pw"))
	assert.True(t, ironerr.Is(err, ironerr.KindCorruption))
}

func TestDecodeRejectsUnknownMagic(t *testing.T) {
	_, err := Decode([]byte("not-a-container-at-all"), []byte("pw"))
	assert.True(t, ironerr.Is(err, ironerr.KindCorruption))
}

func TestDecodeV1LegacyContainer(t *testing.T) {
	passphrase := []byte("legacy passphrase")
	params := testParams()

	scryptSalt := bytes.Repeat([]byte{0x11}, v1ScryptSaltSize)
	pbkdf2Salt := bytes.Repeat([]byte{0x22}, v1Pbkdf2SaltSize)

	masterKey, err := primitives.Scrypt(passphrase, scryptSalt, params, 32)
	require.NoError(t, err)
	derived := primitives.Pbkdf2Sha256(masterKey, pbkdf2Salt, 1, v1DerivedSize)
	kChaCha, nChaCha, kHmac := derived[:32], derived[32:40], derived[40:72]

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write([]byte(`{"objects":[]}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	ietfNonce := make([]byte, 4, primitives.ChaChaNonceSize)
	ietfNonce = append(ietfNonce, nChaCha...)
	ciphertext, err := primitives.ChaCha20(kChaCha, ietfNonce, buf.Bytes())
	require.NoError(t, err)

	tag := primitives.HmacSha256(kHmac, ciphertext)

	var header bytes.Buffer
	header.WriteString(MagicV1)
	header.WriteByte(params.LogN)
	writeU32LE(&header, params.R)
	writeU32LE(&header, params.P)
	header.Write(scryptSalt)
	header.Write(pbkdf2Salt)
	header.Write(ciphertext)
	header.Write(tag)
	checksum := primitives.Sha256_256(header.Bytes())
	header.Write(checksum)

	decoded, err := Decode(header.Bytes(), passphrase)
	require.NoError(t, err)
	assert.True(t, decoded.Migrated)
	assert.JSONEq(t, `{"objects":[]}`, string(decoded.Payload))
}

func writeU32LE(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 24))
}
