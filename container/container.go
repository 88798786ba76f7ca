// Package container implements ironvault's on-disk file format: the V2
// header/body/checksum layout (spec §4.6), plus a read-only V1 legacy
// decoder so older files keep opening. Encode/Decode operate purely on
// in-memory byte slices — atomic file replacement is the caller's
// responsibility (package store), keeping the container format decoupled
// from storage I/O (generalized from the teacher's config/loader.go
// file-fallback style).
package container

import (
	"bytes"
	"fmt"

	"github.com/ironvault-project/ironvault/ironerr"
	"github.com/ironvault-project/ironvault/kdf"
	"github.com/ironvault-project/ironvault/primitives"
	"github.com/ironvault-project/ironvault/siv"
)

// MagicV2 is the NUL-terminated ASCII magic prefix of a V2 container
// (spec §4.6's exact byte layout — not renamed for this product, since
// changing it would break interop with the pinned wire format).
const MagicV2 = "fortress2\x00"

// MagicV1 is the NUL-terminated ASCII magic prefix of the legacy V1
// container this module still reads (spec §4.6: "a reader MUST accept
// the V1 header \"fortress1-scrypt-chacha20\\0\""). Real V1 files on
// disk carry this exact magic; renaming it here would make every
// existing V1 file unreadable.
const MagicV1 = "fortress1-scrypt-chacha20\x00"

// ChecksumSize is the size, in bytes, of the V2 trailing checksum.
const ChecksumSize = 32

// ScryptSaltSize is the size, in bytes, of the on-disk scrypt salt field.
const ScryptSaltSize = 32

// Decoded is the result of successfully opening a container of either
// version.
type Decoded struct {
	Payload []byte
	// Migrated is true when the container was read as legacy V1; the
	// caller (package store) should re-save as V2 on next write (spec
	// §4.6, §9: V1 reading is supported, V1 writing is not).
	Migrated bool
	// ScryptSalt and ScryptParams are the on-disk V2 header fields, so the
	// caller can reuse them on the next save instead of rotating the salt
	// on every write (only a passphrase change should do that). Both are
	// the zero value when Migrated is true, since a V1 file carries no V2
	// header to reuse.
	ScryptSalt   [ScryptSaltSize]byte
	ScryptParams primitives.ScryptParams
}

// Decode auto-detects the container version by magic prefix and decodes
// payload accordingly, returning a typed ironerr.Error on any failure
// (WrongPassphrase, Corruption, or UnsupportedVersion).
func Decode(data []byte, passphrase []byte) (*Decoded, error) {
	switch {
	case bytes.HasPrefix(data, []byte(MagicV2)):
		payload, salt, params, err := decodeV2(data, passphrase)
		if err != nil {
			return nil, err
		}
		return &Decoded{Payload: payload, ScryptSalt: salt, ScryptParams: params}, nil
	case bytes.HasPrefix(data, []byte(MagicV1)):
		payload, err := decodeV1(data, passphrase)
		if err != nil {
			return nil, err
		}
		return &Decoded{Payload: payload, Migrated: true}, nil
	case bytes.HasPrefix(data, []byte("fortress")):
		// The magic family both versions share, followed by a version this
		// reader does not handle.
		return nil, ironerr.New(ironerr.KindUnsupportedVersion, "unsupported container version")
	default:
		return nil, ironerr.New(ironerr.KindCorruption, "unrecognized container magic")
	}
}

// Encode always writes the current (V2) format (spec §9: V1 writing is
// not required). scryptSalt should be freshly generated only when the
// passphrase changes; callers that want to keep re-using the existing
// on-disk salt across saves must pass it back in explicitly.
func Encode(payload []byte, passphrase []byte, scryptSalt [ScryptSaltSize]byte, params primitives.ScryptParams) ([]byte, error) {
	return encodeV2(payload, passphrase, scryptSalt, params)
}

func deriveMasterKeys(passphrase []byte, scryptSalt []byte, params primitives.ScryptParams) (siv.Keys, error) {
	keys, err := kdf.DeriveMasterKey(passphrase, scryptSalt, params)
	if err != nil {
		return siv.Keys{}, fmt.Errorf("container: derive master key: %w", err)
	}
	return keys, nil
}
