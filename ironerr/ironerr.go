// Package ironerr defines the typed error kinds ironvault surfaces to its
// callers (spec §7), following the teacher's flat
// `var (Err... = errors.New(...))` sentinel style (see crypto/types.go)
// plus fmt.Errorf("...: %w", err) wrapping at call boundaries (see
// did/types.go).
package ironerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories from spec §7.
type Kind string

const (
	// KindWrongPassphrase: SIV authentication failed on open with the
	// supplied passphrase. Non-fatal.
	KindWrongPassphrase Kind = "wrong_passphrase"

	// KindCorruption: container checksum mismatch, truncated file,
	// unknown magic, or malformed serialized payload. Non-fatal; advises
	// restore from backup.
	KindCorruption Kind = "corruption"

	// KindUnsupportedVersion: header magic recognized but version not
	// handled.
	KindUnsupportedVersion Kind = "unsupported_version"

	// KindInvalidInput: bad URL, empty character set, length out of
	// range, malformed Id hex, or an unknown object referenced by a
	// directory event during strict validation.
	KindInvalidInput Kind = "invalid_input"

	// KindTransportFailure: network call failed; sync is retryable.
	KindTransportFailure Kind = "transport_failure"

	// KindServerRejected: server returned an authentication/authorization
	// error.
	KindServerRejected Kind = "server_rejected"
)

// Error is a typed ironvault error: a Kind plus a human-readable message
// and optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error of the given kind, wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is an *Error of the given kind, looking through
// wrapped errors via errors.As.
func Is(err error, kind Kind) bool {
	var ie *Error
	if !errors.As(err, &ie) {
		return false
	}
	return ie.Kind == kind
}
