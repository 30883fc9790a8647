package protocol

import "errors"

// Sentinel errors returned by the wire layer. Callers match them with
// errors.Is; wrapping functions add context without hiding the sentinel.
var (
	// ErrInvalidArgument indicates a payload or challenge that exceeds a
	// protocol size limit. This is a programming error on the caller's
	// side; nothing is truncated silently.
	ErrInvalidArgument = errors.New("argument exceeds protocol size limit")

	// ErrChecksumMismatch indicates a frame or response whose checksum
	// does not validate. Such data must never be interpreted.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrInvalidKeyLength indicates secret material of the wrong size for
	// the selected mode. Secrets are never padded or truncated.
	ErrInvalidKeyLength = errors.New("invalid key length for mode")
)
