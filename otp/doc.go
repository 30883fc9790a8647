// Package otp implements the host-side cryptographic transforms of the
// token: the HMAC-SHA1 keyed hash and the AES-128 one-time-password block,
// including the internal CRC validation performed on decoded tokens.
//
// The transforms are stateless pure functions over fixed-size secrets. All
// counters and timestamps live on the physical device; the host uses this
// package to prepare configuration secrets, to verify device responses
// against a mirrored secret, and to decode OTP blocks when it holds the
// AES key.
//
// Key material is wrapped in value types (HMACKey, AESKey) whose Zero
// methods wipe the secret; callers are expected to release keys as soon as
// the operation that consumed them returns.
package otp
