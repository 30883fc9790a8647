package otp

import (
	"crypto/rand"
	"fmt"

	"github.com/hidtoken/ykchalresp/protocol"
)

// Secret material sizes, re-exported for callers that only import this
// package.
const (
	// HMACKeySize is the HMAC-SHA1 secret size in bytes
	HMACKeySize = protocol.HMACSecretSize

	// AESKeySize is the OTP transform key size in bytes
	AESKeySize = protocol.AESKeySize
)

// HMACKey is a 20-byte HMAC-SHA1 secret. The zero value is unusable; build
// one with NewHMACKey or GenerateHMACKey.
type HMACKey struct {
	key [HMACKeySize]byte
}

// NewHMACKey copies a 20-byte secret into a key. The caller keeps
// ownership of the input slice and should wipe it when done.
//
// Returns protocol.ErrInvalidKeyLength for any other length; secrets are
// never padded or truncated.
func NewHMACKey(secret []byte) (*HMACKey, error) {
	if len(secret) != HMACKeySize {
		return nil, fmt.Errorf("HMAC key is %d bytes, need %d: %w",
			len(secret), HMACKeySize, protocol.ErrInvalidKeyLength)
	}
	k := &HMACKey{}
	copy(k.key[:], secret)
	return k, nil
}

// GenerateHMACKey creates a random key from crypto/rand.
func GenerateHMACKey() (*HMACKey, error) {
	k := &HMACKey{}
	if _, err := rand.Read(k.key[:]); err != nil {
		return nil, fmt.Errorf("generate HMAC key: %w", err)
	}
	return k, nil
}

// Bytes returns a copy of the secret, for handing it to the configuration
// builder. Wipe the copy after use.
func (k *HMACKey) Bytes() []byte {
	out := make([]byte, HMACKeySize)
	copy(out, k.key[:])
	return out
}

// Zero wipes the secret. The key must not be used afterwards.
func (k *HMACKey) Zero() {
	for i := range k.key {
		k.key[i] = 0
	}
}

// AESKey is a 16-byte key for the OTP transform.
type AESKey struct {
	key [AESKeySize]byte
}

// NewAESKey copies a 16-byte key. Returns protocol.ErrInvalidKeyLength for
// any other length.
func NewAESKey(secret []byte) (*AESKey, error) {
	if len(secret) != AESKeySize {
		return nil, fmt.Errorf("AES key is %d bytes, need %d: %w",
			len(secret), AESKeySize, protocol.ErrInvalidKeyLength)
	}
	k := &AESKey{}
	copy(k.key[:], secret)
	return k, nil
}

// GenerateAESKey creates a random key from crypto/rand.
func GenerateAESKey() (*AESKey, error) {
	k := &AESKey{}
	if _, err := rand.Read(k.key[:]); err != nil {
		return nil, fmt.Errorf("generate AES key: %w", err)
	}
	return k, nil
}

// Bytes returns a copy of the key, for handing it to the configuration
// builder. Wipe the copy after use.
func (k *AESKey) Bytes() []byte {
	out := make([]byte, AESKeySize)
	copy(out, k.key[:])
	return out
}

// Zero wipes the key. The key must not be used afterwards.
func (k *AESKey) Zero() {
	for i := range k.key {
		k.key[i] = 0
	}
}
