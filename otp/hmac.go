package otp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"fmt"

	"github.com/hidtoken/ykchalresp/protocol"
)

// DigestSize is the HMAC-SHA1 digest size, which is also the size of a
// device HMAC response.
const DigestSize = sha1.Size

// Calculate computes the HMAC-SHA1 transform over a challenge of at most
// 64 bytes, mirroring what a slot configured with the same secret
// computes. Deterministic: the same key and challenge always yield the
// same digest.
//
// Returns protocol.ErrInvalidArgument if the challenge exceeds the
// protocol's maximum challenge size.
func (k *HMACKey) Calculate(challenge []byte) ([]byte, error) {
	if len(challenge) > protocol.MaxChallengeSize {
		return nil, fmt.Errorf("challenge is %d bytes, maximum is %d: %w",
			len(challenge), protocol.MaxChallengeSize, protocol.ErrInvalidArgument)
	}

	mac := hmac.New(sha1.New, k.key[:])
	mac.Write(challenge)
	return mac.Sum(nil), nil
}

// Verify reports whether a device response matches the host-side transform
// of the challenge. Comparison is constant-time.
func (k *HMACKey) Verify(challenge, response []byte) (bool, error) {
	expected, err := k.Calculate(challenge)
	if err != nil {
		return false, err
	}
	if len(response) != DigestSize {
		return false, nil
	}
	return subtle.ConstantTimeCompare(expected, response) == 1, nil
}
