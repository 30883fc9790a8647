package otp

import (
	"crypto/aes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hidtoken/ykchalresp/protocol"
)

// TokenSize is the size of the OTP block: one AES-128 block.
const TokenSize = 16

// ErrCorruptToken indicates a decoded OTP block whose internal checksum
// does not validate. The token is corrupt or forged and must never be
// treated as authenticated.
var ErrCorruptToken = errors.New("corrupt OTP token")

// Token is the decoded one-time-password block. All multi-byte fields are
// little-endian on the wire:
//
//	[PRIVATE_ID(6)][USAGE_CTR(2)][TSTP_LO(2)][TSTP_HI(1)][SESSION_CTR(1)]
//	[RANDOM(2)][CRC(2)]
type Token struct {
	// PrivateID is the secret identity programmed into the slot
	PrivateID [6]byte

	// UsageCounter increments on each power-up, never repeats
	UsageCounter uint16

	// Timestamp is the 24-bit ~8 Hz timer since power-up
	Timestamp uint32

	// SessionCounter counts tokens generated this session
	SessionCounter uint8

	// Random is two bytes of device entropy
	Random uint16

	// CRC is the internal checksum over the preceding 14 bytes
	CRC uint16
}

// ParseToken decodes a plaintext 16-byte OTP block, validating the
// internal checksum. Returns ErrCorruptToken on mismatch; a corrupt block
// never yields a token structure.
func ParseToken(block []byte) (*Token, error) {
	if len(block) != TokenSize {
		return nil, fmt.Errorf("OTP block is %d bytes, need %d: %w",
			len(block), TokenSize, protocol.ErrInvalidArgument)
	}
	if !protocol.VerifyCRC16(block) {
		return nil, ErrCorruptToken
	}

	t := &Token{
		UsageCounter: binary.LittleEndian.Uint16(block[6:8]),
		Timestamp: uint32(binary.LittleEndian.Uint16(block[8:10])) |
			uint32(block[10])<<16,
		SessionCounter: block[11],
		Random:         binary.LittleEndian.Uint16(block[12:14]),
		CRC:            binary.LittleEndian.Uint16(block[14:16]),
	}
	copy(t.PrivateID[:], block[:6])
	return t, nil
}

// Marshal serializes the token, computing and embedding the internal
// checksum over the first 14 bytes. The result always passes ParseToken.
func (t *Token) Marshal() []byte {
	block := make([]byte, TokenSize)
	copy(block[:6], t.PrivateID[:])
	binary.LittleEndian.PutUint16(block[6:8], t.UsageCounter)
	binary.LittleEndian.PutUint16(block[8:10], uint16(t.Timestamp))
	block[10] = byte(t.Timestamp >> 16)
	block[11] = t.SessionCounter
	binary.LittleEndian.PutUint16(block[12:14], t.Random)
	binary.LittleEndian.PutUint16(block[14:16], ^protocol.CRC16(block[:14]))
	return block
}

// EncryptBlock runs one AES-128 block encryption. Plaintext must be
// exactly one block.
func (k *AESKey) EncryptBlock(plaintext []byte) ([]byte, error) {
	if len(plaintext) != TokenSize {
		return nil, fmt.Errorf("plaintext is %d bytes, need %d: %w",
			len(plaintext), TokenSize, protocol.ErrInvalidArgument)
	}
	cipher, err := aes.NewCipher(k.key[:])
	if err != nil {
		return nil, err
	}
	out := make([]byte, TokenSize)
	cipher.Encrypt(out, plaintext)
	return out, nil
}

// DecryptBlock is the inverse of EncryptBlock.
func (k *AESKey) DecryptBlock(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != TokenSize {
		return nil, fmt.Errorf("ciphertext is %d bytes, need %d: %w",
			len(ciphertext), TokenSize, protocol.ErrInvalidArgument)
	}
	cipher, err := aes.NewCipher(k.key[:])
	if err != nil {
		return nil, err
	}
	out := make([]byte, TokenSize)
	cipher.Decrypt(out, ciphertext)
	return out, nil
}

// DecryptToken decrypts a device OTP response and decodes it, validating
// the internal checksum. The usual path for interpreting an OTP-mode
// challenge response when the host holds the slot's AES key.
func (k *AESKey) DecryptToken(ciphertext []byte) (*Token, error) {
	plain, err := k.DecryptBlock(ciphertext)
	if err != nil {
		return nil, err
	}
	return ParseToken(plain)
}

// EncryptToken seals and encrypts a token, producing the 16-byte block a
// device with the same key and contents would emit.
func (k *AESKey) EncryptToken(t *Token) ([]byte, error) {
	return k.EncryptBlock(t.Marshal())
}
