package protocol

import (
	"encoding/binary"
	"fmt"
)

// SlotConfig is the configuration record written into a device slot by a
// programming command. The record is ConfigSize bytes with fixed offsets:
//
//	[FIXED(16)][UID(6)][KEY(16)][ACC_CODE(6)][FIXED_SIZE(1)]
//	[EXT_FLAGS(1)][TKT_FLAGS(1)][CFG_FLAGS(1)][RFU(2)][CRC_L][CRC_H]
//
// The CRC field is the ones' complement of CRC16 over the preceding 50
// bytes, so the record as a whole validates against CRCResidualOK.
//
// A SlotConfig holds secret material. Call Zero once the record has been
// written to the device; the session layer does this automatically.
type SlotConfig struct {
	mode Mode

	fixed     [ConfigFixedSize]byte
	uid       [ConfigUIDSize]byte
	key       [ConfigKeySize]byte
	accCode   [ConfigAccCodeSize]byte
	fixedSize byte
	extFlags  byte
	tktFlags  byte
	cfgFlags  byte
}

// ConfigOption adjusts the behavior flags of a slot configuration.
type ConfigOption func(*SlotConfig)

// WithRequireTouch makes the slot demand a physical touch before it
// computes a response.
func WithRequireTouch() ConfigOption {
	return func(c *SlotConfig) {
		c.cfgFlags |= CfgChalBtnTrig
	}
}

// WithFixedChallenge makes an HMAC slot hash the full 64-byte zero-padded
// payload instead of scanning for the challenge length. By default HMAC
// slots accept variable-length challenges.
func WithFixedChallenge() ConfigOption {
	return func(c *SlotConfig) {
		if c.mode == ModeHMACSHA1 {
			c.cfgFlags &^= CfgHMACLt64
		}
	}
}

// WithPacing10ms inserts a fixed ten-millisecond minimum delay into the
// response, emulating human-speed OTP typing. Only meaningful for OTP-mode
// slots; on HMAC slots the same bit position selects variable-length
// challenges, so the option is ignored there.
func WithPacing10ms() ConfigOption {
	return func(c *SlotConfig) {
		if c.mode == ModeOTP {
			c.cfgFlags |= CfgPacing10ms
		}
	}
}

// WithAppendCR appends a carriage return to keyboard-mode output.
func WithAppendCR() ConfigOption {
	return func(c *SlotConfig) {
		c.tktFlags |= TktAppendCR
	}
}

// WithSerialAPIVisible allows the serial number to be read over the slot
// protocol.
func WithSerialAPIVisible() ConfigOption {
	return func(c *SlotConfig) {
		c.extFlags |= ExtSerialAPIVisible
	}
}

// WithAccessCode protects the slot with a 6-byte access code. Subsequent
// reprogramming must present the same code. A code of the wrong length is
// ignored rather than truncated; validate before calling if in doubt.
func WithAccessCode(code []byte) ConfigOption {
	return func(c *SlotConfig) {
		if len(code) == ConfigAccCodeSize {
			copy(c.accCode[:], code)
		}
	}
}

// NewHMACConfig assembles a challenge-response configuration for the
// HMAC-SHA1 transform. The secret must be exactly HMACSecretSize bytes;
// the record stores its first 16 bytes in the key field and the remaining
// 4 in the private-id field. Variable-length challenges are accepted
// unless WithFixedChallenge is given.
//
// The secret is copied; the caller keeps ownership of its slice and should
// wipe it when done.
func NewHMACConfig(secret []byte, opts ...ConfigOption) (*SlotConfig, error) {
	if len(secret) != HMACSecretSize {
		return nil, fmt.Errorf("HMAC secret is %d bytes, need %d: %w",
			len(secret), HMACSecretSize, ErrInvalidKeyLength)
	}

	c := &SlotConfig{
		mode:     ModeHMACSHA1,
		tktFlags: TktChalResp,
		cfgFlags: CfgChalHMAC | CfgHMACLt64,
	}
	copy(c.key[:], secret[:ConfigKeySize])
	copy(c.uid[:HMACSecretSize-ConfigKeySize], secret[ConfigKeySize:])

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewOTPConfig assembles a challenge-response configuration for the AES
// OTP transform. The key must be exactly AESKeySize bytes and the private
// id exactly ConfigUIDSize bytes.
//
// Both inputs are copied; the caller keeps ownership of its slices.
func NewOTPConfig(key, privateID []byte, opts ...ConfigOption) (*SlotConfig, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("AES key is %d bytes, need %d: %w",
			len(key), AESKeySize, ErrInvalidKeyLength)
	}
	if len(privateID) != ConfigUIDSize {
		return nil, fmt.Errorf("private id is %d bytes, need %d: %w",
			len(privateID), ConfigUIDSize, ErrInvalidKeyLength)
	}

	c := &SlotConfig{
		mode:     ModeOTP,
		tktFlags: TktChalResp,
		cfgFlags: CfgChalYubico,
	}
	copy(c.key[:], key)
	copy(c.uid[:], privateID)

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Mode returns the transform the slot is being configured for.
func (c *SlotConfig) Mode() Mode { return c.mode }

// Marshal serializes the record to its ConfigSize on-wire form. The
// serialization is deterministic: identical logical configuration always
// yields identical bytes.
func (c *SlotConfig) Marshal() []byte {
	buf := make([]byte, ConfigSize)
	copy(buf[0:16], c.fixed[:])
	copy(buf[16:22], c.uid[:])
	copy(buf[22:38], c.key[:])
	copy(buf[38:44], c.accCode[:])
	buf[44] = c.fixedSize
	buf[45] = c.extFlags
	buf[46] = c.tktFlags
	buf[47] = c.cfgFlags
	// buf[48:50] reserved, zero.

	crc := ^CRC16(buf[:configCRCOffset])
	binary.LittleEndian.PutUint16(buf[configCRCOffset:], crc)
	return buf
}

// Zero wipes the secret material held by the record. The record must not
// be marshaled again afterwards.
func (c *SlotConfig) Zero() {
	for i := range c.key {
		c.key[i] = 0
	}
	for i := range c.uid {
		c.uid[i] = 0
	}
	for i := range c.accCode {
		c.accCode[i] = 0
	}
}
