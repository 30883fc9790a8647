package protocol

// Frame structure constants.
const (
	// PayloadSize is the fixed command payload region size in bytes
	PayloadSize = 64

	// FrameSize is the total on-wire frame size in bytes:
	// PAYLOAD(64) + COMMAND(1) + CRC(2) + RESERVED(3)
	FrameSize = 70

	// frameReservedSize is the reserved zero padding at the end of a frame
	frameReservedSize = 3
)

// Command is the command/slot selector byte carried by every frame.
// The command value determines how the device firmware interprets the
// 64-byte payload.
type Command byte

// Command codes per the token slot protocol.
const (
	// CmdConfigure1 programs slot 1 with a new configuration record
	CmdConfigure1 Command = 0x01

	// CmdConfigure2 programs slot 2 with a new configuration record
	CmdConfigure2 Command = 0x03

	// CmdUpdate1 updates updatable flags of slot 1
	CmdUpdate1 Command = 0x04

	// CmdUpdate2 updates updatable flags of slot 2
	CmdUpdate2 Command = 0x05

	// CmdSwap exchanges the contents of slot 1 and slot 2
	CmdSwap Command = 0x06

	// CmdDeviceSerial reads the device serial number
	CmdDeviceSerial Command = 0x10

	// CmdDeviceConfig addresses the device-wide configuration
	CmdDeviceConfig Command = 0x11

	// CmdReadConfig1 reads the configuration state of slot 1
	CmdReadConfig1 Command = 0x1C

	// CmdReadConfig2 reads the configuration state of slot 2
	CmdReadConfig2 Command = 0x1D

	// CmdChallengeOTP1 issues an OTP-mode challenge to slot 1
	CmdChallengeOTP1 Command = 0x20

	// CmdChallengeOTP2 issues an OTP-mode challenge to slot 2
	CmdChallengeOTP2 Command = 0x28

	// CmdChallengeHMAC1 issues an HMAC-SHA1 challenge to slot 1
	CmdChallengeHMAC1 Command = 0x30

	// CmdChallengeHMAC2 issues an HMAC-SHA1 challenge to slot 2
	CmdChallengeHMAC2 Command = 0x38
)

// Slot identifies one of the two independent configuration slots.
type Slot int

const (
	// Slot1 is the first configuration slot (short button press)
	Slot1 Slot = 1

	// Slot2 is the second configuration slot (long button press)
	Slot2 Slot = 2
)

// SlotFromInt parses a slot number. Returns false if the number does not
// name a slot.
func SlotFromInt(n int) (Slot, bool) {
	switch n {
	case 1:
		return Slot1, true
	case 2:
		return Slot2, true
	}
	return 0, false
}

// ConfigureCommand returns the programming command addressing the slot.
func ConfigureCommand(slot Slot) Command {
	if slot == Slot1 {
		return CmdConfigure1
	}
	return CmdConfigure2
}

// UpdateCommand returns the flag-update command addressing the slot.
func UpdateCommand(slot Slot) Command {
	if slot == Slot1 {
		return CmdUpdate1
	}
	return CmdUpdate2
}

// Mode selects which cryptographic transform a slot performs.
type Mode int

const (
	// ModeHMACSHA1 configures a slot for keyed-hash challenge-response
	ModeHMACSHA1 Mode = iota

	// ModeOTP configures a slot for AES OTP challenge-response
	ModeOTP
)

// ChallengeCommand returns the challenge command for a slot and mode.
func ChallengeCommand(slot Slot, mode Mode) Command {
	if mode == ModeOTP {
		if slot == Slot1 {
			return CmdChallengeOTP1
		}
		return CmdChallengeOTP2
	}
	if slot == Slot1 {
		return CmdChallengeHMAC1
	}
	return CmdChallengeHMAC2
}

// Report flag byte values. The last byte of every 8-byte feature report
// carries these flags plus a 5-bit chunk sequence number.
const (
	// SlotWriteFlag is set while the device is busy consuming a write
	SlotWriteFlag = 0x80

	// RespPendingFlag is set while response chunks are available to read
	RespPendingFlag = 0x40

	// SequenceMask extracts the chunk sequence number from the flag byte
	SequenceMask = 0x1F

	// DummyReportFlags marks the write-reset report that rearms the
	// device after a response has been read out
	DummyReportFlags = 0x8F
)

// Challenge size limits.
const (
	// MaxChallengeSize is the largest HMAC-mode challenge (one payload)
	MaxChallengeSize = PayloadSize

	// OTPChallengeSize is the fixed OTP-mode challenge size
	OTPChallengeSize = 6
)

// Response sizes. Each response carries a trailing CRC validated against
// CRCResidualOK before the leading bytes are interpreted.
const (
	// HMACResponseSize is the digest portion of an HMAC response
	HMACResponseSize = 20

	// OTPResponseSize is the block portion of an OTP response
	OTPResponseSize = 16

	// SerialResponseSize is the serial number portion of a serial response
	SerialResponseSize = 4

	// MaxResponseSize bounds the raw response buffer gathered from the
	// device before interpretation
	MaxResponseSize = 36
)

// Configuration record layout. Byte offsets are fixed by the device
// firmware; see config.go for the serialization.
const (
	// ConfigFixedSize is the public (fixed) identity field size
	ConfigFixedSize = 16

	// ConfigUIDSize is the private identity field size
	ConfigUIDSize = 6

	// ConfigKeySize is the AES key field size
	ConfigKeySize = 16

	// ConfigAccCodeSize is the slot access code field size
	ConfigAccCodeSize = 6

	// ConfigSize is the full configuration record size including its CRC
	ConfigSize = 52

	// configCRCOffset is where the record CRC starts; the CRC covers
	// everything before it
	configCRCOffset = 50
)

// Ticket flag bits (tktFlags field of the configuration record).
const (
	// TktAppendCR appends a carriage return to keyboard-mode output
	TktAppendCR = 0x20

	// TktChalResp marks the slot as a challenge-response slot
	TktChalResp = 0x40

	// TktProtectCfg2 blocks unprotected writes to slot 2
	TktProtectCfg2 = 0x80
)

// Configuration flag bits (cfgFlags field). For challenge-response slots
// the firmware reinterprets the low OTP pacing bits, so several values
// coincide with keyboard-mode flags.
const (
	// CfgPacing10ms inserts a 10 ms pacing delay into keyboard output
	CfgPacing10ms = 0x04

	// CfgPacing20ms inserts a 20 ms pacing delay into keyboard output
	CfgPacing20ms = 0x08

	// CfgChalYubico selects the AES OTP challenge-response transform
	CfgChalYubico = 0x20

	// CfgChalHMAC selects the HMAC-SHA1 challenge-response transform
	CfgChalHMAC = 0x22

	// CfgHMACLt64 accepts variable-length (< 64 byte) HMAC challenges
	CfgHMACLt64 = 0x04

	// CfgChalBtnTrig requires a physical touch before responding
	CfgChalBtnTrig = 0x08
)

// Extended flag bits (extFlags field).
const (
	// ExtSerialBtnVisible emits the serial number at power-up on touch
	ExtSerialBtnVisible = 0x01

	// ExtSerialUSBVisible exposes the serial in the USB descriptor
	ExtSerialUSBVisible = 0x02

	// ExtSerialAPIVisible allows reading the serial over this protocol
	ExtSerialAPIVisible = 0x04
)

// Secret material sizes.
const (
	// HMACSecretSize is the HMAC-SHA1 secret size. The record stores it
	// split across the key field and the first four private-id bytes.
	HMACSecretSize = 20

	// AESKeySize is the OTP transform key size
	AESKeySize = 16
)
