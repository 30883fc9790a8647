// Package protocol implements the YubiKey-class slot protocol wire layer.
//
// This package provides the frame codec, the CRC16 checksum unit, the slot
// configuration record, and the device status structure exchanged with the
// token over HID feature reports.
//
// # Frame Overview
//
// Every command travels in a single fixed-size frame:
//
//	[PAYLOAD(64)][COMMAND(1)][CRC_L][CRC_H][RESERVED(3)]
//
// Where:
//   - PAYLOAD = 64-byte command payload, zero-padded
//   - COMMAND = command/slot selector byte
//   - CRC = 16-bit CRC (little-endian) over PAYLOAD and COMMAND
//   - RESERVED = padding to the fixed 70-byte frame length, always zero
//
// The frame itself is transported as a sequence of 8-byte feature reports;
// chunking and sequencing belong to the session package, not to this one.
//
// # Frame Codec
//
// Use NewFrame to build a frame and ParseFrame to validate one:
//
//	frame, err := protocol.NewFrame(protocol.CmdChallengeHMAC2, challenge)
//	wire := frame.Marshal()
//
//	frame, err := protocol.ParseFrame(wire)
//	if errors.Is(err, protocol.ErrChecksumMismatch) {
//	    // frame corrupted in transit, never interpret it
//	}
//
// # Slot Configuration
//
// NewHMACConfig and NewOTPConfig assemble the 52-byte configuration record
// written into a slot by a programming command:
//
//	cfg, err := protocol.NewHMACConfig(secret, protocol.WithRequireTouch())
//	payload := cfg.Marshal()
//
// The record layout is bit-exact and deterministic: identical logical
// configuration always serializes to identical bytes.
//
// # Checksum
//
// CRC16 implements the variant used by the token firmware (reflected
// polynomial 0x8408, initial value 0xFFFF). A buffer carrying a trailing
// CRC validates when CRC16 over the whole buffer equals CRCResidualOK.
package protocol
