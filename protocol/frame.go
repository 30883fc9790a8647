package protocol

import (
	"encoding/binary"
	"fmt"
)

// Frame is the fixed-size unit of exchange with the device.
//
// On the wire it occupies exactly FrameSize bytes:
//
//	[PAYLOAD(64)][COMMAND(1)][CRC_L][CRC_H][RESERVED(3)]
//
// The CRC covers the payload and the command byte. The reserved bytes are
// always zero; a frame with nonzero reserved bytes is treated as corrupt.
type Frame struct {
	// Payload is the 64-byte command payload, zero-padded
	Payload [PayloadSize]byte

	// Command is the command/slot selector byte
	Command Command

	// CRC is the checksum over Payload and Command (little-endian on
	// the wire)
	CRC uint16
}

// NewFrame builds a frame for the given command, zero-padding the payload
// to PayloadSize and computing the checksum.
//
// Returns ErrInvalidArgument if the payload exceeds PayloadSize bytes.
func NewFrame(cmd Command, payload []byte) (*Frame, error) {
	if len(payload) > PayloadSize {
		return nil, fmt.Errorf("payload is %d bytes, maximum is %d: %w",
			len(payload), PayloadSize, ErrInvalidArgument)
	}

	f := &Frame{Command: cmd}
	copy(f.Payload[:], payload)
	f.CRC = f.computeCRC()
	return f, nil
}

// Marshal serializes the frame to its FrameSize on-wire form.
func (f *Frame) Marshal() []byte {
	buf := make([]byte, FrameSize)
	copy(buf, f.Payload[:])
	buf[PayloadSize] = byte(f.Command)
	binary.LittleEndian.PutUint16(buf[PayloadSize+1:PayloadSize+3], f.CRC)
	// Reserved bytes stay zero.
	return buf
}

// ParseFrame is the inverse of Marshal. It validates the frame length, the
// checksum, and the reserved padding.
//
// Returns ErrInvalidArgument for a wrong-size buffer and
// ErrChecksumMismatch for any corruption; a frame that fails validation
// must never be interpreted.
func ParseFrame(buf []byte) (*Frame, error) {
	if len(buf) != FrameSize {
		return nil, fmt.Errorf("frame is %d bytes, expected %d: %w",
			len(buf), FrameSize, ErrInvalidArgument)
	}

	f := &Frame{Command: Command(buf[PayloadSize])}
	copy(f.Payload[:], buf[:PayloadSize])
	f.CRC = binary.LittleEndian.Uint16(buf[PayloadSize+1 : PayloadSize+3])

	if expected := f.computeCRC(); f.CRC != expected {
		return nil, fmt.Errorf("frame checksum is 0x%04X, expected 0x%04X: %w",
			f.CRC, expected, ErrChecksumMismatch)
	}

	// The reserved tail is not covered by the CRC, so corruption there is
	// caught by requiring it to be zero.
	for _, b := range buf[PayloadSize+3:] {
		if b != 0 {
			return nil, fmt.Errorf("nonzero reserved padding: %w", ErrChecksumMismatch)
		}
	}

	return f, nil
}

// computeCRC calculates the frame checksum over payload and command.
func (f *Frame) computeCRC() uint16 {
	buf := make([]byte, PayloadSize+1)
	copy(buf, f.Payload[:])
	buf[PayloadSize] = byte(f.Command)
	return CRC16(buf)
}
