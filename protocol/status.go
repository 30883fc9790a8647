package protocol

import (
	"encoding/binary"
	"fmt"
)

// StatusSize is the length of the status structure at the start of every
// feature report read from the device.
const StatusSize = 6

// Status is the device state read back over a feature report. The polling
// engine uses PgmSeq to detect completed configuration writes and
// TouchLevel to tell which slots are populated.
type Status struct {
	// VersionMajor, VersionMinor and VersionBuild identify the firmware
	VersionMajor byte
	VersionMinor byte
	VersionBuild byte

	// PgmSeq is the program sequence counter, incremented by the device
	// on every accepted configuration write. Zero on a blank device.
	PgmSeq byte

	// TouchLevel carries the slot-populated bits and touch state
	TouchLevel uint16
}

// Slot-populated bits within Status.TouchLevel.
const (
	// Config1Valid is set when slot 1 holds a configuration
	Config1Valid = 0x01

	// Config2Valid is set when slot 2 holds a configuration
	Config2Valid = 0x02
)

// ParseStatus extracts the status structure from a feature report.
//
// Report format:
//
//	[VER_MAJOR][VER_MINOR][VER_BUILD][PGM_SEQ][TOUCH_L][TOUCH_H][RFU][FLAGS]
func ParseStatus(report []byte) (*Status, error) {
	if len(report) < StatusSize {
		return nil, fmt.Errorf("status report is %d bytes, minimum is %d: %w",
			len(report), StatusSize, ErrInvalidArgument)
	}

	return &Status{
		VersionMajor: report[0],
		VersionMinor: report[1],
		VersionBuild: report[2],
		PgmSeq:       report[3],
		TouchLevel:   binary.LittleEndian.Uint16(report[4:6]),
	}, nil
}

// SlotConfigured reports whether the slot holds a configuration according
// to the touch-level bits. A device with PgmSeq zero has never been
// programmed and both slots are empty regardless of the bits.
func (s *Status) SlotConfigured(slot Slot) bool {
	if s.PgmSeq == 0 {
		return false
	}
	if slot == Slot1 {
		return s.TouchLevel&Config1Valid != 0
	}
	return s.TouchLevel&Config2Valid != 0
}

// ReportFlags is the last byte of a feature report: the slot-write and
// response-pending flags plus a 5-bit chunk sequence number.
type ReportFlags byte

// SlotWrite reports whether the device is still consuming a write.
func (f ReportFlags) SlotWrite() bool { return f&SlotWriteFlag != 0 }

// RespPending reports whether response chunks are waiting to be read.
func (f ReportFlags) RespPending() bool { return f&RespPendingFlag != 0 }

// Sequence returns the chunk sequence number.
func (f ReportFlags) Sequence() byte { return byte(f) & SequenceMask }
