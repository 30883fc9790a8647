package session

import (
	"github.com/hidtoken/ykchalresp/protocol"
)

// await polls the device status until ready returns true for the report
// flags, sleeping PollInterval between attempts. Bounded by MaxAttempts;
// the budget is never exceeded. Returns the report that satisfied ready.
func (s *Session) await(ready func(protocol.ReportFlags) bool) ([]byte, error) {
	size := s.transport.ReportSize()
	buf := make([]byte, size)

	for attempt := 0; attempt < s.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			s.config.Sleep(s.config.PollInterval)
		}

		n, err := s.transport.ReadReport(buf)
		if err != nil {
			return nil, ioErr("read", err)
		}
		if n < size {
			continue
		}

		if flags := protocol.ReportFlags(buf[size-1]); ready(flags) {
			return buf[:n], nil
		}
	}

	return nil, ErrTimeout
}

func writeReady(f protocol.ReportFlags) bool { return !f.SlotWrite() }

func respPending(f protocol.ReportFlags) bool { return f.RespPending() }

// writeFrame delivers one frame as an ordered sequence of report-sized
// chunks. Each chunk carries the slot-write flag plus its sequence number
// so the device can reassemble them; chunks are never reordered or
// coalesced. All-zero interior chunks are elided, matching the device's
// sparse-write handling; the first and final chunks are always sent.
//
// Before every chunk the engine waits for the device to drain the previous
// one. Transport failures surface immediately and are not retried.
func (s *Session) writeFrame(frame *protocol.Frame) error {
	wire := frame.Marshal()
	defer zero(wire)

	size := s.transport.ReportSize()
	chunkLen := size - 1
	chunks := (len(wire) + chunkLen - 1) / chunkLen

	for seq := 0; seq < chunks; seq++ {
		start := seq * chunkLen
		end := start + chunkLen
		if end > len(wire) {
			end = len(wire)
		}
		part := wire[start:end]

		last := seq == chunks-1
		if seq != 0 && !last && allZero(part) {
			continue
		}

		if _, err := s.await(writeReady); err != nil {
			return err
		}

		packet := make([]byte, size)
		copy(packet, part)
		packet[size-1] = protocol.SlotWriteFlag | byte(seq)
		if err := s.transport.WriteReport(packet); err != nil {
			return ioErr("write", err)
		}
		zero(packet)
	}

	s.logDebug("frame written", "command", frame.Command, "chunks", chunks)
	return nil
}

// readResponse gathers the raw response buffer for a command that expects
// one: wait for the response-pending flag, then concatenate chunk payloads
// in arrival order until the flag clears or the sequence counter wraps to
// zero. Finishes with a write-reset so the device is rearmed for the next
// exchange.
func (s *Session) readResponse() ([]byte, error) {
	size := s.transport.ReportSize()
	chunkLen := size - 1

	report, err := s.await(respPending)
	if err != nil {
		return nil, err
	}

	response := make([]byte, 0, protocol.MaxResponseSize+chunkLen)
	response = append(response, report[:chunkLen]...)

	buf := make([]byte, size)
	for len(response) < protocol.MaxResponseSize {
		n, err := s.transport.ReadReport(buf)
		if err != nil {
			return nil, ioErr("read", err)
		}
		if n < size {
			break
		}

		flags := protocol.ReportFlags(buf[size-1])
		if !flags.RespPending() || flags.Sequence() == 0 {
			break
		}
		response = append(response, buf[:chunkLen]...)
	}

	if err := s.writeReset(); err != nil {
		return nil, err
	}
	return response, nil
}

// writeReset sends the dummy report that clears the device's pending
// response state after a read-out.
func (s *Session) writeReset() error {
	size := s.transport.ReportSize()
	packet := make([]byte, size)
	packet[size-1] = protocol.DummyReportFlags

	if err := s.transport.WriteReport(packet); err != nil {
		return ioErr("write", err)
	}
	_, err := s.await(writeReady)
	return err
}

// awaitPgmSeqAdvance polls after a programming write until the device goes
// idle. An advanced program sequence counter means the write was accepted;
// idle with an unchanged counter means the device refused it. A device
// that never goes idle within the budget times out, leaving the outcome
// indeterminate for the caller to resolve with a status read.
func (s *Session) awaitPgmSeqAdvance(before byte) error {
	size := s.transport.ReportSize()
	buf := make([]byte, size)

	for attempt := 0; attempt < s.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			s.config.Sleep(s.config.PollInterval)
		}

		n, err := s.transport.ReadReport(buf)
		if err != nil {
			return ioErr("read", err)
		}
		if n < size {
			continue
		}
		if protocol.ReportFlags(buf[size-1]).SlotWrite() {
			continue
		}

		status, err := protocol.ParseStatus(buf[:n])
		if err != nil {
			continue
		}
		if status.PgmSeq == before {
			return ErrDeviceRejected
		}
		return nil
	}

	return ErrTimeout
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
