package session

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/hidtoken/ykchalresp/otp"
	"github.com/hidtoken/ykchalresp/protocol"
)

// Session drives the slot protocol over an opened device handle. All
// operations are serialized with an internal mutex, so a Session is safe
// for concurrent use; the device processes one exchange at a time and
// interleaved frames would corrupt each other.
type Session struct {
	mu        sync.Mutex
	transport Transport
	config    Config
}

// New creates a session over an opened transport.
//
// Example:
//
//	dev, err := usbhid.Open()
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//
//	s := session.New(dev)
//	resp, err := s.ChallengeResponseHMAC(protocol.Slot2, challenge)
func New(transport Transport, opts ...Option) *Session {
	if transport == nil {
		panic("session: transport cannot be nil")
	}

	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Session{
		transport: transport,
		config:    config,
	}
}

// ChallengeResponseHMAC sends a challenge to an HMAC-SHA1 slot and returns
// the 20-byte digest. The challenge may be 0 to 64 bytes; in the default
// variable-length framing a challenge ending in 0x00 is delivered over
// 0xFF filler so the device-side length scan preserves it.
//
// Blocks while the device computes, including any wait for a physical
// touch on slots configured to demand one.
//
// Returns protocol.ErrInvalidArgument for an oversized challenge,
// ErrTimeout if the device never responds within the poll budget, and
// protocol.ErrChecksumMismatch for a response that fails validation.
func (s *Session) ChallengeResponseHMAC(slot protocol.Slot, challenge []byte) ([]byte, error) {
	payload, err := s.framePayload(challenge)
	if err != nil {
		return nil, err
	}
	cmd := protocol.ChallengeCommand(slot, protocol.ModeHMACSHA1)
	return s.exchange(cmd, payload, protocol.HMACResponseSize)
}

// ChallengeResponseOTP sends a 6-byte challenge to an AES OTP slot and
// returns the 16-byte encrypted token block. Decrypt and validate it with
// the otp package.
//
// Returns protocol.ErrInvalidArgument if the challenge is not exactly
// protocol.OTPChallengeSize bytes.
func (s *Session) ChallengeResponseOTP(slot protocol.Slot, challenge []byte) ([]byte, error) {
	if len(challenge) != protocol.OTPChallengeSize {
		return nil, fmt.Errorf("OTP challenge is %d bytes, need %d: %w",
			len(challenge), protocol.OTPChallengeSize, protocol.ErrInvalidArgument)
	}
	cmd := protocol.ChallengeCommand(slot, protocol.ModeOTP)
	return s.exchange(cmd, challenge, protocol.OTPResponseSize)
}

// VerifyHMAC sends the challenge to the slot and checks the device's
// response against the host-side transform under key. The comparison is
// constant-time. A false result with a nil error means the device answered
// but its response does not match, typically because the slot holds a
// different secret.
func (s *Session) VerifyHMAC(slot protocol.Slot, key *otp.HMACKey, challenge []byte) (bool, error) {
	response, err := s.ChallengeResponseHMAC(slot, challenge)
	if err != nil {
		return false, err
	}

	if s.config.VariableChallenge {
		return key.Verify(challenge, response)
	}

	// Fixed-length slots hash the whole zero-padded payload.
	padded := make([]byte, protocol.PayloadSize)
	copy(padded, challenge)
	defer zero(padded)
	return key.Verify(padded, response)
}

// WriteConfig programs a slot with a new configuration. This MUTATES THE
// DEVICE and irrevocably replaces whatever secret the slot held; it is not
// idempotent and must not be retried blindly.
//
// The configuration's secret material is wiped before WriteConfig returns,
// whatever the outcome.
//
// Returns ErrDeviceRejected if the device refuses the write (for example a
// protected slot without its access code) and ErrTimeout if the outcome is
// indeterminate; after a timeout re-read the status before deciding
// anything.
func (s *Session) WriteConfig(slot protocol.Slot, config *protocol.SlotConfig) error {
	err := s.program(protocol.ConfigureCommand(slot), config)
	if err == nil {
		s.logInfo("slot programmed", "slot", slot, "mode", config.Mode())
	}
	return err
}

// UpdateConfig rewrites the updatable flags of an already-programmed slot
// without replacing its secret. Same failure semantics as WriteConfig.
func (s *Session) UpdateConfig(slot protocol.Slot, config *protocol.SlotConfig) error {
	return s.program(protocol.UpdateCommand(slot), config)
}

// SwapSlots exchanges the contents of the two slots. Mutates the device.
func (s *Session) SwapSlots() error {
	frame, err := protocol.NewFrame(protocol.CmdSwap, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.readStatusLocked()
	if err != nil {
		return err
	}
	if err := s.writeFrame(frame); err != nil {
		return err
	}
	return s.awaitPgmSeqAdvance(before.PgmSeq)
}

// ReadStatus reads the device status: firmware version, program sequence
// counter, and slot-valid bits.
func (s *Session) ReadStatus() (*protocol.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readStatusLocked()
}

// ReadSerial reads the device serial number. The device only answers if a
// slot was programmed with the serial visible to the API (see
// protocol.WithSerialAPIVisible); otherwise the call times out.
func (s *Session) ReadSerial() (uint32, error) {
	response, err := s.exchange(protocol.CmdDeviceSerial, nil, protocol.SerialResponseSize)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(response), nil
}

// IsConfigured reports whether the slot holds a valid configuration.
func (s *Session) IsConfigured(slot protocol.Slot) (bool, error) {
	status, err := s.ReadStatus()
	if err != nil {
		return false, err
	}
	return status.SlotConfigured(slot), nil
}

// exchange runs one full write/response cycle for a command that returns
// data: deliver the frame, gather the raw response, validate its checksum,
// and slice off the meaningful prefix.
func (s *Session) exchange(cmd protocol.Command, payload []byte, respSize int) ([]byte, error) {
	frame, err := protocol.NewFrame(cmd, payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFrame(frame); err != nil {
		return nil, err
	}

	raw, err := s.readResponse()
	if err != nil {
		return nil, err
	}

	// The device appends a CRC; the covered region must reduce to the
	// residual before any byte of it is trusted.
	covered := respSize + 2
	if len(raw) < covered {
		return nil, fmt.Errorf("response is %d bytes, expected at least %d: %w",
			len(raw), covered, protocol.ErrChecksumMismatch)
	}
	if !protocol.VerifyCRC16(raw[:covered]) {
		return nil, fmt.Errorf("response failed checksum: %w", protocol.ErrChecksumMismatch)
	}

	response := make([]byte, respSize)
	copy(response, raw[:respSize])
	return response, nil
}

// program delivers a configuration record and confirms acceptance through
// the program sequence counter. The record's secrets are wiped before
// returning.
func (s *Session) program(cmd protocol.Command, config *protocol.SlotConfig) error {
	defer config.Zero()

	payload := config.Marshal()
	defer zero(payload)

	frame, err := protocol.NewFrame(cmd, payload)
	if err != nil {
		return err
	}
	defer zero(frame.Payload[:])

	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.readStatusLocked()
	if err != nil {
		return err
	}

	if err := s.writeFrame(frame); err != nil {
		return err
	}
	return s.awaitPgmSeqAdvance(before.PgmSeq)
}

// framePayload lays a challenge into a full command payload according to
// the session's challenge framing.
func (s *Session) framePayload(challenge []byte) ([]byte, error) {
	if len(challenge) > protocol.MaxChallengeSize {
		return nil, fmt.Errorf("challenge is %d bytes, maximum is %d: %w",
			len(challenge), protocol.MaxChallengeSize, protocol.ErrInvalidArgument)
	}

	payload := make([]byte, protocol.PayloadSize)
	if s.config.VariableChallenge && len(challenge) > 0 && challenge[len(challenge)-1] == 0x00 {
		for i := range payload {
			payload[i] = 0xFF
		}
	}
	copy(payload, challenge)
	return payload, nil
}

// readStatusLocked reads one status report. Callers hold s.mu.
func (s *Session) readStatusLocked() (*protocol.Status, error) {
	buf := make([]byte, s.transport.ReportSize())
	n, err := s.transport.ReadReport(buf)
	if err != nil {
		return nil, ioErr("read", err)
	}
	return protocol.ParseStatus(buf[:n])
}

func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}
