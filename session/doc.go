// Package session drives the write/poll slot protocol against a single
// attached token and exposes the challenge-response operations.
//
// A Session owns one opened Transport (see the usbhid package for the HID
// implementation) and serializes all exchanges against it: the device has
// no concept of interleaved transactions, so one mutex-guarded
// write/poll/read sequence runs at a time.
//
// # Typical use
//
//	dev, err := usbhid.Open()
//	if err != nil { ... }
//	defer dev.Close()
//
//	s := session.New(dev)
//	response, err := s.ChallengeResponseHMAC(protocol.Slot2, []byte("challenge"))
//
// # Programming a slot
//
//	cfg, err := protocol.NewHMACConfig(secret, protocol.WithRequireTouch())
//	if err != nil { ... }
//	err = s.WriteConfig(protocol.Slot2, cfg)
//
// WriteConfig durably mutates the physical device and is not idempotent:
// every accepted write consumes the device's program sequence counter and
// cannot be undone except by another write. A WriteConfig that returns
// ErrTimeout leaves the device in an indeterminate state; re-read the
// status before deciding to retry.
//
// # Failure semantics
//
// Transport I/O failures surface immediately as *IOError and are never
// retried here; device-busy conditions are retried internally up to the
// configured attempt budget and surface as ErrTimeout once it is
// exhausted. A configuration the device refuses surfaces as
// ErrDeviceRejected, distinct from ErrTimeout.
package session
