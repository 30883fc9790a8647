package session

// Transport moves fixed-size feature reports to and from an opened device
// handle. Implementations wrap a previously discovered device; enumeration
// and opening are their concern, not this package's.
//
// The report width is a property of the handle (legacy device generations
// use narrower reports); the engine sizes frame chunking from ReportSize.
type Transport interface {
	// ReadReport reads one feature report into buf and returns the number
	// of bytes read. buf must hold at least ReportSize bytes.
	ReadReport(buf []byte) (int, error)

	// WriteReport writes one feature report. The packet must be exactly
	// ReportSize bytes.
	WriteReport(packet []byte) error

	// ReportSize is the fixed report width in bytes for this handle.
	ReportSize() int
}
