package session

// Logger is an optional logging interface that can be provided to a
// session. This allows integration with any logging framework.
//
// Example with log/slog:
//
//	type SlogAdapter struct{ l *slog.Logger }
//	func (a *SlogAdapter) Debug(msg string, kv ...interface{}) { a.l.Debug(msg, kv...) }
//	func (a *SlogAdapter) Info(msg string, kv ...interface{})  { a.l.Info(msg, kv...) }
//	func (a *SlogAdapter) Error(msg string, kv ...interface{}) { a.l.Error(msg, kv...) }
//
//	s := session.New(dev, session.WithLogger(&SlogAdapter{slog.Default()}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
