package log

// Logger receives validation findings as a run makes them. A Validator
// accepts any implementation; pass NoopLogger to discard findings.
type Logger interface {
	// Log records one finding. Implementations must be thread-safe.
	Log(event Event)
}

// NoopLogger discards every finding. The zero value is ready to use and
// safe for concurrent use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
