package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes validation events to an slog.Logger.
// Useful for development when you want to see findings in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger, mapping severities onto
// slog levels.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("rule", event.Rule),
	}
	if event.Path != "" {
		attrs = append(attrs, slog.String("path", event.Path))
	}
	if event.File != "" {
		attrs = append(attrs,
			slog.String("file", event.File),
			slog.Int("line", event.Line),
		)
	}

	level := slog.LevelInfo
	switch event.Severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}

	a.logger.LogAttrs(context.Background(), level, event.Message, attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
