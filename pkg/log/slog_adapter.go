package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes capture events to an slog.Logger.
// Useful for development when you want to see packed frames in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes frames at Debug level and rejected calls at Warn level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("packer_id", event.PackerID),
		slog.String("category", event.Category.String()),
		slog.Uint64("address", uint64(event.Address)),
	}
	if event.MessageName != "" {
		attrs = append(attrs, slog.String("message", event.MessageName))
	}

	level := slog.LevelDebug
	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.String("data", hex.EncodeToString(event.Frame.Data)),
			slog.Int("signals", len(event.Frame.Signals)),
		)
		if event.Frame.Counter != nil {
			attrs = append(attrs,
				slog.Uint64("counter", *event.Frame.Counter),
				slog.Bool("counter_supplied", event.Frame.CounterSupplied),
			)
		}
		if event.Frame.Checksum != nil {
			attrs = append(attrs, slog.Uint64("checksum", *event.Frame.Checksum))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("reason", event.Error.Reason),
			slog.String("error", event.Error.Message),
		)
		if event.Error.Signal != "" {
			attrs = append(attrs, slog.String("signal", event.Error.Signal))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "pack", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
