// Package commands implements the canpack-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/canpack/canpack-go/pkg/log"
)

// timestampLayout is used by view and export.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [packer:id] CATEGORY 0xADDR NAME
	ts := event.Timestamp.UTC().Format(timestampLayout)
	name := event.MessageName
	if name == "" {
		name = "?"
	}

	fmt.Fprintf(w, "%s [packer:%s] %-5s 0x%X %s\n",
		ts, shortenID(event.PackerID), event.Category.String(), event.Address, name)

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a packer ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Data: %s (%d bytes)\n", formatHex(frame.Data), len(frame.Data))
	for _, s := range frame.Signals {
		fmt.Fprintf(w, "  %-24s %-12s raw=0x%X\n", s.Name, strconv.FormatFloat(s.Value, 'g', -1, 64), s.Raw)
	}
	if frame.Counter != nil {
		source := "auto"
		if frame.CounterSupplied {
			source = "supplied"
		}
		fmt.Fprintf(w, "  Counter: %d (%s)\n", *frame.Counter, source)
	}
	if frame.Checksum != nil {
		fmt.Fprintf(w, "  Checksum: 0x%X\n", *frame.Checksum)
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Reason: %s\n", e.Reason)
	if e.Signal != "" {
		fmt.Fprintf(w, "  Signal: %s\n", e.Signal)
	}
	fmt.Fprintf(w, "  Error: %s\n", e.Message)
}

// formatHex renders data as space-separated upper-case byte pairs.
func formatHex(data []byte) string {
	if len(data) == 0 {
		return "-"
	}
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = strings.ToUpper(hex.EncodeToString([]byte{b}))
	}
	return strings.Join(parts, " ")
}

// ParseCategoryFlag parses a category flag value (frame, error).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "frame":
		return log.CategoryFrame, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (valid: frame, error)", s)
	}
}

// ParseAddressFlag parses a message address given in decimal or with a
// 0x prefix.
func ParseAddressFlag(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", s)
	}
	return uint32(v), nil
}

// RunView reads the log file and writes every event matching filter to
// output.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
