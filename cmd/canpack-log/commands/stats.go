package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/canpack/canpack-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Messages         map[uint32]*MessageStats
	ErrorsByReason   map[string]int
	Packers          map[string]int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// MessageStats holds statistics for a single message address.
type MessageStats struct {
	Name             string
	Frames           int
	AutoCounters     int
	SuppliedCounters int
	Checksums        int
	Errors           int
	LastData         []byte
	FirstSeen        time.Time
	LastSeen         time.Time
}

// CollectStats reads every event of the log file into a Stats.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Messages:         make(map[uint32]*MessageStats),
		ErrorsByReason:   make(map[string]int),
		Packers:          make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	s.Packers[event.PackerID]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	msg, ok := s.Messages[event.Address]
	if !ok {
		msg = &MessageStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Messages[event.Address] = msg
	}
	if msg.Name == "" {
		msg.Name = event.MessageName
	}
	if event.Timestamp.After(msg.LastSeen) {
		msg.LastSeen = event.Timestamp
	}

	if f := event.Frame; f != nil {
		msg.Frames++
		msg.LastData = f.Data
		if f.Counter != nil {
			if f.CounterSupplied {
				msg.SuppliedCounters++
			} else {
				msg.AutoCounters++
			}
		}
		if f.Checksum != nil {
			msg.Checksums++
		}
	}
	if event.Error != nil {
		msg.Errors++
		s.ErrorsByReason[event.Error.Reason]++
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== canpack Capture Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Packers:      %d\n", len(stats.Packers))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryFrame, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Messages: %d\n", len(stats.Messages))
	addresses := make([]uint32, 0, len(stats.Messages))
	for a := range stats.Messages {
		addresses = append(addresses, a)
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })

	for _, a := range addresses {
		m := stats.Messages[a]
		name := m.Name
		if name == "" {
			name = "?"
		}
		fmt.Fprintf(w, "  [0x%X] %s: %d frames", a, name, m.Frames)
		if m.Errors > 0 {
			fmt.Fprintf(w, ", %d errors", m.Errors)
		}
		fmt.Fprintln(w)
		if m.AutoCounters+m.SuppliedCounters > 0 {
			fmt.Fprintf(w, "           Counter: %d auto, %d supplied\n", m.AutoCounters, m.SuppliedCounters)
		}
		if m.Checksums > 0 {
			fmt.Fprintf(w, "           Checksums: %d\n", m.Checksums)
		}
		if m.LastData != nil {
			fmt.Fprintf(w, "           Last: %s\n", formatHex(m.LastData))
		}
	}

	if len(stats.ErrorsByReason) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors by Reason:")
		reasons := make([]string, 0, len(stats.ErrorsByReason))
		for r := range stats.ErrorsByReason {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Fprintf(w, "  %-18s %d\n", r+":", stats.ErrorsByReason[r])
		}
	}
}
