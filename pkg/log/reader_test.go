package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readAll(t *testing.T, reader *Reader) []Event {
	t.Helper()
	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}
	return read
}

func TestReaderIteratesEvents(t *testing.T) {
	path := createTestLogFile(t, []Event{
		frameEvent("packer-1", 0x10),
		frameEvent("packer-2", 0x20),
		frameEvent("packer-3", 0x30),
	})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	read := readAll(t, reader)
	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	for i, want := range []string{"packer-1", "packer-2", "packer-3"} {
		if read[i].PackerID != want {
			t.Errorf("event %d: PackerID = %q, want %q", i, read[i].PackerID, want)
		}
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if event, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got err=%v, event=%+v", err, event)
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.clog")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	errEvent := Event{
		Timestamp: base.Add(3 * time.Second),
		PackerID:  "packer-2",
		Category:  CategoryError,
		Address:   0x99,
		Error:     &ErrorEventData{Reason: "unknown_address", Message: "nope"},
	}
	events := []Event{
		{Timestamp: base, PackerID: "packer-1", Category: CategoryFrame, Address: 0x10, MessageName: "GAS", Frame: &FrameEvent{Data: []byte{1}}},
		{Timestamp: base.Add(time.Second), PackerID: "packer-1", Category: CategoryFrame, Address: 0x20, MessageName: "BRAKE", Frame: &FrameEvent{Data: []byte{2}}},
		{Timestamp: base.Add(2 * time.Second), PackerID: "packer-2", Category: CategoryFrame, Address: 0x10, MessageName: "GAS", Frame: &FrameEvent{Data: []byte{3}}},
		errEvent,
	}
	path := createTestLogFile(t, events)

	addr := uint32(0x10)
	errCat := CategoryError
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"none", Filter{}, 4},
		{"packer", Filter{PackerID: "packer-1"}, 2},
		{"address", Filter{Address: &addr}, 2},
		{"message name", Filter{MessageName: "BRAKE"}, 1},
		{"category", Filter{Category: &errCat}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{PackerID: "packer-2", Address: &addr}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			if got := len(readAll(t, reader)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}
