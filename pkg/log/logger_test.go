package log

import (
	"testing"
	"time"
)

// recordingLogger records events for testing.
type recordingLogger struct {
	events []Event
}

func (m *recordingLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp: time.Now(),
		PackerID:  "packer-1",
		Category:  CategoryFrame,
		Address:   0x200,
	}
	logger.Log(event)

	event.Frame = &FrameEvent{Data: []byte{1, 2, 3}}
	logger.Log(event)

	event.Frame = nil
	event.Category = CategoryError
	event.Error = &ErrorEventData{Reason: "unknown_signal", Message: "test error"}
	logger.Log(event)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}

func TestMultiLoggerCallsAll(t *testing.T) {
	rec1 := &recordingLogger{}
	rec2 := &recordingLogger{}
	rec3 := &recordingLogger{}

	multi := NewMultiLogger(rec1, rec2, rec3)
	multi.Log(Event{Timestamp: time.Now(), PackerID: "packer-1", Address: 0x10})

	for i, rec := range []*recordingLogger{rec1, rec2, rec3} {
		if len(rec.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(rec.events))
			continue
		}
		if rec.events[0].PackerID != "packer-1" {
			t.Errorf("logger %d: PackerID = %q, want %q", i, rec.events[0].PackerID, "packer-1")
		}
	}
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	rec := &recordingLogger{}
	multi := NewMultiLogger(nil, rec, nil)
	multi.Log(Event{PackerID: "packer-1"})

	if len(rec.events) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.events))
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()
	multi.Log(Event{Timestamp: time.Now()})
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{CategoryFrame, "FRAME"},
		{CategoryError, "ERROR"},
		{Category(9), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}
