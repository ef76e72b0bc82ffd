package log

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func frameEvent(packerID string, address uint32) Event {
	return Event{
		Timestamp: time.Now(),
		PackerID:  packerID,
		Category:  CategoryFrame,
		Address:   address,
		Frame:     &FrameEvent{Data: []byte{0x01, 0x02}},
	}
}

func decodeAll(t *testing.T, path string) []Event {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	decoder := NewDecoder(bytes.NewReader(data))
	var events []Event
	for {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			break
		}
		events = append(events, event)
	}
	return events
}

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.clog")

	logger1, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger1.Log(frameEvent("packer-1", 0x10))
	logger1.Close()

	logger2, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger second open failed: %v", err)
	}
	logger2.Log(frameEvent("packer-2", 0x20))
	logger2.Close()

	events := decodeAll(t, path)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].PackerID != "packer-1" || events[1].PackerID != "packer-2" {
		t.Errorf("unexpected order: %q, %q", events[0].PackerID, events[1].PackerID)
	}
}

func TestFileLoggerThreadSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const numGoroutines = 10
	const eventsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				logger.Log(frameEvent(fmt.Sprintf("packer-%d", id), uint32(j)))
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	if count := len(decodeAll(t, path)); count != numGoroutines*eventsPerGoroutine {
		t.Errorf("event count: got %d, want %d", count, numGoroutines*eventsPerGoroutine)
	}
}

func TestFileLoggerClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Log(frameEvent("packer-1", 0x10))

	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Logging after close is ignored.
	logger.Log(frameEvent("packer-1", 0x20))

	if count := len(decodeAll(t, path)); count != 1 {
		t.Errorf("event count: got %d, want 1", count)
	}
}

func TestRotatingFileLoggerWritesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotating.clog")

	logger, err := NewRotatingFileLogger(RotateConfig{Path: path, MaxSizeMB: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewRotatingFileLogger failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		logger.Log(frameEvent("packer-1", uint32(i)))
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events := decodeAll(t, path)
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	if events[4].Address != 4 {
		t.Errorf("last Address: got %d, want 4", events[4].Address)
	}
}

func TestRotatingFileLoggerConfig(t *testing.T) {
	if _, err := NewRotatingFileLogger(RotateConfig{MaxSizeMB: 1}); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := NewRotatingFileLogger(RotateConfig{Path: "x.clog"}); err == nil {
		t.Error("expected error for zero max size")
	}
}
