package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/canpack/canpack-go/pkg/log"
)

var testTime = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close test log: %v", err)
	}
	return path
}

func u64(v uint64) *uint64 { return &v }

func sampleEvents() []log.Event {
	return []log.Event{
		{
			Timestamp:   testTime,
			PackerID:    "abc12345-6789-0123-4567-890abcdef012",
			Category:    log.CategoryFrame,
			Address:     0xE4,
			MessageName: "STEERING_CONTROL",
			Frame: &log.FrameEvent{
				Data:     []byte{0x00, 0x78, 0x01, 0x00, 0x79},
				Signals:  []log.SignalRecord{{Name: "STEER_TORQUE_CMD", Value: 120, Raw: 120}},
				Counter:  u64(0),
				Checksum: u64(0x79),
			},
		},
		{
			Timestamp:   testTime.Add(time.Second),
			PackerID:    "abc12345-6789-0123-4567-890abcdef012",
			Category:    log.CategoryFrame,
			Address:     0xE4,
			MessageName: "STEERING_CONTROL",
			Frame: &log.FrameEvent{
				Data:            []byte{0x00, 0x00, 0x00, 0x20, 0x20},
				Counter:         u64(2),
				CounterSupplied: true,
				Checksum:        u64(0x20),
			},
		},
		{
			Timestamp: testTime.Add(2 * time.Second),
			PackerID:  "def00000-0000-0000-0000-000000000000",
			Category:  log.CategoryError,
			Address:   0x999,
			Error:     &log.ErrorEventData{Reason: "unknown_address", Message: "registry: unknown message address: 0x999"},
		},
	}
}
