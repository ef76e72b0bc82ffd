package log

import (
	"time"
)

// Event represents one pack call captured by a packer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the pack call completed (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// PackerID identifies the packer instance (UUID).
	PackerID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Address is the requested message address.
	Address uint32 `cbor:"4,keyasint"`

	// MessageName is the catalog name of the message (empty when the
	// address was unknown).
	MessageName string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame *FrameEvent     `cbor:"6,keyasint,omitempty"`
	Error *ErrorEventData `cbor:"7,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates a packed frame.
	CategoryFrame Category = 0
	// CategoryError indicates a rejected pack call.
	CategoryError Category = 1
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures a packed frame and how it was built.
type FrameEvent struct {
	// Data is the packed frame.
	Data []byte `cbor:"1,keyasint"`

	// Signals lists the caller-supplied values in call order.
	Signals []SignalRecord `cbor:"2,keyasint,omitempty"`

	// Counter is the rolling counter value written to the frame, whether
	// supplied or injected. Nil when the message has no COUNTER signal.
	Counter *uint64 `cbor:"3,keyasint,omitempty"`

	// CounterSupplied is true when the caller supplied COUNTER explicitly.
	CounterSupplied bool `cbor:"4,keyasint,omitempty"`

	// Checksum is the value returned by the checksum hook, if one ran.
	Checksum *uint64 `cbor:"5,keyasint,omitempty"`
}

// SignalRecord is one caller-supplied signal value.
type SignalRecord struct {
	// Name of the signal.
	Name string `cbor:"1,keyasint"`

	// Value is the physical value supplied by the caller.
	Value float64 `cbor:"2,keyasint"`

	// Raw is the quantized, width-masked code written to the frame.
	Raw uint64 `cbor:"3,keyasint"`
}

// ErrorEventData captures a rejected pack call.
type ErrorEventData struct {
	// Reason is a short machine-readable cause (see metrics reasons).
	Reason string `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Signal is the offending signal name, if any.
	Signal string `cbor:"3,keyasint,omitempty"`
}
