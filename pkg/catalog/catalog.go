package catalog

import (
	"fmt"

	"github.com/canpack/canpack-go/pkg/bits"
)

// Reserved signal names.
const (
	CounterSignal  = "COUNTER"
	ChecksumSignal = "CHECKSUM"
)

// Checksum computes the value of a checksum signal.
//
// buf is the frame as written so far; the checksum field itself is still
// zero when Compute is called. The returned value should fit the signal's
// bit length.
type Checksum interface {
	Compute(address uint32, sig *Signal, buf []byte) uint64
}

// ChecksumFunc adapts a plain function to the Checksum interface.
type ChecksumFunc func(address uint32, sig *Signal, buf []byte) uint64

// Compute calls f.
func (f ChecksumFunc) Compute(address uint32, sig *Signal, buf []byte) uint64 {
	return f(address, sig, buf)
}

// Signal is a named bit-field within a message.
type Signal struct {
	// Name is unique within its message.
	Name string

	// StartBit is the bit index of the field's least-significant bit,
	// counted from the start of the buffer.
	StartBit int

	// BitLength is the field width, 1 to 64.
	BitLength int

	// Order is the direction in which the field continues past its
	// first byte.
	Order bits.Order

	// Factor and Offset convert between physical and raw values:
	// physical = raw*Factor + Offset.
	Factor float64
	Offset float64

	// Checksum is the hook bound to a CHECKSUM signal (nil otherwise).
	Checksum Checksum

	// ChecksumName is the algorithm name the hook was resolved from, if any.
	ChecksumName string
}

// Mask returns the all-ones value for the signal width.
func (s *Signal) Mask() uint64 {
	if s.BitLength >= 64 {
		return ^uint64(0)
	}
	return (1 << uint(s.BitLength)) - 1
}

// Message is a fixed-size frame identified by its address.
type Message struct {
	Address uint32
	Name    string
	Size    int
	Signals []Signal
}

// Signal returns the named signal, or nil.
func (m *Message) Signal(name string) *Signal {
	for i := range m.Signals {
		if m.Signals[i].Name == name {
			return &m.Signals[i]
		}
	}
	return nil
}

// Catalog is a set of messages.
type Catalog struct {
	Name     string
	Messages []Message
}

// ValidationError describes a schema defect.
type ValidationError struct {
	Message string
	Address uint32
	Signal  string
	Reason  string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Message == "" && e.Signal == "":
		return fmt.Sprintf("catalog: address=0x%X: %s", e.Address, e.Reason)
	case e.Signal == "":
		return fmt.Sprintf("catalog: message=%s address=0x%X: %s", e.Message, e.Address, e.Reason)
	default:
		return fmt.Sprintf("catalog: message=%s address=0x%X signal=%s: %s", e.Message, e.Address, e.Signal, e.Reason)
	}
}

// Validate checks the catalog for schema defects: duplicate keys, empty
// names, non-positive sizes, bit lengths outside [1,64], zero factors and
// fields that would leave the message buffer.
func (c *Catalog) Validate() error {
	addresses := make(map[uint32]bool, len(c.Messages))
	names := make(map[string]bool, len(c.Messages))

	for i := range c.Messages {
		m := &c.Messages[i]
		if m.Name == "" {
			return &ValidationError{Address: m.Address, Reason: "empty message name"}
		}
		if addresses[m.Address] {
			return &ValidationError{Message: m.Name, Address: m.Address, Reason: "duplicate address"}
		}
		if names[m.Name] {
			return &ValidationError{Message: m.Name, Address: m.Address, Reason: "duplicate message name"}
		}
		addresses[m.Address] = true
		names[m.Name] = true

		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single message and its signals.
func (m *Message) Validate() error {
	if m.Size <= 0 {
		return &ValidationError{Message: m.Name, Address: m.Address, Reason: fmt.Sprintf("invalid size %d", m.Size)}
	}

	seen := make(map[string]bool, len(m.Signals))
	for i := range m.Signals {
		s := &m.Signals[i]
		fail := func(reason string) error {
			return &ValidationError{Message: m.Name, Address: m.Address, Signal: s.Name, Reason: reason}
		}

		if s.Name == "" {
			return fail("empty signal name")
		}
		if seen[s.Name] {
			return fail("duplicate signal name")
		}
		seen[s.Name] = true

		if s.BitLength < 1 || s.BitLength > 64 {
			return fail(fmt.Sprintf("bit length %d outside [1,64]", s.BitLength))
		}
		if s.Factor == 0 {
			return fail("zero factor")
		}
		if !bits.Fits(m.Size, s.StartBit, s.BitLength, s.Order) {
			return fail(fmt.Sprintf("field start=%d length=%d %s exceeds %d-byte message",
				s.StartBit, s.BitLength, s.Order, m.Size))
		}
	}
	return nil
}
