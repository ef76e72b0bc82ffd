package packer

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/canpack/canpack-go/pkg/bits"
	"github.com/canpack/canpack-go/pkg/catalog"
	"github.com/canpack/canpack-go/pkg/log"
	"github.com/canpack/canpack-go/pkg/metrics"
	"github.com/canpack/canpack-go/pkg/registry"
)

// ErrNonFiniteValue is returned for NaN or infinite physical values and for
// values that quantize to infinity.
var ErrNonFiniteValue = errors.New("packer: non-finite signal value")

// SignalValue is one physical value to write.
type SignalValue struct {
	Name  string
	Value float64
}

// Config configures a Packer.
type Config struct {
	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives one capture event per Pack call (optional).
	ProtocolLogger log.Logger

	// Metrics records pack activity (optional).
	Metrics *metrics.Metrics

	// ID identifies this packer in captured events.
	// A random UUID is used when empty.
	ID string
}

// DefaultConfig returns a Config with logging, capture and metrics disabled.
func DefaultConfig() Config {
	return Config{}
}

// Packer encodes frames for the messages of one registry.
type Packer struct {
	registry       *registry.Registry
	logger         *slog.Logger
	protocolLogger log.Logger
	metrics        *metrics.Metrics
	id             string

	// Last counter value written per address.
	counters map[uint32]uint64
}

// New creates a Packer over reg.
func New(reg *registry.Registry, config Config) *Packer {
	id := config.ID
	if id == "" {
		id = uuid.New().String()
	}
	protocolLogger := config.ProtocolLogger
	if _, noop := protocolLogger.(log.NoopLogger); noop {
		protocolLogger = nil
	}
	return &Packer{
		registry:       reg,
		logger:         config.Logger,
		protocolLogger: protocolLogger,
		metrics:        config.Metrics,
		id:             id,
		counters:       make(map[uint32]uint64),
	}
}

// ID returns the packer id used in captured events.
func (p *Packer) ID() string {
	return p.id
}

// AddressFromName returns the address of the named message.
func (p *Packer) AddressFromName(name string) (uint32, error) {
	return p.registry.AddressFromName(name)
}

// PackByName packs the named message.
func (p *Packer) PackByName(name string, values []SignalValue) ([]byte, error) {
	address, err := p.registry.AddressFromName(name)
	if err != nil {
		p.metrics.PackError(metrics.ReasonUnknownMessage)
		p.debugLog("pack rejected", "message", name, "error", err)
		return nil, err
	}
	return p.Pack(address, values)
}

// write is a resolved, quantized signal value.
type write struct {
	sig   *catalog.Signal
	value float64
	raw   uint64
}

// Pack builds the frame for the message at address.
//
// Values are written in order; a later value for the same signal replaces
// an earlier one. Every lookup and conversion is done before the frame or
// the counter state is touched, so on error Pack returns a nil frame and
// leaves the counter state unchanged.
func (p *Packer) Pack(address uint32, values []SignalValue) ([]byte, error) {
	start := time.Now()

	msg, err := p.registry.Message(address)
	if err != nil {
		return nil, p.reject(address, "", "", metrics.ReasonUnknownAddress, err)
	}

	writes := make([]write, 0, len(values))
	for _, v := range values {
		sig, err := p.registry.Signal(address, v.Name)
		if err != nil {
			return nil, p.reject(address, msg.Name, v.Name, metrics.ReasonUnknownSignal, err)
		}
		raw, err := quantize(sig, v.Value)
		if err != nil {
			return nil, p.reject(address, msg.Name, v.Name, metrics.ReasonInvalidValue,
				fmt.Errorf("signal %s in %s: %w", v.Name, msg.Name, err))
		}
		writes = append(writes, write{sig: sig, value: v.Value, raw: raw})
	}

	buf := make([]byte, msg.Size)

	var (
		counterSupplied bool
		counterValue    uint64
	)
	for _, w := range writes {
		bits.Set(buf, w.sig.StartBit, w.sig.BitLength, w.sig.Order, w.raw)
		if w.sig.Name == catalog.CounterSignal {
			counterSupplied = true
			counterValue = w.raw
		}
	}

	var counter *uint64
	if sig := msg.Signal(catalog.CounterSignal); sig != nil {
		if counterSupplied {
			p.debugLog("counter rebased", "message", msg.Name, "counter", counterValue)
		} else {
			counterValue = p.nextCounter(address, sig)
			bits.Set(buf, sig.StartBit, sig.BitLength, sig.Order, counterValue)
			p.metrics.CounterInjected(msg.Name)
		}
		p.counters[address] = counterValue
		counter = &counterValue
	}

	var sum *uint64
	if sig := msg.Signal(catalog.ChecksumSignal); sig != nil && sig.Checksum != nil {
		// The hook always sees its own field zeroed, even if the caller
		// supplied a value for it.
		bits.Set(buf, sig.StartBit, sig.BitLength, sig.Order, 0)
		view := *sig
		value := sig.Checksum.Compute(address, &view, buf)
		bits.Set(buf, sig.StartBit, sig.BitLength, sig.Order, value)
		p.metrics.ChecksumInjected(msg.Name)
		sum = &value
	}

	p.metrics.ObservePack(msg.Name, time.Since(start))
	p.logFrame(msg, writes, buf, counter, counterSupplied, sum)

	return buf, nil
}

// Counter returns the value the next automatic counter write for address
// will use. ok is false until a frame with a COUNTER signal has been packed
// for address.
func (p *Packer) Counter(address uint32) (next uint64, ok bool) {
	if _, ok := p.counters[address]; !ok {
		return 0, false
	}
	msg, err := p.registry.Message(address)
	if err != nil {
		return 0, false
	}
	sig := msg.Signal(catalog.CounterSignal)
	if sig == nil {
		return 0, false
	}
	return p.nextCounter(address, sig), true
}

// ResetCounters forgets all counter state; the next automatic counter for
// every address is 0.
func (p *Packer) ResetCounters() {
	clear(p.counters)
}

// CounterSnapshot returns the last counter value written for every address
// that has counter state.
func (p *Packer) CounterSnapshot() map[uint32]uint64 {
	return maps.Clone(p.counters)
}

// RestoreCounters loads counter state saved with CounterSnapshot. Entries
// for unknown addresses or messages without a COUNTER signal are skipped;
// values are truncated to the counter width. It returns the number of
// entries restored.
func (p *Packer) RestoreCounters(counters map[uint32]uint64) int {
	restored := 0
	for address, last := range counters {
		msg, err := p.registry.Message(address)
		if err != nil {
			p.debugLog("counter restore skipped", "address", address, "error", err)
			continue
		}
		sig := msg.Signal(catalog.CounterSignal)
		if sig == nil {
			p.debugLog("counter restore skipped", "message", msg.Name, "reason", "no counter signal")
			continue
		}
		p.counters[address] = last & sig.Mask()
		restored++
	}
	return restored
}

func (p *Packer) nextCounter(address uint32, sig *catalog.Signal) uint64 {
	last, ok := p.counters[address]
	if !ok {
		return 0
	}
	return (last + 1) & sig.Mask()
}

// quantize converts a physical value to the raw field code.
//
// Negative codes wrap in two's complement to the field width. Codes below
// -(1<<BitLength) alias onto positive codes.
func quantize(sig *catalog.Signal, value float64) (uint64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNonFiniteValue
	}
	q := math.Round((value - sig.Offset) / sig.Factor)
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, ErrNonFiniteValue
	}

	var raw uint64
	if q < 0 {
		raw = uint64(int64(q))
	} else {
		raw = uint64(q)
	}
	return raw & sig.Mask(), nil
}

func (p *Packer) reject(address uint32, message, signal, reason string, err error) error {
	p.metrics.PackError(reason)
	p.debugLog("pack rejected",
		"address", address,
		"message", message,
		"signal", signal,
		"reason", reason,
		"error", err)

	if p.protocolLogger != nil {
		p.protocolLogger.Log(log.Event{
			Timestamp:   time.Now(),
			PackerID:    p.id,
			Category:    log.CategoryError,
			Address:     address,
			MessageName: message,
			Error: &log.ErrorEventData{
				Reason:  reason,
				Message: err.Error(),
				Signal:  signal,
			},
		})
	}
	return err
}

func (p *Packer) logFrame(msg *catalog.Message, writes []write, buf []byte, counter *uint64, counterSupplied bool, sum *uint64) {
	if p.protocolLogger == nil {
		return
	}

	signals := make([]log.SignalRecord, len(writes))
	for i, w := range writes {
		signals[i] = log.SignalRecord{Name: w.sig.Name, Value: w.value, Raw: w.raw}
	}

	p.protocolLogger.Log(log.Event{
		Timestamp:   time.Now(),
		PackerID:    p.id,
		Category:    log.CategoryFrame,
		Address:     msg.Address,
		MessageName: msg.Name,
		Frame: &log.FrameEvent{
			Data:            append([]byte(nil), buf...),
			Signals:         signals,
			Counter:         counter,
			CounterSupplied: counterSupplied,
			Checksum:        sum,
		},
	})
}

// debugLog logs a debug message if logging is enabled.
func (p *Packer) debugLog(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
