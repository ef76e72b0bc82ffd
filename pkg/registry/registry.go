// Package registry indexes a catalog for exact-match lookups by message
// address, message name and (address, signal name).
//
// A Registry is immutable after New returns and is safe for concurrent use.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/canpack/canpack-go/pkg/catalog"
)

// Lookup errors. Returned errors wrap these; match with errors.Is.
var (
	ErrUnknownMessageAddress = errors.New("registry: unknown message address")
	ErrUnknownMessageName    = errors.New("registry: unknown message name")
	ErrUnknownSignalName     = errors.New("registry: unknown signal name")
)

type signalKey struct {
	address uint32
	name    string
}

// Registry is a read-only index over a catalog.
type Registry struct {
	messages  map[uint32]*catalog.Message
	addresses map[string]uint32
	signals   map[signalKey]*catalog.Signal
}

// New indexes cat. The registry keeps its own copy of every message, so
// later changes to cat are not observed.
//
// Field bounds are not checked here; call cat.Validate (Load does) to
// reject out-of-range fields.
func New(cat *catalog.Catalog) (*Registry, error) {
	if cat == nil {
		return nil, errors.New("registry: nil catalog")
	}

	r := &Registry{
		messages:  make(map[uint32]*catalog.Message, len(cat.Messages)),
		addresses: make(map[string]uint32, len(cat.Messages)),
		signals:   make(map[signalKey]*catalog.Signal),
	}

	for i := range cat.Messages {
		msg := cat.Messages[i]
		msg.Signals = slices.Clone(msg.Signals)

		if _, dup := r.messages[msg.Address]; dup {
			return nil, &catalog.ValidationError{Message: msg.Name, Address: msg.Address, Reason: "duplicate address"}
		}
		if _, dup := r.addresses[msg.Name]; dup {
			return nil, &catalog.ValidationError{Message: msg.Name, Address: msg.Address, Reason: "duplicate message name"}
		}

		r.messages[msg.Address] = &msg
		r.addresses[msg.Name] = msg.Address

		for j := range msg.Signals {
			sig := &msg.Signals[j]
			key := signalKey{address: msg.Address, name: sig.Name}
			if _, dup := r.signals[key]; dup {
				return nil, &catalog.ValidationError{Message: msg.Name, Address: msg.Address, Signal: sig.Name, Reason: "duplicate signal name"}
			}
			r.signals[key] = sig
		}
	}
	return r, nil
}

// AddressFromName returns the address of the named message.
func (r *Registry) AddressFromName(name string) (uint32, error) {
	address, ok := r.addresses[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMessageName, name)
	}
	return address, nil
}

// Message returns the message at address.
// The returned message must not be modified.
func (r *Registry) Message(address uint32) (*catalog.Message, error) {
	msg, ok := r.messages[address]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%X", ErrUnknownMessageAddress, address)
	}
	return msg, nil
}

// Signal returns the named signal of the message at address.
// The returned signal must not be modified.
func (r *Registry) Signal(address uint32, name string) (*catalog.Signal, error) {
	msg, err := r.Message(address)
	if err != nil {
		return nil, err
	}
	sig, ok := r.signals[signalKey{address: address, name: name}]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnknownSignalName, name, msg.Name)
	}
	return sig, nil
}

// Messages returns all messages ordered by address.
func (r *Registry) Messages() []*catalog.Message {
	out := make([]*catalog.Message, 0, len(r.messages))
	for _, msg := range r.messages {
		out = append(out, msg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Len returns the number of messages.
func (r *Registry) Len() int {
	return len(r.messages)
}
