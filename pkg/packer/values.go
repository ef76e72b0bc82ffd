package packer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/canpack/canpack-go/pkg/registry"
)

// ParseSignalValues parses NAME=VALUE assignments as typed on a command
// line. Values are decimal floats or 0x-prefixed hex integers.
func ParseSignalValues(args []string) ([]SignalValue, error) {
	values := make([]SignalValue, 0, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" || raw == "" {
			return nil, fmt.Errorf("invalid assignment %q (want NAME=VALUE)", arg)
		}
		v, err := parseNumber(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		values = append(values, SignalValue{Name: name, Value: v})
	}
	return values, nil
}

func parseNumber(s string) (float64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		u, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, err
		}
		return float64(u), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ResolveMessage returns the address for ref, which is either a message
// name or a numeric address (decimal or 0x hex).
func (p *Packer) ResolveMessage(ref string) (uint32, error) {
	if address, err := strconv.ParseUint(ref, 0, 32); err == nil {
		if _, err := p.registry.Message(uint32(address)); err != nil {
			return 0, err
		}
		return uint32(address), nil
	}
	return p.registry.AddressFromName(ref)
}

// Registry returns the registry the packer encodes from.
func (p *Packer) Registry() *registry.Registry {
	return p.registry
}
