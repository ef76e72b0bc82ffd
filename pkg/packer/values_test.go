package packer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canpack/canpack-go/pkg/packer"
	"github.com/canpack/canpack-go/pkg/registry"
)

func TestParseSignalValues(t *testing.T) {
	values, err := packer.ParseSignalValues([]string{"A=5", "B=-1.25", "C=0xFF", "D=1e3"})
	require.NoError(t, err)
	assert.Equal(t, []packer.SignalValue{
		{Name: "A", Value: 5},
		{Name: "B", Value: -1.25},
		{Name: "C", Value: 255},
		{Name: "D", Value: 1000},
	}, values)

	empty, err := packer.ParseSignalValues(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseSignalValuesErrors(t *testing.T) {
	for _, arg := range []string{"A", "=5", "A=", "A=five", "A=0xZZ"} {
		_, err := packer.ParseSignalValues([]string{arg})
		assert.Error(t, err, arg)
	}
}

func TestResolveMessage(t *testing.T) {
	p := newPacker(t, nil, packer.DefaultConfig())

	tests := []struct {
		ref  string
		want uint32
	}{
		{"BYTE", addrByte},
		{"0x101", addrNibble},
		{"258", addrCounter},
	}
	for _, tt := range tests {
		got, err := p.ResolveMessage(tt.ref)
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}

	_, err := p.ResolveMessage("0x999")
	assert.ErrorIs(t, err, registry.ErrUnknownMessageAddress)
	_, err = p.ResolveMessage("NOPE")
	assert.ErrorIs(t, err, registry.ErrUnknownMessageName)

	assert.Equal(t, 5, p.Registry().Len())
}
