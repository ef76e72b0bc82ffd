package interactive

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canpack/canpack-go/pkg/catalog"
	"github.com/canpack/canpack-go/pkg/checksum"
	"github.com/canpack/canpack-go/pkg/packer"
	"github.com/canpack/canpack-go/pkg/registry"
)

const testCatalog = `
name: shell
messages:
  - name: STEERING_CONTROL
    address: 0xE4
    size: 5
    signals:
      - {name: STEER_TORQUE_CMD, start_bit: 8, bit_length: 16, byte_order: motorola}
      - {name: STEER_REQUEST, start_bit: 16, bit_length: 1}
      - {name: COUNTER, start_bit: 28, bit_length: 2}
      - {name: CHECKSUM, start_bit: 32, bit_length: 8, checksum: xor8}
  - name: WHEEL_SPEED
    address: 0x1D0
    size: 2
    signals:
      - {name: SPEED, start_bit: 0, bit_length: 16, factor: 0.01, offset: -100}
`

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog), checksum.Default())
	require.NoError(t, err)
	reg, err := registry.New(cat)
	require.NoError(t, err)

	var out bytes.Buffer
	return New(packer.New(reg, packer.DefaultConfig()), &out), &out
}

func TestShellPack(t *testing.T) {
	s, out := newTestShell(t)

	assert.True(t, s.Execute("pack STEERING_CONTROL STEER_TORQUE_CMD=0x0102 STEER_REQUEST=1"))
	assert.True(t, s.Execute("p 0xE4 STEER_TORQUE_CMD=0x0102 STEER_REQUEST=1"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0xE4 01 02 01 00 02", lines[0])
	assert.Equal(t, "0xE4 01 02 01 10 12", lines[1])
}

func TestShellRepeatAndCounter(t *testing.T) {
	s, out := newTestShell(t)

	s.Execute("counter STEERING_CONTROL")
	assert.Contains(t, out.String(), "next counter 0 (not started)")

	out.Reset()
	s.Execute("repeat STEERING_CONTROL 5")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "0xE4 00 00 00 00 00", lines[0])
	assert.Equal(t, "0xE4 00 00 00 30 30", lines[3])
	assert.Equal(t, "0xE4 00 00 00 00 00", lines[4])

	out.Reset()
	s.Execute("counter STEERING_CONTROL")
	assert.Contains(t, out.String(), "next counter 1")

	out.Reset()
	s.Execute("reset")
	s.Execute("counter 0xE4")
	assert.Contains(t, out.String(), "not started")

	out.Reset()
	s.Execute("counter WHEEL_SPEED")
	assert.Contains(t, out.String(), "has no COUNTER signal")
}

func TestShellInspect(t *testing.T) {
	s, out := newTestShell(t)

	s.Execute("inspect WHEEL_SPEED 1027")
	output := out.String()
	assert.Contains(t, output, "WHEEL_SPEED (0x1D0)")
	assert.Contains(t, output, "raw=0x2710")
	assert.Contains(t, output, " 0\n")

	out.Reset()
	s.Execute("inspect WHEEL_SPEED 10")
	assert.Contains(t, out.String(), "Frame is 1 bytes")

	out.Reset()
	s.Execute("inspect WHEEL_SPEED zz")
	assert.Contains(t, out.String(), "Invalid hex")
}

func TestShellList(t *testing.T) {
	s, out := newTestShell(t)

	s.Execute("list")
	assert.Contains(t, out.String(), "2 messages:")
	assert.Contains(t, out.String(), "STEERING_CONTROL")
	assert.Contains(t, out.String(), "[counter, checksum=xor8]")

	out.Reset()
	s.Execute("ls WHEEL_SPEED")
	assert.Contains(t, out.String(), "SPEED")
	assert.Contains(t, out.String(), "factor=0.01 offset=-100")
}

func TestShellErrors(t *testing.T) {
	s, out := newTestShell(t)

	tests := []struct {
		line string
		want string
	}{
		{"pack NOPE", "unknown message name"},
		{"pack 0x999", "unknown message address"},
		{"pack WHEEL_SPEED GEAR=1", "unknown signal name"},
		{"pack WHEEL_SPEED SPEED", "invalid assignment"},
		{"repeat WHEEL_SPEED x", "Invalid count"},
		{"pack", "Usage: pack"},
		{"frobnicate", "Unknown command"},
	}
	for _, tt := range tests {
		out.Reset()
		assert.True(t, s.Execute(tt.line), tt.line)
		assert.Contains(t, out.String(), tt.want, tt.line)
	}
}

func TestShellQuit(t *testing.T) {
	s, _ := newTestShell(t)

	assert.True(t, s.Execute(""))
	assert.True(t, s.Execute("help"))
	assert.False(t, s.Execute("quit"))
	assert.False(t, s.Execute("q"))
}

func TestFormatFrame(t *testing.T) {
	assert.Equal(t, "", FormatFrame(nil))
	assert.Equal(t, "0A FF 00", FormatFrame([]byte{0x0A, 0xFF, 0x00}))
}
