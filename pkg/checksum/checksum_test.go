package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canpack/canpack-go/pkg/catalog"
)

func TestXOR8(t *testing.T) {
	sig := &catalog.Signal{Name: catalog.ChecksumSignal, BitLength: 8}
	assert.Equal(t, uint64(0x00), XOR8.Compute(1, sig, []byte{}))
	assert.Equal(t, uint64(0x01^0x02^0xF0), XOR8.Compute(1, sig, []byte{0x01, 0x02, 0xF0}))

	nibble := &catalog.Signal{Name: catalog.ChecksumSignal, BitLength: 4}
	assert.Equal(t, uint64(0x3), XOR8.Compute(1, nibble, []byte{0x01, 0x02, 0xF0}))
}

func TestSum8(t *testing.T) {
	sig := &catalog.Signal{Name: catalog.ChecksumSignal, BitLength: 8}
	assert.Equal(t, uint64(0x03), Sum8.Compute(1, sig, []byte{0x01, 0x02}))
	assert.Equal(t, uint64(0x01), Sum8.Compute(1, sig, []byte{0xFF, 0x02}))
}

func TestDefaultTable(t *testing.T) {
	table := Default()
	assert.Equal(t, []string{NameSum8, NameXOR8}, table.Names())

	hook, ok := table.Resolve(NameXOR8)
	require.True(t, ok)
	sig := &catalog.Signal{BitLength: 8}
	assert.Equal(t, uint64(0x06), hook.Compute(0, sig, []byte{0x02, 0x04}))

	_, ok = table.Resolve("crc8")
	assert.False(t, ok)
}

func TestTableRegister(t *testing.T) {
	table := NewTable()
	assert.Empty(t, table.Names())

	constant := catalog.ChecksumFunc(func(uint32, *catalog.Signal, []byte) uint64 { return 0x42 })
	table.Register("const", constant)

	hook, ok := table.Resolve("const")
	require.True(t, ok)
	assert.Equal(t, uint64(0x42), hook.Compute(0, &catalog.Signal{BitLength: 8}, nil))
}

func TestTableResolvesCatalogChecksums(t *testing.T) {
	cat, err := catalog.Parse([]byte(`
messages:
  - name: M
    address: 0x10
    size: 2
    signals:
      - name: CHECKSUM
        start_bit: 8
        bit_length: 8
        checksum: sum8
`), Default())
	require.NoError(t, err)

	cs := cat.Messages[0].Signal(catalog.ChecksumSignal)
	require.NotNil(t, cs)
	assert.Equal(t, NameSum8, cs.ChecksumName)
	assert.Equal(t, uint64(0x07), cs.Checksum.Compute(0x10, cs, []byte{0x07, 0x00}))
}
