// Package checksum provides a name-addressed table of checksum hooks.
//
// The table resolves the algorithm names used in catalog files. Only two
// generic byte folds are built in; protocol-specific algorithms are
// registered by the application.
package checksum

import (
	"sort"

	"github.com/canpack/canpack-go/pkg/catalog"
)

// Built-in algorithm names.
const (
	NameXOR8 = "xor8"
	NameSum8 = "sum8"
)

// XOR8 folds every byte of the frame with XOR.
var XOR8 = catalog.ChecksumFunc(func(_ uint32, sig *catalog.Signal, buf []byte) uint64 {
	var acc byte
	for _, b := range buf {
		acc ^= b
	}
	return uint64(acc) & sig.Mask()
})

// Sum8 adds every byte of the frame modulo 256.
var Sum8 = catalog.ChecksumFunc(func(_ uint32, sig *catalog.Signal, buf []byte) uint64 {
	var acc byte
	for _, b := range buf {
		acc += b
	}
	return uint64(acc) & sig.Mask()
})

// Table maps algorithm names to hooks. It implements catalog.HookResolver.
// Register is not safe for concurrent use with Resolve; populate the table
// before loading catalogs.
type Table struct {
	hooks map[string]catalog.Checksum
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{hooks: make(map[string]catalog.Checksum)}
}

// Default returns a table holding the built-in algorithms.
func Default() *Table {
	t := NewTable()
	t.Register(NameXOR8, XOR8)
	t.Register(NameSum8, Sum8)
	return t
}

// Register binds name to hook, replacing any previous binding.
func (t *Table) Register(name string, hook catalog.Checksum) {
	t.hooks[name] = hook
}

// Resolve returns the hook registered under name.
func (t *Table) Resolve(name string) (catalog.Checksum, bool) {
	hook, ok := t.hooks[name]
	return hook, ok
}

// Names returns the registered names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.hooks))
	for name := range t.hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ catalog.HookResolver = (*Table)(nil)
