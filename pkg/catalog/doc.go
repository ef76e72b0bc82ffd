// Package catalog defines the message/signal schema consumed by the packer.
//
// A Catalog lists fixed-size messages, each identified by a bus address and
// a unique name, and the named bit-fields (signals) inside them. Catalogs are
// normally produced by an external schema loader; Parse, ParseTOML and Load
// read a small YAML/TOML description of the same model for fixtures and
// tooling.
//
// # Reserved Signal Names
//
// Two signal names have special meaning to the packer:
//   - COUNTER: rolling counter, injected automatically when not supplied
//   - CHECKSUM: computed by the signal's Checksum hook after all other
//     fields are written
//
// # Checksum Hooks
//
// A Checksum is bound per signal when the catalog is built. The packer calls
// it through the interface without knowing the concrete algorithm.
package catalog
