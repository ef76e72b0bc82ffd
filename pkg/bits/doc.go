// Package bits places and extracts unsigned bit-fields inside byte buffers.
//
// # Bit Layout
//
// Each byte holds 8 bits, least-significant bit first. A field is addressed
// by the bit index of its least-significant bit, counted from the start of
// the buffer (bit 0 is the LSB of byte 0, bit 8 is the LSB of byte 1).
//
// A field that does not fit in its first byte continues at bit 0 of the
// next byte in the traversal direction:
//   - Forward: increasing byte indices (little endian, "Intel")
//   - Reverse: decreasing byte indices (big endian, "Motorola")
//
// # Bounds
//
// Writes and reads stop silently at the buffer edge. Use Fits to check a
// field against a buffer size ahead of time.
package bits
