package bits

import (
	"fmt"
	"strings"
)

// Order is the direction in which a multi-byte field continues.
type Order uint8

const (
	// Forward continues into increasing byte indices.
	Forward Order = 0
	// Reverse continues into decreasing byte indices.
	Reverse Order = 1
)

// String returns the order name.
func (o Order) String() string {
	switch o {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// step returns the byte index delta between consecutive chunks.
func (o Order) step() int {
	if o == Reverse {
		return -1
	}
	return 1
}

// ParseOrder parses an order name (case-insensitive). The common DBC
// aliases for both orders are accepted.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward", "little_endian", "little", "intel":
		return Forward, nil
	case "reverse", "big_endian", "big", "motorola":
		return Reverse, nil
	default:
		return 0, fmt.Errorf("invalid byte order: %q", s)
	}
}

// Set writes the low bitLength bits of value into buf, starting at bit
// startBit and continuing in the given order.
//
// Only the target bits are modified. Bits that would land outside buf are
// dropped.
func Set(buf []byte, startBit, bitLength int, order Order, value uint64) {
	if bitLength < 64 {
		value &= (1 << uint(bitLength)) - 1
	}

	i := startBit / 8
	shift := startBit % 8
	remaining := bitLength
	step := order.step()

	for i >= 0 && i < len(buf) && remaining > 0 {
		size := min(remaining, 8-shift)
		mask := byte(0xFF>>(8-size)) << shift

		buf[i] = buf[i]&^mask | byte(value<<shift)&mask

		remaining -= size
		value >>= size
		shift = 0
		i += step
	}
}

// Get reads a bitLength-bit unsigned field from buf using the same
// traversal as Set. Bits outside buf read as zero.
func Get(buf []byte, startBit, bitLength int, order Order) uint64 {
	var value uint64

	i := startBit / 8
	shift := startBit % 8
	got := 0
	step := order.step()

	for i >= 0 && i < len(buf) && got < bitLength {
		size := min(bitLength-got, 8-shift)
		chunk := uint64(buf[i]>>shift) & (0xFF >> (8 - size))

		value |= chunk << got

		got += size
		shift = 0
		i += step
	}
	return value
}

// Fits reports whether every bit of the field lies inside a buffer of size
// bytes.
func Fits(size, startBit, bitLength int, order Order) bool {
	if size <= 0 || startBit < 0 || bitLength <= 0 {
		return false
	}
	first := startBit / 8
	if first >= size {
		return false
	}
	span := (startBit%8 + bitLength + 7) / 8
	if order == Reverse {
		return first-(span-1) >= 0
	}
	return first+span-1 < size
}
