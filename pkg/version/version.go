// Package version provides catalog format version parsing and compatibility
// checks.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the catalog format version written and understood by this
// library.
const Current = "1.0"

// Format represents a parsed "major.minor" catalog format version.
type Format struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Format, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Format{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Format{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Format{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Format{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v Format) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v Format) Compatible(other Format) bool {
	return v.Major == other.Major
}

// Check reports whether a catalog declaring format s can be read. An empty
// s means the file predates the field and is treated as Current.
func Check(s string) error {
	if s == "" {
		return nil
	}
	declared, err := Parse(s)
	if err != nil {
		return err
	}
	current, _ := Parse(Current)
	if !current.Compatible(declared) {
		return fmt.Errorf("unsupported catalog format %s (this build reads %d.x)", declared, current.Major)
	}
	return nil
}
