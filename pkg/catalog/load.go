package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/canpack/canpack-go/pkg/bits"
	"github.com/canpack/canpack-go/pkg/version"
)

// HookResolver maps checksum algorithm names to hooks.
type HookResolver interface {
	Resolve(name string) (Checksum, bool)
}

// RawCatalog is the on-disk catalog description. Format is the optional
// "major.minor" catalog format version.
type RawCatalog struct {
	Format   string       `yaml:"format" toml:"format"`
	Name     string       `yaml:"name" toml:"name"`
	Messages []RawMessage `yaml:"messages" toml:"messages"`
}

// RawMessage is one message entry in a catalog file.
type RawMessage struct {
	Name    string      `yaml:"name" toml:"name"`
	Address uint32      `yaml:"address" toml:"address"`
	Size    int         `yaml:"size" toml:"size"`
	Signals []RawSignal `yaml:"signals" toml:"signals"`
}

// RawSignal is one signal entry in a catalog file.
// Factor defaults to 1 when absent.
type RawSignal struct {
	Name      string   `yaml:"name" toml:"name"`
	StartBit  int      `yaml:"start_bit" toml:"start_bit"`
	BitLength int      `yaml:"bit_length" toml:"bit_length"`
	ByteOrder string   `yaml:"byte_order" toml:"byte_order"`
	Factor    *float64 `yaml:"factor" toml:"factor"`
	Offset    float64  `yaml:"offset" toml:"offset"`
	Checksum  string   `yaml:"checksum" toml:"checksum"`
}

// Parse parses a YAML catalog description and validates the result.
// resolver binds named checksum algorithms and may be nil when the catalog
// names none.
func Parse(data []byte, resolver HookResolver) (*Catalog, error) {
	var raw RawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return raw.Build(resolver)
}

// ParseTOML parses a TOML catalog description and validates the result.
func ParseTOML(data []byte, resolver HookResolver) (*Catalog, error) {
	var raw RawCatalog
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return raw.Build(resolver)
}

// Load reads a catalog file. The format is chosen by extension:
// .yaml/.yml or .toml.
func Load(path string, resolver HookResolver) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cat *Catalog
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cat, err = Parse(data, resolver)
	case ".toml":
		cat, err = ParseTOML(data, resolver)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (want .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cat.Name == "" {
		cat.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cat, nil
}

// Build converts the raw description into a validated Catalog.
func (r *RawCatalog) Build(resolver HookResolver) (*Catalog, error) {
	if err := version.Check(r.Format); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", r.Name, err)
	}

	cat := &Catalog{
		Name:     r.Name,
		Messages: make([]Message, 0, len(r.Messages)),
	}

	for _, rm := range r.Messages {
		msg := Message{
			Address: rm.Address,
			Name:    rm.Name,
			Size:    rm.Size,
			Signals: make([]Signal, 0, len(rm.Signals)),
		}
		for _, rs := range rm.Signals {
			sig, err := rs.build(resolver)
			if err != nil {
				return nil, &ValidationError{Message: rm.Name, Address: rm.Address, Signal: rs.Name, Reason: err.Error()}
			}
			msg.Signals = append(msg.Signals, sig)
		}
		cat.Messages = append(cat.Messages, msg)
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (rs RawSignal) build(resolver HookResolver) (Signal, error) {
	order, err := bits.ParseOrder(rs.ByteOrder)
	if err != nil {
		return Signal{}, err
	}

	sig := Signal{
		Name:      rs.Name,
		StartBit:  rs.StartBit,
		BitLength: rs.BitLength,
		Order:     order,
		Factor:    1,
		Offset:    rs.Offset,
	}
	if rs.Factor != nil {
		sig.Factor = *rs.Factor
	}

	if rs.Checksum != "" {
		if resolver == nil {
			return Signal{}, fmt.Errorf("checksum %q named but no resolver configured", rs.Checksum)
		}
		hook, ok := resolver.Resolve(rs.Checksum)
		if !ok {
			return Signal{}, fmt.Errorf("unknown checksum algorithm %q", rs.Checksum)
		}
		sig.Checksum = hook
		sig.ChecksumName = rs.Checksum
	}
	return sig, nil
}
