package iso8583

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadDialectJSON builds a dialect from its JSON description.
func LoadDialectJSON(data []byte) (*Dialect, error) {
	var config DialectConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse dialect config: %w", err)
	}
	return config.Build()
}

// LoadDialectYAML builds a dialect from its YAML description.
func LoadDialectYAML(data []byte) (*Dialect, error) {
	var config DialectConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse dialect config: %w", err)
	}
	return config.Build()
}

// LoadDialectTOML builds a dialect from its TOML description.
func LoadDialectTOML(data []byte) (*Dialect, error) {
	var config DialectConfig
	if _, err := toml.Decode(string(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse dialect config: %w", err)
	}
	return config.Build()
}

// LoadDialectFile picks the decoder from the file extension (.json, .yaml,
// .yml or .toml).
func LoadDialectFile(path string) (*Dialect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dialect config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadDialectJSON(data)
	case ".yaml", ".yml":
		return LoadDialectYAML(data)
	case ".toml":
		return LoadDialectTOML(data)
	}
	return nil, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, filepath.Ext(path))
}

// Build validates the configuration and produces an immutable Dialect.
func (c *DialectConfig) Build() (*Dialect, error) {
	return c.build(MessageTypeASCII)
}

func (c *DialectConfig) build(defaultMTI MessageTypeFormat) (*Dialect, error) {
	var base *Dialect
	if c.Extends != "" {
		d, ok := BuiltinDialect(c.Extends)
		if !ok {
			return nil, fmt.Errorf("%w: unknown base dialect %q", ErrInvalidConfig, c.Extends)
		}
		base = d
	}

	name := c.Name
	if name == "" {
		name = "custom"
	}

	var opts []DialectOption
	if base == nil || c.MessageType != "" {
		mt, err := parseMessageType(c.MessageType, defaultMTI)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithMessageType(mt))
	}
	if c.BitmapEncoding != "" {
		enc, err := parseBitmapEncoding(c.BitmapEncoding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithBitmapEncoding(enc))
	}
	if c.BitmapIndicator {
		opts = append(opts, WithBitmapIndicator(true))
	}
	if c.BitmapBlocks != 0 {
		opts = append(opts, WithBitmapBlocks(c.BitmapBlocks))
	}

	for key, fc := range c.Fields {
		n, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w: field key %q is not a number", ErrInvalidConfig, key)
		}
		fd, err := fc.descriptor()
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", n, err)
		}
		opts = append(opts, WithField(n, fd))
	}

	return newDialect(name, base, opts...)
}

func parseMessageType(s string, def MessageTypeFormat) (MessageTypeFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "ascii":
		return MessageTypeASCII, nil
	case "bcd":
		return MessageTypeBCD, nil
	case "none":
		return MessageTypeNone, nil
	}
	return 0, fmt.Errorf("%w: message type %q", ErrInvalidConfig, s)
}

func parseBitmapEncoding(s string) (BitmapEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binary", "b":
		return BitmapEncodingBinary, nil
	case "hex", "ascii", "a":
		return BitmapEncodingHex, nil
	}
	return 0, fmt.Errorf("%w: bitmap encoding %q", ErrInvalidConfig, s)
}

// lengthDigits maps "fixed" to 0 and "llvar", "lllvar", ... to the number of
// L's, which is the digit count of the length prefix.
func lengthDigits(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "fixed" || s == "" {
		return 0, nil
	}
	l := strings.TrimSuffix(s, "var")
	if l == s || l == "" || strings.Trim(l, "l") != "" || len(l) > 9 {
		return 0, fmt.Errorf("%w: length %q", ErrInvalidConfig, s)
	}
	return len(l), nil
}

// descriptor converts a field description. MaxLength and MinLength count
// wire bytes, the same unit the length prefix carries.
func (fc FieldConfig) descriptor() (*FieldDescriptor, error) {
	digits, err := lengthDigits(fc.Length)
	if err != nil {
		return nil, err
	}
	if fc.MaxLength <= 0 {
		return nil, fmt.Errorf("%w: max_length must be positive", ErrInvalidConfig)
	}

	var length LengthFormatter = FixedLength{Length: fc.MaxLength}
	if digits > 0 {
		length = VariableLength{Digits: digits, Min: fc.MinLength, Max: fc.MaxLength}
	}

	kind := strings.ToLower(strings.TrimSpace(fc.Kind))
	switch kind {
	case "nested":
		if fc.Sub == nil {
			return nil, fmt.Errorf("%w: nested field needs a sub dialect", ErrInvalidConfig)
		}
		sub, err := fc.Sub.build(MessageTypeNone)
		if err != nil {
			return nil, fmt.Errorf("sub dialect: %w", err)
		}
		return &FieldDescriptor{Length: length, Formatter: ASCII, Kind: KindNested, Sub: sub, Description: fc.Description}, nil
	case "structured":
		enc := StructuredBinary
		switch strings.ToLower(fc.Structured) {
		case "", "binary":
		case "digits":
			enc = StructuredDigits
		default:
			return nil, fmt.Errorf("%w: structured encoding %q", ErrInvalidConfig, fc.Structured)
		}
		return &FieldDescriptor{Length: length, Formatter: ASCII, Kind: KindStructured, Structured: enc, Description: fc.Description}, nil
	case "", "scalar":
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidConfig, fc.Kind)
	}

	fd := NewFieldDescriptor(fc.Type, length)
	fd.Description = fc.Description
	if fc.Type == FieldTypeBCD {
		switch strings.ToLower(fc.Padding) {
		case "", "left":
		case "right":
			fd.Formatter = BCDFormatter{Pad: PadRight, Filler: 0x0F}
		default:
			return nil, fmt.Errorf("%w: padding %q", ErrInvalidConfig, fc.Padding)
		}
	}
	if fc.Pattern != "" {
		rule, err := NewRegexRule(fc.Pattern, fc.Description)
		if err != nil {
			return nil, err
		}
		fd.Validator = rule
	}
	return fd, nil
}
