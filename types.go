package iso8583

import (
	"encoding/json"
	"strings"
)

type FieldType int

const (
	FieldTypeANS FieldType = iota
	FieldTypeAN
	FieldTypeN
	FieldTypeB
	FieldTypeZ
	FieldTypeBCD
	FieldTypeCustom
)

func (ft FieldType) String() string {
	switch ft {
	case FieldTypeANS:
		return "ans"
	case FieldTypeAN:
		return "an"
	case FieldTypeN:
		return "n"
	case FieldTypeB:
		return "b"
	case FieldTypeZ:
		return "z"
	case FieldTypeBCD:
		return "bcd"
	default:
		return "custom"
	}
}

func parseFieldTypeString(s string) FieldType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ANS":
		return FieldTypeANS
	case "AN":
		return FieldTypeAN
	case "N":
		return FieldTypeN
	case "B":
		return FieldTypeB
	case "Z":
		return FieldTypeZ
	case "BCD":
		return FieldTypeBCD
	default:
		return FieldTypeCustom
	}
}

type BitmapEncoding int

const (
	BitmapEncodingBinary BitmapEncoding = iota
	BitmapEncodingHex
)

func (e BitmapEncoding) blockSize() int {
	if e == BitmapEncodingHex {
		return BitmapSize * 2
	}
	return BitmapSize
}

// indicator is the leading byte used by dialects that announce the bitmap
// encoding in front of the MTI.
func (e BitmapEncoding) indicator() byte {
	if e == BitmapEncodingHex {
		return 'A'
	}
	return 'B'
}

type MessageTypeFormat int

const (
	// MessageTypeNone is used by sub-message dialects that carry no MTI.
	MessageTypeNone MessageTypeFormat = iota
	MessageTypeASCII
	MessageTypeBCD
)

func (f MessageTypeFormat) size() int {
	switch f {
	case MessageTypeASCII:
		return 4
	case MessageTypeBCD:
		return 2
	}
	return 0
}

// FieldKind selects which variant of content a field holds.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindNested
	KindStructured
)

func (k FieldKind) String() string {
	switch k {
	case KindNested:
		return "nested"
	case KindStructured:
		return "structured"
	}
	return "scalar"
}

type Padding int

const (
	PadLeft Padding = iota
	PadRight
)

type StructuredEncoding int

const (
	// StructuredBinary is [count:1][(tagLen:1)(tag)(valLen:1)(val)]*.
	StructuredBinary StructuredEncoding = iota
	// StructuredDigits writes tag and value as [digit count][length][bytes], e.g. "13key15value".
	StructuredDigits
)

// FieldConfig describes one field in a dialect configuration file.
type FieldConfig struct {
	Type        FieldType      `json:"type" yaml:"type" toml:"type"`
	Length      string         `json:"length" yaml:"length" toml:"length"`
	MaxLength   int            `json:"max_length" yaml:"max_length" toml:"max_length"`
	MinLength   int            `json:"min_length" yaml:"min_length" toml:"min_length"`
	Kind        string         `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Padding     string         `json:"padding,omitempty" yaml:"padding,omitempty" toml:"padding,omitempty"`
	Structured  string         `json:"structured,omitempty" yaml:"structured,omitempty" toml:"structured,omitempty"`
	Pattern     string         `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Sub         *DialectConfig `json:"sub,omitempty" yaml:"sub,omitempty" toml:"sub,omitempty"`
}

func (fc *FieldConfig) UnmarshalJSON(data []byte) error {
	type Alias FieldConfig
	aux := &struct {
		Type interface{} `json:"type"`
		*Alias
	}{
		Alias: (*Alias)(fc),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch v := aux.Type.(type) {
	case float64:
		fc.Type = FieldType(v)
	case string:
		fc.Type = parseFieldTypeString(v)
	}

	return nil
}

// UnmarshalText lets YAML and TOML decoders accept "n", "ans", "b", ...
func (ft *FieldType) UnmarshalText(text []byte) error {
	*ft = parseFieldTypeString(string(text))
	return nil
}

// DialectConfig is the file representation of a Dialect. Field keys are
// decimal field numbers so the same shape works for JSON, YAML and TOML.
// Extends names a built-in dialect whose fields and framing are inherited.
type DialectConfig struct {
	Name            string                 `json:"name" yaml:"name" toml:"name"`
	Extends         string                 `json:"extends,omitempty" yaml:"extends,omitempty" toml:"extends,omitempty"`
	MessageType     string                 `json:"message_type" yaml:"message_type" toml:"message_type"`
	BitmapEncoding  string                 `json:"bitmap_encoding" yaml:"bitmap_encoding" toml:"bitmap_encoding"`
	BitmapIndicator bool                   `json:"bitmap_indicator" yaml:"bitmap_indicator" toml:"bitmap_indicator"`
	BitmapBlocks    int                    `json:"bitmap_blocks" yaml:"bitmap_blocks" toml:"bitmap_blocks"`
	Fields          map[string]FieldConfig `json:"fields" yaml:"fields" toml:"fields"`
}

const (
	DefaultBufferSize   = 8192
	DefaultBitmapBlocks = 3
	BitmapSize          = 8
)
