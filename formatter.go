package iso8583

import "fmt"

// ValueFormatter converts a field's string value to and from wire bytes.
type ValueFormatter interface {
	Encode(value string) ([]byte, error)
	Decode(data []byte) (string, error)
}

var (
	ASCII ValueFormatter = asciiFormatter{}
	// Binary carries raw bytes; its string form is uppercase hex.
	Binary ValueFormatter = hexFormatter{}
	// BCD packs two decimal digits per byte, left padded with a zero nibble.
	BCD ValueFormatter = BCDFormatter{Pad: PadLeft}
)

type asciiFormatter struct{}

func (asciiFormatter) Encode(value string) ([]byte, error) { return []byte(value), nil }

func (asciiFormatter) Decode(data []byte) (string, error) { return string(data), nil }

type hexFormatter struct{}

func (hexFormatter) Encode(value string) ([]byte, error) { return FromHex(value) }

func (hexFormatter) Decode(data []byte) (string, error) { return ToHex(data), nil }

// BCDFormatter packs decimal digits two per byte. An odd digit count is
// padded with Filler on the side given by Pad. A Filler above 9 is stripped
// again on decode; a digit filler cannot be told apart from data and stays.
type BCDFormatter struct {
	Pad    Padding
	Filler byte
}

func (f BCDFormatter) Encode(value string) ([]byte, error) {
	digits := []byte(value)
	for i, c := range digits {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: non-digit %q at position %d in BCD value", ErrInvalidFieldContent, c, i)
		}
		digits[i] = c - '0'
	}
	if len(digits)%2 != 0 {
		if f.Pad == PadRight {
			digits = append(digits, f.Filler&0x0F)
		} else {
			digits = append([]byte{f.Filler & 0x0F}, digits...)
		}
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = digits[2*i]<<4 | digits[2*i+1]
	}
	return out, nil
}

func (f BCDFormatter) Decode(data []byte) (string, error) {
	out := make([]byte, 0, len(data)*2)
	for i, b := range data {
		for j, nib := range [2]byte{b >> 4, b & 0x0F} {
			if nib > 9 {
				first := i == 0 && j == 0
				last := i == len(data)-1 && j == 1
				if nib == f.Filler&0x0F && ((f.Pad == PadLeft && first) || (f.Pad == PadRight && last)) {
					continue
				}
				return "", fmt.Errorf("%w: nibble %X at byte %d is not a BCD digit", ErrInvalidFieldContent, nib, i)
			}
			out = append(out, '0'+nib)
		}
	}
	return string(out), nil
}
