package iso8583

import "fmt"

// LengthFormatter writes and reads the length rule of a field. Lengths are
// always counted in wire bytes, after the value formatter has run.
type LengthFormatter interface {
	PackLength(value []byte) ([]byte, error)
	UnpackLength(data []byte, offset int) (length int, consumed int, err error)
	MaxLength() int
}

// FixedLength is a constant, implicit length.
type FixedLength struct {
	Length int
}

func (f FixedLength) PackLength(value []byte) ([]byte, error) {
	if len(value) != f.Length {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrLengthMismatch, f.Length, len(value))
	}
	return nil, nil
}

func (f FixedLength) UnpackLength(data []byte, offset int) (int, int, error) {
	return f.Length, 0, nil
}

func (f FixedLength) MaxLength() int { return f.Length }

// VariableLength is an ASCII decimal prefix of Digits characters (LLVAR,
// LLLVAR, ...) bounded by Min and Max.
type VariableLength struct {
	Digits int
	Min    int
	Max    int
}

// NewVariableLength returns a variable length rule with no lower bound.
func NewVariableLength(digits, max int) VariableLength {
	return VariableLength{Digits: digits, Max: max}
}

func (v VariableLength) limit() int {
	n := 1
	for i := 0; i < v.Digits; i++ {
		n *= 10
	}
	return n - 1
}

func (v VariableLength) PackLength(value []byte) ([]byte, error) {
	n := len(value)
	if n > v.limit() {
		return nil, fmt.Errorf("%w: %d bytes do not fit a %d digit length", ErrValueTooLong, n, v.Digits)
	}
	if v.Max > 0 && n > v.Max {
		return nil, fmt.Errorf("%w: %d bytes exceeds maximum %d", ErrValueTooLong, n, v.Max)
	}
	if n < v.Min {
		return nil, fmt.Errorf("%w: %d bytes below minimum %d", ErrLengthOutOfRange, n, v.Min)
	}
	buf := make([]byte, v.Digits)
	writeIntToASCII(buf, n, v.Digits)
	return buf, nil
}

func (v VariableLength) UnpackLength(data []byte, offset int) (int, int, error) {
	if offset < 0 || len(data)-offset < v.Digits {
		return 0, 0, fmt.Errorf("%w: length prefix needs %d bytes at offset %d", ErrTruncatedInput, v.Digits, offset)
	}
	n, err := parseASCIIToInt(data[offset : offset+v.Digits])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidLength, err)
	}
	max := v.Max
	if max <= 0 {
		max = v.limit()
	}
	if n < v.Min || n > max {
		return 0, 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrLengthOutOfRange, n, v.Min, max)
	}
	return n, v.Digits, nil
}

func (v VariableLength) MaxLength() int {
	if v.Max > 0 {
		return v.Max
	}
	return v.limit()
}

// writeIntToASCII formats val as a zero-padded decimal of exactly digits bytes.
func writeIntToASCII(buf []byte, val, digits int) {
	for i := digits - 1; i >= 0; i-- {
		buf[i] = byte(val%10 + '0')
		val /= 10
	}
}

// parseASCIIToInt parses ASCII digits without allocating.
func parseASCIIToInt(b []byte) (int, error) {
	n := 0
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("invalid character %q in numeric string", ch)
		}
		n = n*10 + int(ch-'0')
	}
	return n, nil
}
