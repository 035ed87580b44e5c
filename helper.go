package iso8583

import (
	"fmt"
	"strings"
)

const hexTableUpper = "0123456789ABCDEF"

// encodeHexUpper converts src to uppercase hex and writes it to dst.
func encodeHexUpper(dst, src []byte) {
	for i, v := range src {
		dst[i*2] = hexTableUpper[v>>4]
		dst[i*2+1] = hexTableUpper[v&0x0f]
	}
}

func hexNibble(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}

// ToHex returns data as an uppercase hex string.
func ToHex(data []byte) string {
	out := make([]byte, len(data)*2)
	encodeHexUpper(out, data)
	return string(out)
}

// FromHex decodes a hex string. Spaces and line breaks are ignored so dumps
// can be pasted as-is.
func FromHex(s string) ([]byte, error) {
	if strings.ContainsAny(s, " \n\r\t") {
		s = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\n', '\r', '\t':
				return -1
			}
			return r
		}, s)
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %d hex characters", ErrOddLength, len(s))
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidHexDigit, s[2*i:2*i+2], 2*i)
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

// Luhn returns the check digit for a PAN that does not yet carry one.
func Luhn(pan string) (int, error) {
	sum := 0
	double := true
	for i := len(pan) - 1; i >= 0; i-- {
		c := pan[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: non-digit %q in PAN", ErrInvalidFieldContent, c)
		}
		n := int(c - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return (10 - sum%10) % 10, nil
}

// IsValidPAN reports whether the last digit of pan is the Luhn digit of the rest.
func IsValidPAN(pan string) bool {
	if len(pan) < 2 {
		return false
	}
	last := pan[len(pan)-1]
	if last < '0' || last > '9' {
		return false
	}
	digit, err := Luhn(pan[:len(pan)-1])
	if err != nil {
		return false
	}
	return int(last-'0') == digit
}

// MaskPAN keeps the first 6 and last 4 characters and replaces the rest
// with 'x'. Values of 10 characters or fewer are returned unchanged.
func MaskPAN(pan string) string {
	const front, end = 6, 4
	if len(pan) <= front+end {
		return pan
	}
	return pan[:front] + strings.Repeat("x", len(pan)-front-end) + pan[len(pan)-end:]
}

// DebugDump renders data 16 bytes per line: offset, hex bytes, printable ASCII.
func DebugDump(data []byte) string {
	var sb strings.Builder
	for line := 0; line*16 < len(data); line++ {
		start := line * 16
		end := start + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(&sb, "\n%05x  ", start)
		chars := make([]byte, 0, 16)
		for _, b := range data[start:end] {
			sb.WriteByte(hexTableUpper[b>>4])
			sb.WriteByte(hexTableUpper[b&0x0f])
			sb.WriteByte(' ')
			if b < 0x20 || b > 126 {
				chars = append(chars, '.')
			} else {
				chars = append(chars, b)
			}
		}
		sb.WriteString(strings.Repeat("   ", start+16-end))
		sb.WriteByte(' ')
		sb.Write(chars)
	}
	return sb.String()
}
