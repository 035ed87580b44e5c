package iso8583

import (
	"bytes"
	"errors"
	"testing"
)

func TestVariableLengthPack(t *testing.T) {
	ll := NewVariableLength(2, 19)

	prefix, err := ll.PackLength([]byte("4761739001010010"))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if string(prefix) != "16" {
		t.Fatalf("prefix: got %q", prefix)
	}

	prefix, err = ll.PackLength(nil)
	if err != nil || string(prefix) != "00" {
		t.Fatalf("empty: got %q, %v", prefix, err)
	}

	if _, err := ll.PackLength(make([]byte, 20)); !errors.Is(err, ErrValueTooLong) {
		t.Fatalf("over max: got %v", err)
	}
	if _, err := NewVariableLength(2, 0).PackLength(make([]byte, 100)); !errors.Is(err, ErrValueTooLong) {
		t.Fatalf("over digit width: got %v", err)
	}

	bounded := VariableLength{Digits: 3, Min: 4, Max: 10}
	if _, err := bounded.PackLength([]byte("abc")); !errors.Is(err, ErrLengthOutOfRange) {
		t.Fatalf("under min: got %v", err)
	}
	prefix, err = bounded.PackLength([]byte("abcd"))
	if err != nil || string(prefix) != "004" {
		t.Fatalf("lllvar: got %q, %v", prefix, err)
	}
}

func TestVariableLengthUnpack(t *testing.T) {
	ll := NewVariableLength(2, 19)

	n, consumed, err := ll.UnpackLength([]byte("xx16rest"), 2)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if n != 16 || consumed != 2 {
		t.Fatalf("got length %d consumed %d", n, consumed)
	}

	cases := []struct {
		name string
		data string
		want error
	}{
		{"short prefix", "1", ErrTruncatedInput},
		{"non digit", "1A", ErrInvalidLength},
		{"above max", "20", ErrLengthOutOfRange},
	}
	for _, tc := range cases {
		if _, _, err := ll.UnpackLength([]byte(tc.data), 0); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}

	bounded := VariableLength{Digits: 2, Min: 2, Max: 8}
	if _, _, err := bounded.UnpackLength([]byte("01"), 0); !errors.Is(err, ErrLengthOutOfRange) {
		t.Fatalf("below min: got %v", err)
	}
}

func TestFixedLength(t *testing.T) {
	f := FixedLength{Length: 6}
	prefix, err := f.PackLength([]byte("000000"))
	if err != nil || prefix != nil {
		t.Fatalf("pack: got %q, %v", prefix, err)
	}
	if _, err := f.PackLength([]byte("00000")); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("short value: got %v", err)
	}
	n, consumed, err := f.UnpackLength(nil, 0)
	if err != nil || n != 6 || consumed != 0 {
		t.Fatalf("unpack: got %d %d %v", n, consumed, err)
	}
}

func TestHexFormatter(t *testing.T) {
	encoded, err := Binary.Encode("ffffDDDD")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(encoded, []byte{0xFF, 0xFF, 0xDD, 0xDD}) {
		t.Fatalf("encode: got % X", encoded)
	}
	decoded, _ := Binary.Decode(encoded)
	if decoded != "FFFFDDDD" {
		t.Fatalf("decode: got %s", decoded)
	}

	if _, err := Binary.Encode("ABC"); !errors.Is(err, ErrOddLength) {
		t.Fatalf("odd: got %v", err)
	}
	if _, err := Binary.Encode("GG"); !errors.Is(err, ErrInvalidHexDigit) {
		t.Fatalf("bad digit: got %v", err)
	}
}

func TestBCDFormatter(t *testing.T) {
	encoded, err := BCD.Encode("12345")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(encoded, []byte{0x01, 0x23, 0x45}) {
		t.Fatalf("left pad: got % X", encoded)
	}
	decoded, _ := BCD.Decode(encoded)
	if decoded != "012345" {
		t.Fatalf("a zero filler stays: got %s", decoded)
	}

	right := BCDFormatter{Pad: PadRight, Filler: 0x0F}
	encoded, _ = right.Encode("12345")
	if !bytes.Equal(encoded, []byte{0x12, 0x34, 0x5F}) {
		t.Fatalf("right pad: got % X", encoded)
	}
	decoded, err = right.Decode(encoded)
	if err != nil || decoded != "12345" {
		t.Fatalf("right pad decode: got %s, %v", decoded, err)
	}

	if _, err := BCD.Encode("12a4"); !errors.Is(err, ErrInvalidFieldContent) {
		t.Fatalf("non digit: got %v", err)
	}
	if _, err := BCD.Decode([]byte{0x1A}); !errors.Is(err, ErrInvalidFieldContent) {
		t.Fatalf("bad nibble: got %v", err)
	}
}

func TestValidators(t *testing.T) {
	cases := []struct {
		rule  Validator
		value string
		ok    bool
	}{
		{Numeric, "000123", true},
		{Numeric, "12a", false},
		{AlphaNumeric, "Term 01", true},
		{AlphaNumeric, "a-b", false},
		{AlphaNumericSpecial, "a-b/c!", true},
		{AlphaNumericSpecial, "tab\t", false},
		{Hex, "0aFF", true},
		{Hex, "0aF", false},
		{Track2, "4761739001010010=15122011143804489", true},
		{Track2, "4761739001010010X15", false},
		{&RangeRule{Min: 1, Max: 99}, "42", true},
		{&RangeRule{Min: 1, Max: 99}, "100", false},
		{&AlphanumericRule{CustomCharset: "ABC"}, "CAB", true},
		{&AlphanumericRule{CustomCharset: "ABC"}, "CAD", false},
	}
	for _, tc := range cases {
		err := tc.rule.Validate(tc.value)
		if (err == nil) != tc.ok {
			t.Fatalf("%s(%q): got %v, want ok=%v", tc.rule.Name(), tc.value, err, tc.ok)
		}
	}

	rule, err := NewRegexRule(`^[0-9]{3}$`, "three digits")
	if err != nil {
		t.Fatalf("regex: %v", err)
	}
	if rule.Validate("123") != nil || rule.Validate("12") == nil {
		t.Fatalf("regex rule did not match as expected")
	}
	if _, err := NewRegexRule(`([`, "broken"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("bad pattern: got %v", err)
	}
}
