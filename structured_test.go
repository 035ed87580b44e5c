package iso8583

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestStructuredDataBinary(t *testing.T) {
	sd := NewStructuredData()
	sd.Add("AB", "12")
	sd.Add("C", "xyz")

	packed, err := sd.Pack(StructuredBinary)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	want := []byte{2, 2, 'A', 'B', 2, '1', '2', 1, 'C', 3, 'x', 'y', 'z'}
	if !bytes.Equal(packed, want) {
		t.Fatalf("pack: got % X want % X", packed, want)
	}

	decoded, err := UnpackStructuredData(packed, StructuredBinary)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if !reflect.DeepEqual(decoded.Entries(), sd.Entries()) {
		t.Fatalf("entries: got %+v want %+v", decoded.Entries(), sd.Entries())
	}
}

func TestStructuredDataDigits(t *testing.T) {
	sd := NewStructuredData()
	sd.Add("key", "value")
	sd.Add("Long", strings.Repeat("v", 12))

	packed, err := sd.Pack(StructuredDigits)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	want := "13key15value" + "14Long212" + strings.Repeat("v", 12)
	if string(packed) != want {
		t.Fatalf("pack: got %q want %q", packed, want)
	}

	decoded, err := UnpackStructuredData(packed, StructuredDigits)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if v, ok := decoded.Get("Long"); !ok || len(v) != 12 {
		t.Fatalf("get Long: %q %v", v, ok)
	}
}

func TestStructuredDataEditing(t *testing.T) {
	sd := NewStructuredData()
	sd.Set("a", "1")
	sd.Set("b", "2")
	sd.Set("a", "3")
	if sd.Len() != 2 {
		t.Fatalf("len: got %d", sd.Len())
	}
	if v, _ := sd.Get("a"); v != "3" {
		t.Fatalf("set should replace: got %q", v)
	}
	if !sd.Remove("a") || sd.Remove("a") {
		t.Fatalf("remove reported wrong result")
	}
	if got := sd.Entries(); !reflect.DeepEqual(got, []Entry{{Tag: "b", Value: "2"}}) {
		t.Fatalf("entries: %+v", got)
	}
}

func TestStructuredDataErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		enc  StructuredEncoding
		want error
	}{
		{"empty binary", nil, StructuredBinary, ErrTruncatedInput},
		{"binary value past end", []byte{1, 1, 'a', 5, 'b'}, StructuredBinary, ErrTruncatedInput},
		{"binary trailing bytes", []byte{1, 1, 'a', 1, 'b', 'z'}, StructuredBinary, ErrLengthMismatch},
		{"digits bad width", []byte("0key"), StructuredDigits, ErrInvalidLength},
		{"digits value past end", []byte("13key19value"), StructuredDigits, ErrTruncatedInput},
		{"digits missing value", []byte("13key"), StructuredDigits, ErrTruncatedInput},
	}
	for _, tc := range cases {
		if _, err := UnpackStructuredData(tc.data, tc.enc); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}

	sd := NewStructuredData()
	sd.Add(strings.Repeat("t", 256), "v")
	if _, err := sd.Pack(StructuredBinary); !errors.Is(err, ErrValueTooLong) {
		t.Fatalf("long tag: got %v", err)
	}
}
