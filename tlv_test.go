package iso8583

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseTLV(t *testing.T) {
	data := mustHex(t, "9F0206000000010000"+"5A084761739001010010"+"9F3602001C")
	tlvs, err := ParseTLV(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tlvs) != 3 {
		t.Fatalf("got %d objects", len(tlvs))
	}
	if tlvs[0].Tag != "9F02" || ToHex(tlvs[0].Value) != "000000010000" {
		t.Fatalf("first object: %+v", tlvs[0])
	}
	if pan, ok := FindTLV(tlvs, "5a"); !ok || ToHex(pan.Value) != "4761739001010010" {
		t.Fatalf("find 5A: %+v %v", pan, ok)
	}

	packed, err := PackTLV(tlvs)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !bytes.Equal(packed, data) {
		t.Fatalf("repack: got %X", packed)
	}
}

func TestTLVLongFormLength(t *testing.T) {
	value := bytes.Repeat([]byte{0xAB}, 200)
	packed, err := PackTLV([]TLV{{Tag: "DF01", Value: value}})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !bytes.Equal(packed[:4], []byte{0xDF, 0x01, 0x81, 0xC8}) {
		t.Fatalf("header: got % X", packed[:4])
	}
	tlvs, err := ParseTLV(packed)
	if err != nil || len(tlvs) != 1 || !bytes.Equal(tlvs[0].Value, value) {
		t.Fatalf("parse: %v", err)
	}
}

func TestParseTLVErrors(t *testing.T) {
	cases := map[string]string{
		"truncated tag":   "9F",
		"missing length":  "5A",
		"truncated value": "5A0847",
		"truncated long":  "5A82",
	}
	for name, h := range cases {
		if _, err := ParseTLV(mustHex(t, h)); !errors.Is(err, ErrTruncatedInput) {
			t.Fatalf("%s: got %v", name, err)
		}
	}
	if _, err := ParseTLV(mustHex(t, "5A8501")); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("five length bytes: got %v", err)
	}
}

func TestMessageICCData(t *testing.T) {
	m := NewMessage(Base, WithMTI("0200"))
	tlvs := []TLV{
		{Tag: "9F02", Value: mustHex(t, "000000010000")},
		{Tag: "9F36", Value: mustHex(t, "001C")},
	}
	if err := m.SetICCData(55, tlvs); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := m.Get(55); v != "9F02060000000100009F3602001C" {
		t.Fatalf("field 55: got %s", v)
	}

	packed, err := m.Pack()
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	decoded, err := Unpack(Base, packed)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	got, err := decoded.ICCData(55)
	if err != nil {
		t.Fatalf("icc data: %v", err)
	}
	if atc, ok := FindTLV(got, "9F36"); !ok || ToHex(atc.Value) != "001C" {
		t.Fatalf("9F36: %+v %v", atc, ok)
	}
}
