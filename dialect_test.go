package iso8583

import (
	"errors"
	"testing"
)

func TestBuiltinDialects(t *testing.T) {
	for _, name := range []string{"iso8583-1987", "iso8583-1993", "postilion", "postilion-private", "termapp"} {
		d, ok := BuiltinDialect(name)
		if !ok || d.Name() != name {
			t.Fatalf("builtin %s not found", name)
		}
	}
	if _, ok := BuiltinDialect("nope"); ok {
		t.Fatalf("unexpected dialect")
	}

	fd, ok := Postilion.Descriptor(FieldPrivate)
	if !ok || fd.Kind != KindNested || fd.Sub != PostilionPrivate {
		t.Fatalf("postilion 127: %+v", fd)
	}
	if fd, _ := Base.Descriptor(FieldPrivate); fd.Kind != KindScalar {
		t.Fatalf("base 127 must stay scalar")
	}
	if PostilionPrivate.MessageType() != MessageTypeNone || PostilionPrivate.MaxField() != 64 {
		t.Fatalf("postilion private framing")
	}
	if !TermApp.BitmapIndicator() || Rev93.BitmapIndicator() {
		t.Fatalf("only termapp announces the bitmap encoding")
	}
	if _, ok := Base.Descriptor(1); ok {
		t.Fatalf("field 1 is the continuation bit")
	}
}

func TestExtendLeavesBaseUntouched(t *testing.T) {
	d := Base.Extend("no-pan", WithoutField(FieldPAN), WithField(48, LLVarANS(10)))
	if _, ok := d.Descriptor(FieldPAN); ok {
		t.Fatalf("derived dialect still has field 2")
	}
	if _, ok := Base.Descriptor(FieldPAN); !ok {
		t.Fatalf("base lost field 2")
	}
	if fd, _ := Base.Descriptor(48); fd.Length.MaxLength() != 999 {
		t.Fatalf("base field 48 changed")
	}
	if fd, _ := d.Descriptor(48); fd.Length.MaxLength() != 10 {
		t.Fatalf("override not applied")
	}
}

func TestDialectRejectsInconsistentTables(t *testing.T) {
	cases := map[string][]DialectOption{
		"continuation field":  {WithField(65, FixedN(1))},
		"beyond bitmap":       {WithBitmapBlocks(1), WithField(70, FixedN(1))},
		"nested without sub":  {WithField(100, &FieldDescriptor{Length: NewVariableLength(3, 999), Formatter: ASCII, Kind: KindNested})},
		"nested with MTI sub": {WithField(100, NestedField(3, 999, Base))},
		"fixed structured":    {WithField(100, &FieldDescriptor{Length: FixedLength{Length: 4}, Formatter: ASCII, Kind: KindStructured})},
		"indicator no MTI":    {WithMessageType(MessageTypeNone), WithBitmapIndicator(true)},
		"zero blocks":         {WithBitmapBlocks(0)},
		"missing formatter":   {WithField(3, &FieldDescriptor{Length: FixedLength{Length: 6}})},
	}
	for name, opts := range cases {
		if _, err := newDialect(name, nil, opts...); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: got %v, want ErrInvalidConfig", name, err)
		}
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("NewDialect should panic on an invalid table")
		}
	}()
	NewDialect("broken", WithField(65, FixedN(1)))
}
