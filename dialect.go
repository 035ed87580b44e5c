package iso8583

import (
	"fmt"
	"sort"
)

// Dialect is an immutable field-number to FieldDescriptor table plus the
// framing rules of one protocol variant. A Dialect is safe for concurrent
// use by any number of messages once NewDialect or Extend has returned.
type Dialect struct {
	name            string
	messageType     MessageTypeFormat
	bitmapEncoding  BitmapEncoding
	bitmapIndicator bool
	bitmapBlocks    int
	fields          map[int]*FieldDescriptor
}

// NewDialect builds a dialect from options. It panics on an inconsistent
// table; use DialectConfig.Build for tables that come from input.
func NewDialect(name string, opts ...DialectOption) *Dialect {
	d, err := newDialect(name, nil, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Extend derives a new dialect from d: every field and framing rule is
// copied, then opts are applied. d itself is left untouched.
func (d *Dialect) Extend(name string, opts ...DialectOption) *Dialect {
	nd, err := newDialect(name, d, opts...)
	if err != nil {
		panic(err)
	}
	return nd
}

func newDialect(name string, base *Dialect, opts ...DialectOption) (*Dialect, error) {
	d := &Dialect{
		name:         name,
		messageType:  MessageTypeASCII,
		bitmapBlocks: DefaultBitmapBlocks,
		fields:       make(map[int]*FieldDescriptor),
	}
	if base != nil {
		d.messageType = base.messageType
		d.bitmapEncoding = base.bitmapEncoding
		d.bitmapIndicator = base.bitmapIndicator
		d.bitmapBlocks = base.bitmapBlocks
		for n, fd := range base.fields {
			d.fields[n] = fd
		}
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dialect) check() error {
	if d.bitmapBlocks <= 0 {
		return fmt.Errorf("%w: dialect %s: bitmap blocks %d", ErrInvalidConfig, d.name, d.bitmapBlocks)
	}
	if d.messageType == MessageTypeNone && d.bitmapIndicator {
		return fmt.Errorf("%w: dialect %s: bitmap indicator needs a message type", ErrInvalidConfig, d.name)
	}
	bm := NewBitmap(d.bitmapBlocks)
	for n, fd := range d.fields {
		if n <= 0 || n > bm.MaxField() || bm.IsContinuation(n) {
			return fmt.Errorf("%w: dialect %s: field %d not addressable", ErrInvalidConfig, d.name, n)
		}
		if fd == nil || fd.Length == nil || fd.Formatter == nil {
			return fmt.Errorf("%w: dialect %s: field %d incomplete descriptor", ErrInvalidConfig, d.name, n)
		}
		if fd.Kind == KindNested && (fd.Sub == nil || fd.Sub.messageType != MessageTypeNone) {
			return fmt.Errorf("%w: dialect %s: field %d needs a header-less sub dialect", ErrInvalidConfig, d.name, n)
		}
		if fd.Kind != KindScalar {
			if _, ok := fd.Length.(FixedLength); ok {
				return fmt.Errorf("%w: dialect %s: field %d %s content needs a variable length", ErrInvalidConfig, d.name, n, fd.Kind)
			}
		}
	}
	return nil
}

func (d *Dialect) Name() string { return d.name }

func (d *Dialect) MessageType() MessageTypeFormat { return d.messageType }

func (d *Dialect) BitmapEncoding() BitmapEncoding { return d.bitmapEncoding }

func (d *Dialect) BitmapIndicator() bool { return d.bitmapIndicator }

func (d *Dialect) BitmapBlocks() int { return d.bitmapBlocks }

// MaxField returns the highest field number this dialect can carry.
func (d *Dialect) MaxField() int { return d.bitmapBlocks * 64 }

// Descriptor resolves the descriptor for field.
func (d *Dialect) Descriptor(field int) (*FieldDescriptor, bool) {
	fd, ok := d.fields[field]
	return fd, ok
}

// Fields returns the defined field numbers in ascending order.
func (d *Dialect) Fields() []int {
	out := make([]int, 0, len(d.fields))
	for n := range d.fields {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func (d *Dialect) String() string { return d.name }
