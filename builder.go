package iso8583

import "sync"

// Builder pool for reuse
var builderPool = sync.Pool{
	New: func() interface{} {
		return &Builder{
			errors: make([]error, 0, 4),
		}
	},
}

// Builder constructs a Message fluently and keeps the first error for Build.
type Builder struct {
	msg    *Message
	errors []error
}

func NewBuilder(d *Dialect, opts ...MessageOption) *Builder {
	b := builderPool.Get().(*Builder)
	b.msg = NewMessage(d, opts...)
	b.errors = b.errors[:0]
	return b
}

// Release returns the builder to the pool
func (b *Builder) Release() {
	b.msg = nil
	b.errors = b.errors[:0]
	builderPool.Put(b)
}

func (b *Builder) record(err error) *Builder {
	if err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

func (b *Builder) MTI(mti string) *Builder {
	return b.record(b.msg.SetMTI(mti))
}

func (b *Builder) Field(fieldNum int, value string) *Builder {
	return b.record(b.msg.Set(fieldNum, value))
}

// Private sets a field of the sub-message carried in a nested field.
func (b *Builder) Private(fieldNum, subField int, value string) *Builder {
	sub, err := b.msg.Private(fieldNum)
	if err != nil {
		return b.record(err)
	}
	if err := sub.Set(subField, value); err != nil {
		return b.record(&FieldError{Field: fieldNum, Err: err})
	}
	return b
}

// Structured sets one tag of a structured field.
func (b *Builder) Structured(fieldNum int, tag, value string) *Builder {
	sd, err := b.msg.StructuredData(fieldNum)
	if err != nil {
		return b.record(err)
	}
	sd.Set(tag, value)
	return b
}

func (b *Builder) PAN(pan string) *Builder {
	return b.Field(FieldPAN, pan)
}

func (b *Builder) ProcessingCode(code string) *Builder {
	return b.Field(FieldProcessingCode, code)
}

func (b *Builder) Amount(minor int64) *Builder {
	return b.record(b.msg.SetAmount(minor))
}

func (b *Builder) STAN(stan string) *Builder {
	return b.Field(FieldSTAN, stan)
}

func (b *Builder) Build() (*Message, error) {
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}
	msg := b.msg
	b.msg = nil // Transfer ownership
	return msg, nil
}

func (b *Builder) MustBuild() *Message {
	if len(b.errors) > 0 {
		panic(b.errors[0])
	}
	msg := b.msg
	b.msg = nil // Transfer ownership
	return msg
}
