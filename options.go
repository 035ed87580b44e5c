package iso8583

// DialectOption configures a Dialect while it is being built.
type DialectOption func(*Dialect)

// WithMessageType sets how the MTI is written (or MessageTypeNone for sub-messages).
func WithMessageType(f MessageTypeFormat) DialectOption {
	return func(d *Dialect) {
		d.messageType = f
	}
}

// WithBitmapEncoding sets the default bitmap encoding.
func WithBitmapEncoding(enc BitmapEncoding) DialectOption {
	return func(d *Dialect) {
		d.bitmapEncoding = enc
	}
}

// WithBitmapBlocks sets the maximum number of 64-bit bitmap blocks.
func WithBitmapBlocks(n int) DialectOption {
	return func(d *Dialect) {
		d.bitmapBlocks = n
	}
}

// WithBitmapIndicator prefixes the MTI with 'A' (hex bitmap) or 'B'
// (binary bitmap). On unpack the indicator overrides the default encoding.
func WithBitmapIndicator(enabled bool) DialectOption {
	return func(d *Dialect) {
		d.bitmapIndicator = enabled
	}
}

// WithField adds or replaces a field descriptor.
func WithField(fieldNum int, fd *FieldDescriptor) DialectOption {
	return func(d *Dialect) {
		d.fields[fieldNum] = fd
	}
}

// WithFields adds or replaces several field descriptors.
func WithFields(fields map[int]*FieldDescriptor) DialectOption {
	return func(d *Dialect) {
		for n, fd := range fields {
			d.fields[n] = fd
		}
	}
}

// WithoutField removes a field inherited from a base dialect.
func WithoutField(fieldNum int) DialectOption {
	return func(d *Dialect) {
		delete(d.fields, fieldNum)
	}
}

// MessageOption represents a functional option for message configuration
type MessageOption func(*Message)

// WithMTI sets the Message Type Indicator. An invalid MTI is reported by Pack.
func WithMTI(mti string) MessageOption {
	return func(m *Message) {
		m.mti = mti
	}
}

// WithMessageBitmapEncoding overrides the dialect's bitmap encoding for one
// message. Only dialects with a bitmap indicator can announce it on the wire.
func WithMessageBitmapEncoding(enc BitmapEncoding) MessageOption {
	return func(m *Message) {
		m.bitmapEncoding = enc
	}
}

// WithFieldValue sets a scalar field during message creation. Field numbers
// Set would reject are ignored; call Set directly to observe the error.
func WithFieldValue(fieldNum int, value string) MessageOption {
	return func(m *Message) {
		_ = m.Set(fieldNum, value)
	}
}

// WithFieldValues sets multiple scalar fields during message creation.
func WithFieldValues(fields map[int]string) MessageOption {
	return func(m *Message) {
		for fieldNum, value := range fields {
			_ = m.Set(fieldNum, value)
		}
	}
}
