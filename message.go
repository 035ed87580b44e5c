package iso8583

import (
	"fmt"
	"sort"
	"strings"
)

// content is the tagged variant stored per field; kind selects which of
// scalar, sub or structured is meaningful.
type content struct {
	kind       FieldKind
	scalar     string
	sub        *Message
	structured *StructuredData
}

func (c *content) empty() bool {
	switch c.kind {
	case KindNested:
		return c.sub == nil || len(c.sub.Fields()) == 0
	case KindStructured:
		return c.structured == nil || c.structured.Len() == 0
	}
	return c.scalar == ""
}

func (c *content) clone() *content {
	cc := &content{kind: c.kind, scalar: c.scalar}
	if c.sub != nil {
		cc.sub = c.sub.Clone()
	}
	if c.structured != nil {
		cc.structured = c.structured.Clone()
	}
	return cc
}

// Message is one ISO 8583 message (or, for a header-less dialect, one
// private sub-message) bound to a Dialect. A Message is a plain value: it is
// not safe for concurrent mutation.
//
// The bitmap is never stored; Pack derives it from the fields that hold a
// non-empty value, so a field is on the wire iff it has content.
type Message struct {
	dialect        *Dialect
	mti            string
	bitmapEncoding BitmapEncoding
	fields         map[int]*content
	packedLength   int
}

// NewMessage creates an empty message for dialect d.
func NewMessage(d *Dialect, opts ...MessageOption) *Message {
	if d == nil {
		panic("iso8583: dialect cannot be nil")
	}
	m := &Message{
		dialect:        d,
		bitmapEncoding: d.bitmapEncoding,
		fields:         make(map[int]*content),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Unpack decodes exactly one message from data. Trailing bytes are an error.
func Unpack(d *Dialect, data []byte) (*Message, error) {
	m := NewMessage(d)
	n, err := m.Unpack(data, 0)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after message", ErrLengthMismatch, len(data)-n)
	}
	return m, nil
}

func (m *Message) Dialect() *Dialect { return m.dialect }

func (m *Message) reset() {
	m.mti = ""
	m.bitmapEncoding = m.dialect.bitmapEncoding
	m.fields = make(map[int]*content)
	m.packedLength = 0
}

// Reset clears the MTI and every field.
func (m *Message) Reset() {
	m.reset()
}

// MTI returns the 4-digit Message Type Indicator.
func (m *Message) MTI() string {
	return m.mti
}

// SetMTI sets the 4-digit Message Type Indicator.
func (m *Message) SetMTI(mti string) error {
	if err := m.checkMTI(mti); err != nil {
		return err
	}
	m.mti = mti
	return nil
}

func (m *Message) checkMTI(mti string) error {
	if m.dialect.messageType == MessageTypeNone {
		if mti != "" {
			return fmt.Errorf("%w: dialect %s has no message type", ErrInvalidMTI, m.dialect.name)
		}
		return nil
	}
	if len(mti) != 4 {
		return fmt.Errorf("%w: %q", ErrInvalidMTI, mti)
	}
	for i := 0; i < 4; i++ {
		if mti[i] < '0' || mti[i] > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidMTI, mti)
		}
	}
	return nil
}

// BitmapEncoding returns the encoding Pack will use.
func (m *Message) BitmapEncoding() BitmapEncoding {
	if m.dialect.bitmapIndicator {
		return m.bitmapEncoding
	}
	return m.dialect.bitmapEncoding
}

// SetBitmapEncoding selects the bitmap encoding for dialects that announce
// it with an indicator byte. Other dialects always use their own encoding.
func (m *Message) SetBitmapEncoding(enc BitmapEncoding) {
	m.bitmapEncoding = enc
}

func (m *Message) checkField(field int) error {
	d := m.dialect
	if field <= 0 {
		return &FieldError{Field: field, Err: ErrInvalidField}
	}
	if field > d.MaxField() {
		return &FieldError{Field: field, Err: ErrFieldOutOfRange}
	}
	if (field-1)%64 == 0 && (field-1)/64 < d.bitmapBlocks-1 {
		return &FieldError{Field: field, Err: fmt.Errorf("%w: bitmap continuation bit", ErrInvalidField)}
	}
	return nil
}

// kindOf returns the descriptor kind, or KindScalar for undefined fields.
func (m *Message) kindOf(field int) (*FieldDescriptor, FieldKind) {
	fd, ok := m.dialect.Descriptor(field)
	if !ok {
		return nil, KindScalar
	}
	return fd, fd.Kind
}

// Set assigns a scalar value. An empty value clears the field. Fields the
// dialect does not define may be set; Pack then fails with ErrUnknownField.
// Binary field values are stored as uppercase hex, the form Unpack yields.
func (m *Message) Set(field int, value string) error {
	if err := m.checkField(field); err != nil {
		return err
	}
	fd, kind := m.kindOf(field)
	if kind != KindScalar {
		return &FieldError{Field: field, Err: fmt.Errorf("%w: field holds %s content", ErrKindMismatch, kind)}
	}
	if value == "" {
		delete(m.fields, field)
		return nil
	}
	if fd != nil && fd.Formatter == Binary {
		value = strings.ToUpper(value)
	}
	m.fields[field] = &content{kind: KindScalar, scalar: value}
	return nil
}

// Get returns a scalar field value and whether it is present.
func (m *Message) Get(field int) (string, bool) {
	c, ok := m.fields[field]
	if !ok || c.kind != KindScalar || c.empty() {
		return "", false
	}
	return c.scalar, true
}

// Has reports whether field carries non-empty content of any kind.
func (m *Message) Has(field int) bool {
	c, ok := m.fields[field]
	return ok && !c.empty()
}

// Clear removes a field.
func (m *Message) Clear(field int) {
	delete(m.fields, field)
}

// Fields returns the numbers of all fields with content, ascending.
func (m *Message) Fields() []int {
	out := make([]int, 0, len(m.fields))
	for n, c := range m.fields {
		if !c.empty() {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

func (m *Message) nestedDescriptor(field int, kind FieldKind) (*FieldDescriptor, error) {
	if err := m.checkField(field); err != nil {
		return nil, err
	}
	fd, ok := m.dialect.Descriptor(field)
	if !ok {
		return nil, &FieldError{Field: field, Err: ErrUnknownField}
	}
	if fd.Kind != kind {
		return nil, &FieldError{Field: field, Err: fmt.Errorf("%w: field holds %s content", ErrKindMismatch, fd.Kind)}
	}
	return fd, nil
}

// Private returns the sub-message carried by a nested field, creating an
// empty one bound to the field's sub dialect on first use.
func (m *Message) Private(field int) (*Message, error) {
	fd, err := m.nestedDescriptor(field, KindNested)
	if err != nil {
		return nil, err
	}
	if c, ok := m.fields[field]; ok && c.sub != nil {
		return c.sub, nil
	}
	sub := NewMessage(fd.Sub)
	m.fields[field] = &content{kind: KindNested, sub: sub}
	return sub, nil
}

// SetPrivate replaces the sub-message of a nested field. nil clears it.
func (m *Message) SetPrivate(field int, sub *Message) error {
	fd, err := m.nestedDescriptor(field, KindNested)
	if err != nil {
		return err
	}
	if sub == nil {
		delete(m.fields, field)
		return nil
	}
	if sub.dialect != fd.Sub {
		return &FieldError{Field: field, Err: fmt.Errorf("%w: sub-message dialect %s, want %s", ErrKindMismatch, sub.dialect.name, fd.Sub.name)}
	}
	m.fields[field] = &content{kind: KindNested, sub: sub}
	return nil
}

// StructuredData returns the tag/value list of a structured field,
// creating an empty one on first use.
func (m *Message) StructuredData(field int) (*StructuredData, error) {
	if _, err := m.nestedDescriptor(field, KindStructured); err != nil {
		return nil, err
	}
	if c, ok := m.fields[field]; ok && c.structured != nil {
		return c.structured, nil
	}
	sd := NewStructuredData()
	m.fields[field] = &content{kind: KindStructured, structured: sd}
	return sd, nil
}

// SetStructuredData replaces the content of a structured field. nil clears it.
func (m *Message) SetStructuredData(field int, sd *StructuredData) error {
	if _, err := m.nestedDescriptor(field, KindStructured); err != nil {
		return err
	}
	if sd == nil {
		delete(m.fields, field)
		return nil
	}
	m.fields[field] = &content{kind: KindStructured, structured: sd}
	return nil
}

// Bitmap builds the presence bitmap from the fields that hold content.
func (m *Message) Bitmap() *Bitmap {
	bm := NewBitmap(m.dialect.bitmapBlocks)
	for _, n := range m.Fields() {
		_ = bm.Set(n, true) // field numbers were checked on assignment
	}
	return bm
}

// PackedLength returns the byte count of the last successful Pack or Unpack.
func (m *Message) PackedLength() int {
	return m.packedLength
}

// Pack serializes the message: [indicator][MTI][bitmap][fields ascending].
// The result is not tracked; mutating the message afterwards does not
// update previously returned bytes.
func (m *Message) Pack() ([]byte, error) {
	scratch := getBuffer()
	out, err := m.AppendPack(scratch)
	if err != nil {
		putBuffer(scratch)
		return nil, err
	}
	result := make([]byte, len(out))
	copy(result, out)
	putBuffer(out)
	return result, nil
}

// AppendPack appends the packed message to dst. On error dst is returned
// without the partial message.
func (m *Message) AppendPack(dst []byte) ([]byte, error) {
	start := len(dst)
	d := m.dialect
	enc := m.BitmapEncoding()

	if err := m.checkMTI(m.mti); err != nil {
		return dst, err
	}
	if d.bitmapIndicator {
		dst = append(dst, enc.indicator())
	}
	switch d.messageType {
	case MessageTypeASCII:
		dst = append(dst, m.mti...)
	case MessageTypeBCD:
		mti, err := BCD.Encode(m.mti)
		if err != nil {
			return dst[:start], err
		}
		dst = append(dst, mti...)
	}

	bm := m.Bitmap()
	dst = append(dst, bm.Pack(enc)...)

	for _, n := range bm.Fields() {
		fd, ok := d.Descriptor(n)
		if !ok {
			return dst[:start], &FieldError{Field: n, Err: ErrUnknownField}
		}
		packed, err := m.packField(n, fd)
		if err != nil {
			return dst[:start], &FieldError{Field: n, Err: err}
		}
		dst = append(dst, packed...)
	}

	m.packedLength = len(dst) - start
	return dst, nil
}

func (m *Message) packField(n int, fd *FieldDescriptor) ([]byte, error) {
	c := m.fields[n]
	if c.kind != fd.Kind {
		return nil, fmt.Errorf("%w: value is %s, descriptor is %s", ErrKindMismatch, c.kind, fd.Kind)
	}
	switch fd.Kind {
	case KindNested:
		raw, err := c.sub.Pack()
		if err != nil {
			return nil, err
		}
		return fd.packRaw(raw)
	case KindStructured:
		raw, err := c.structured.Pack(fd.Structured)
		if err != nil {
			return nil, err
		}
		return fd.packRaw(raw)
	}
	return fd.Pack(n, c.scalar)
}

// Unpack decodes a message from data starting at offset and returns the
// number of bytes consumed. On failure the message is left empty.
func (m *Message) Unpack(data []byte, offset int) (int, error) {
	fresh := &Message{
		dialect:        m.dialect,
		bitmapEncoding: m.dialect.bitmapEncoding,
		fields:         make(map[int]*content),
	}
	n, err := fresh.unpack(data, offset)
	if err != nil {
		m.reset()
		return 0, err
	}
	*m = *fresh
	return n, nil
}

func (m *Message) unpack(data []byte, offset int) (int, error) {
	d := m.dialect
	if offset < 0 || offset > len(data) {
		return 0, fmt.Errorf("%w: offset %d outside %d byte buffer", ErrTruncatedInput, offset, len(data))
	}
	pos := offset

	if d.bitmapIndicator {
		if pos >= len(data) {
			return 0, fmt.Errorf("%w: missing bitmap indicator", ErrTruncatedInput)
		}
		switch data[pos] {
		case 'A':
			m.bitmapEncoding = BitmapEncodingHex
		case 'B':
			m.bitmapEncoding = BitmapEncodingBinary
		default:
			return 0, fmt.Errorf("%w: indicator %q", ErrInvalidBitmap, data[pos])
		}
		pos++
	}

	if size := d.messageType.size(); size > 0 {
		if len(data)-pos < size {
			return 0, fmt.Errorf("%w: MTI needs %d bytes at offset %d", ErrTruncatedInput, size, pos)
		}
		mti := string(data[pos : pos+size])
		if d.messageType == MessageTypeBCD {
			decoded, err := BCD.Decode(data[pos : pos+size])
			if err != nil {
				return 0, fmt.Errorf("%w: %v", ErrInvalidMTI, err)
			}
			mti = decoded
		}
		if err := m.checkMTI(mti); err != nil {
			return 0, err
		}
		m.mti = mti
		pos += size
	}

	bm := NewBitmap(d.bitmapBlocks)
	n, err := bm.Unpack(data, pos, m.BitmapEncoding())
	if err != nil {
		return 0, err
	}
	pos += n

	for _, field := range bm.Fields() {
		fd, ok := d.Descriptor(field)
		if !ok {
			// the field's length is unknown, so nothing after it can be located
			return 0, &FieldError{Field: field, Err: ErrUnknownField}
		}
		n, err := m.unpackField(field, fd, data, pos)
		if err != nil {
			return 0, &FieldError{Field: field, Err: err}
		}
		pos += n
	}

	m.packedLength = pos - offset
	return pos - offset, nil
}

func (m *Message) unpackField(field int, fd *FieldDescriptor, data []byte, pos int) (int, error) {
	switch fd.Kind {
	case KindNested:
		raw, n, err := fd.unpackRaw(data, pos)
		if err != nil {
			return 0, err
		}
		sub := NewMessage(fd.Sub)
		used, err := sub.Unpack(raw, 0)
		if err != nil {
			return 0, err
		}
		if used != len(raw) {
			return 0, fmt.Errorf("%w: sub-message used %d of %d bytes", ErrLengthMismatch, used, len(raw))
		}
		if len(sub.Fields()) == 0 {
			return 0, fmt.Errorf("%w: sub-message carries no fields", ErrInvalidBitmap)
		}
		m.fields[field] = &content{kind: KindNested, sub: sub}
		return n, nil
	case KindStructured:
		raw, n, err := fd.unpackRaw(data, pos)
		if err != nil {
			return 0, err
		}
		sd, err := UnpackStructuredData(raw, fd.Structured)
		if err != nil {
			return 0, err
		}
		if sd.Len() == 0 {
			return 0, fmt.Errorf("%w: structured field carries no entries", ErrLengthOutOfRange)
		}
		m.fields[field] = &content{kind: KindStructured, structured: sd}
		return n, nil
	}
	value, n, err := fd.Unpack(field, data, pos)
	if err != nil {
		return 0, err
	}
	// a present field with no content cannot be packed again
	if value == "" {
		return 0, fmt.Errorf("%w: present field has zero length", ErrLengthOutOfRange)
	}
	m.fields[field] = &content{kind: KindScalar, scalar: value}
	return n, nil
}

// Validate checks the MTI and every present field against the dialect
// without producing output.
func (m *Message) Validate() error {
	if err := m.checkMTI(m.mti); err != nil {
		return err
	}
	for _, n := range m.Fields() {
		fd, ok := m.dialect.Descriptor(n)
		if !ok {
			return &FieldError{Field: n, Err: ErrUnknownField}
		}
		if _, err := m.packField(n, fd); err != nil {
			return &FieldError{Field: n, Err: err}
		}
	}
	return nil
}

// Clone creates a deep copy of the message, including sub-messages.
func (m *Message) Clone() *Message {
	clone := &Message{
		dialect:        m.dialect,
		mti:            m.mti,
		bitmapEncoding: m.bitmapEncoding,
		fields:         make(map[int]*content, len(m.fields)),
		packedLength:   m.packedLength,
	}
	for n, c := range m.fields {
		clone.fields[n] = c.clone()
	}
	return clone
}

// Equal reports whether both messages share a dialect and MTI and carry the
// same content in every field.
func (m *Message) Equal(o *Message) bool {
	if m.dialect != o.dialect || m.mti != o.mti {
		return false
	}
	a, b := m.Fields(), o.Fields()
	if len(a) != len(b) {
		return false
	}
	for i, n := range a {
		if b[i] != n {
			return false
		}
		ca, cb := m.fields[n], o.fields[n]
		if ca.kind != cb.kind {
			return false
		}
		switch ca.kind {
		case KindNested:
			if !ca.sub.Equal(cb.sub) {
				return false
			}
		case KindStructured:
			ea, eb := ca.structured.entries, cb.structured.entries
			if len(ea) != len(eb) {
				return false
			}
			for j := range ea {
				if ea[j] != eb[j] {
					return false
				}
			}
		default:
			if ca.scalar != cb.scalar {
				return false
			}
		}
	}
	return true
}

// Response clones a request and turns its MTI into the matching response
// (e.g. 0200 -> 0210, 1220 -> 1230). A non-empty code is set in field 39.
func (m *Message) Response(responseCode string) (*Message, error) {
	mti := m.mti
	if len(mti) != 4 || (mti[2]-'0')%2 != 0 || mti[2] > '8' {
		return nil, fmt.Errorf("%w: cannot create response from MTI %q", ErrInvalidMTI, mti)
	}

	res := m.Clone()
	res.packedLength = 0
	res.mti = mti[:2] + string(mti[2]+1) + mti[3:]

	if responseCode != "" {
		if err := res.Set(FieldResponseCode, responseCode); err != nil {
			return nil, err
		}
	}
	return res, nil
}
