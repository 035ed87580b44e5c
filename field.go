package iso8583

import "fmt"

// FieldDescriptor binds a field number to its length rule, value encoding
// and content validator. Descriptors are shared by every message of a
// dialect and must not be modified once the dialect is built.
type FieldDescriptor struct {
	Length      LengthFormatter
	Formatter   ValueFormatter
	Validator   Validator // optional
	Kind        FieldKind
	Sub         *Dialect           // KindNested only
	Structured  StructuredEncoding // KindStructured only
	Description string
}

// NewFieldDescriptor picks the formatter and validator that match ft.
func NewFieldDescriptor(ft FieldType, length LengthFormatter) *FieldDescriptor {
	fd := &FieldDescriptor{Length: length, Formatter: ASCII, Validator: validatorFor(ft)}
	switch ft {
	case FieldTypeB:
		fd.Formatter = Binary
	case FieldTypeBCD:
		fd.Formatter = BCD
	}
	return fd
}

func Fixed(length int, f ValueFormatter, v Validator) *FieldDescriptor {
	return &FieldDescriptor{Length: FixedLength{Length: length}, Formatter: f, Validator: v}
}

func Variable(digits, max int, f ValueFormatter, v Validator) *FieldDescriptor {
	return &FieldDescriptor{Length: NewVariableLength(digits, max), Formatter: f, Validator: v}
}

func FixedN(n int) *FieldDescriptor   { return Fixed(n, ASCII, Numeric) }
func FixedAN(n int) *FieldDescriptor  { return Fixed(n, ASCII, AlphaNumeric) }
func FixedANS(n int) *FieldDescriptor { return Fixed(n, ASCII, AlphaNumericSpecial) }

// FixedB is a binary field of n bytes, set and read as 2n hex characters.
func FixedB(n int) *FieldDescriptor { return Fixed(n, Binary, Hex) }

// FixedBCD is a BCD field of the given digit count.
func FixedBCD(digits int) *FieldDescriptor { return Fixed((digits+1)/2, BCD, Numeric) }

func LLVarN(max int) *FieldDescriptor    { return Variable(2, max, ASCII, Numeric) }
func LLVarAN(max int) *FieldDescriptor   { return Variable(2, max, ASCII, AlphaNumeric) }
func LLVarANS(max int) *FieldDescriptor  { return Variable(2, max, ASCII, AlphaNumericSpecial) }
func LLVarZ(max int) *FieldDescriptor    { return Variable(2, max, ASCII, Track2) }
func LLVarB(max int) *FieldDescriptor    { return Variable(2, max, Binary, Hex) }
func LLLVarN(max int) *FieldDescriptor   { return Variable(3, max, ASCII, Numeric) }
func LLLVarANS(max int) *FieldDescriptor { return Variable(3, max, ASCII, AlphaNumericSpecial) }
func LLLVarZ(max int) *FieldDescriptor   { return Variable(3, max, ASCII, Track2) }
func LLLVarB(max int) *FieldDescriptor   { return Variable(3, max, Binary, Hex) }

// NestedField carries a complete sub-message of dialect sub behind a
// decimal length prefix. The sub-message bytes pass through unchanged.
func NestedField(digits, max int, sub *Dialect) *FieldDescriptor {
	return &FieldDescriptor{Length: NewVariableLength(digits, max), Formatter: ASCII, Kind: KindNested, Sub: sub}
}

// StructuredField carries StructuredData behind a decimal length prefix.
func StructuredField(digits, max int, enc StructuredEncoding) *FieldDescriptor {
	return &FieldDescriptor{Length: NewVariableLength(digits, max), Formatter: ASCII, Kind: KindStructured, Structured: enc}
}

// Named sets the description and returns fd, for use in table literals.
func (fd *FieldDescriptor) Named(description string) *FieldDescriptor {
	fd.Description = description
	return fd
}

func (fd *FieldDescriptor) validate(field int, value string) error {
	if fd.Validator == nil {
		return nil
	}
	if err := fd.Validator.Validate(value); err != nil {
		return &ValidationError{Field: field, Rule: fd.Validator.Name(), Message: err.Error()}
	}
	return nil
}

// Pack validates, encodes and length-prefixes a scalar value.
func (fd *FieldDescriptor) Pack(field int, value string) ([]byte, error) {
	if fd.Kind != KindScalar {
		return nil, fmt.Errorf("%w: field %d is %s", ErrKindMismatch, field, fd.Kind)
	}
	if err := fd.validate(field, value); err != nil {
		return nil, err
	}
	encoded, err := fd.Formatter.Encode(value)
	if err != nil {
		return nil, err
	}
	return fd.packRaw(encoded)
}

// packRaw prefixes already encoded bytes with the length indicator.
func (fd *FieldDescriptor) packRaw(encoded []byte) ([]byte, error) {
	prefix, err := fd.Length.PackLength(encoded)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(prefix)+len(encoded))
	out = append(out, prefix...)
	return append(out, encoded...), nil
}

// Unpack decodes one scalar value at offset and returns it with the number
// of bytes consumed.
func (fd *FieldDescriptor) Unpack(field int, data []byte, offset int) (string, int, error) {
	if fd.Kind != KindScalar {
		return "", 0, fmt.Errorf("%w: field %d is %s", ErrKindMismatch, field, fd.Kind)
	}
	raw, n, err := fd.unpackRaw(data, offset)
	if err != nil {
		return "", 0, err
	}
	value, err := fd.Formatter.Decode(raw)
	if err != nil {
		return "", 0, err
	}
	return value, n, nil
}

// unpackRaw reads the length indicator and slices exactly that many bytes.
// The returned slice aliases data.
func (fd *FieldDescriptor) unpackRaw(data []byte, offset int) ([]byte, int, error) {
	length, consumed, err := fd.Length.UnpackLength(data, offset)
	if err != nil {
		return nil, 0, err
	}
	start := offset + consumed
	if length < 0 || start > len(data) || len(data)-start < length {
		return nil, 0, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, length, start, len(data)-start)
	}
	return data[start : start+length], consumed + length, nil
}
