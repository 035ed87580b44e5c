package iso8583

import (
	"fmt"
	"strings"
)

// TLV is one BER-TLV data object as carried in ICC data (field 55).
// Tag is the uppercase hex form of the tag bytes, e.g. "9F02".
type TLV struct {
	Tag   string
	Value []byte
}

// ParseTLV decodes a sequence of EMV BER-TLV objects. Tags may span several
// bytes; lengths use the short form or the 0x81..0x84 long form. Values are
// copied out of data.
func ParseTLV(data []byte) ([]TLV, error) {
	var result []TLV
	offset := 0
	for offset < len(data) {
		tagStart := offset
		firstByte := data[offset]
		offset++

		// Bits 5-1 all set: subsequent bytes belong to the tag while their MSB is set.
		if firstByte&0x1F == 0x1F {
			for offset < len(data) && data[offset]&0x80 != 0 {
				offset++
			}
			if offset >= len(data) {
				return nil, fmt.Errorf("%w: tag at offset %d", ErrTruncatedInput, tagStart)
			}
			offset++
		}
		tag := ToHex(data[tagStart:offset])

		if offset >= len(data) {
			return nil, fmt.Errorf("%w: tag %s has no length", ErrTruncatedInput, tag)
		}
		lengthByte := data[offset]
		offset++
		length := int(lengthByte)
		if lengthByte&0x80 != 0 {
			n := int(lengthByte & 0x7F)
			if n == 0 || n > 4 {
				return nil, fmt.Errorf("%w: tag %s uses %d length bytes", ErrInvalidLength, tag, n)
			}
			if len(data)-offset < n {
				return nil, fmt.Errorf("%w: tag %s length", ErrTruncatedInput, tag)
			}
			length = 0
			for i := 0; i < n; i++ {
				length = length<<8 | int(data[offset])
				offset++
			}
		}

		if length < 0 || len(data)-offset < length {
			return nil, fmt.Errorf("%w: tag %s needs %d bytes, have %d", ErrTruncatedInput, tag, length, len(data)-offset)
		}
		value := make([]byte, length)
		copy(value, data[offset:offset+length])
		offset += length

		result = append(result, TLV{Tag: tag, Value: value})
	}
	return result, nil
}

// PackTLV encodes objects in order using the shortest length form.
func PackTLV(tlvs []TLV) ([]byte, error) {
	var buf []byte
	for _, tlv := range tlvs {
		tag, err := FromHex(tlv.Tag)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tlv.Tag, err)
		}
		if len(tag) == 0 {
			return nil, fmt.Errorf("%w: empty tag", ErrInvalidFieldContent)
		}
		buf = append(buf, tag...)

		valueLen := len(tlv.Value)
		if valueLen < 0x80 {
			buf = append(buf, byte(valueLen))
		} else {
			var lengthBytes []byte
			for temp := valueLen; temp > 0; temp >>= 8 {
				lengthBytes = append([]byte{byte(temp)}, lengthBytes...)
			}
			if len(lengthBytes) > 4 {
				return nil, fmt.Errorf("%w: tag %s value of %d bytes", ErrValueTooLong, tlv.Tag, valueLen)
			}
			buf = append(buf, byte(0x80|len(lengthBytes)))
			buf = append(buf, lengthBytes...)
		}
		buf = append(buf, tlv.Value...)
	}
	return buf, nil
}

// FindTLV finds the first object with tag (hex, case-insensitive).
func FindTLV(tlvs []TLV, tag string) (TLV, bool) {
	for _, tlv := range tlvs {
		if strings.EqualFold(tlv.Tag, tag) {
			return tlv, true
		}
	}
	return TLV{}, false
}

// ICCData decodes a binary field holding BER-TLV objects, usually field 55.
func (m *Message) ICCData(field int) ([]TLV, error) {
	v, ok := m.Get(field)
	if !ok {
		return nil, nil
	}
	raw, err := FromHex(v)
	if err != nil {
		return nil, &FieldError{Field: field, Err: err}
	}
	tlvs, err := ParseTLV(raw)
	if err != nil {
		return nil, &FieldError{Field: field, Err: err}
	}
	return tlvs, nil
}

// SetICCData encodes objects into a binary field.
func (m *Message) SetICCData(field int, tlvs []TLV) error {
	raw, err := PackTLV(tlvs)
	if err != nil {
		return &FieldError{Field: field, Err: err}
	}
	return m.Set(field, ToHex(raw))
}
