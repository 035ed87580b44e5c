package iso8583

import (
	"fmt"
	"strconv"
)

// Entry is one tag/value pair of StructuredData.
type Entry struct {
	Tag   string
	Value string
}

// StructuredData is an ordered tag/value list carried as one field's content.
// Insertion order is preserved on the wire.
type StructuredData struct {
	entries []Entry
}

func NewStructuredData() *StructuredData {
	return &StructuredData{}
}

// Add appends an entry, even if the tag already exists.
func (sd *StructuredData) Add(tag, value string) {
	sd.entries = append(sd.entries, Entry{Tag: tag, Value: value})
}

// Set replaces the first entry with tag, or appends one.
func (sd *StructuredData) Set(tag, value string) {
	for i := range sd.entries {
		if sd.entries[i].Tag == tag {
			sd.entries[i].Value = value
			return
		}
	}
	sd.Add(tag, value)
}

// Get returns the value of the first entry with tag.
func (sd *StructuredData) Get(tag string) (string, bool) {
	for _, e := range sd.entries {
		if e.Tag == tag {
			return e.Value, true
		}
	}
	return "", false
}

// Remove deletes every entry with tag and reports whether any existed.
func (sd *StructuredData) Remove(tag string) bool {
	kept := sd.entries[:0]
	for _, e := range sd.entries {
		if e.Tag != tag {
			kept = append(kept, e)
		}
	}
	removed := len(kept) != len(sd.entries)
	sd.entries = kept
	return removed
}

// Entries returns a copy of the entries in insertion order.
func (sd *StructuredData) Entries() []Entry {
	out := make([]Entry, len(sd.entries))
	copy(out, sd.entries)
	return out
}

func (sd *StructuredData) Len() int {
	return len(sd.entries)
}

func (sd *StructuredData) Clone() *StructuredData {
	return &StructuredData{entries: sd.Entries()}
}

// Pack serializes the entries in the given encoding.
func (sd *StructuredData) Pack(enc StructuredEncoding) ([]byte, error) {
	if enc == StructuredDigits {
		return sd.packDigits()
	}
	return sd.packBinary()
}

// packBinary writes [count:1][(tagLen:1)(tag)(valLen:1)(val)]*.
func (sd *StructuredData) packBinary() ([]byte, error) {
	if len(sd.entries) > 255 {
		return nil, fmt.Errorf("%w: %d structured entries, maximum 255", ErrValueTooLong, len(sd.entries))
	}
	size := 1
	for _, e := range sd.entries {
		size += 2 + len(e.Tag) + len(e.Value)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, byte(len(sd.entries)))
	for _, e := range sd.entries {
		for _, part := range [2]string{e.Tag, e.Value} {
			if len(part) > 255 {
				return nil, fmt.Errorf("%w: structured entry %q part of %d bytes, maximum 255", ErrValueTooLong, e.Tag, len(part))
			}
			buf = append(buf, byte(len(part)))
			buf = append(buf, part...)
		}
	}
	return buf, nil
}

// packDigits writes each tag and value as [digit count][length][bytes].
func (sd *StructuredData) packDigits() ([]byte, error) {
	var buf []byte
	for _, e := range sd.entries {
		for _, part := range [2]string{e.Tag, e.Value} {
			l := strconv.Itoa(len(part))
			if len(l) > 9 {
				return nil, fmt.Errorf("%w: structured entry %q", ErrValueTooLong, e.Tag)
			}
			buf = append(buf, byte('0'+len(l)))
			buf = append(buf, l...)
			buf = append(buf, part...)
		}
	}
	return buf, nil
}

// UnpackStructuredData parses data, which must hold exactly one encoded list.
func UnpackStructuredData(data []byte, enc StructuredEncoding) (*StructuredData, error) {
	if enc == StructuredDigits {
		return unpackDigits(data)
	}
	return unpackBinary(data)
}

func unpackBinary(data []byte) (*StructuredData, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: missing structured entry count", ErrTruncatedInput)
	}
	count := int(data[0])
	offset := 1
	sd := &StructuredData{entries: make([]Entry, 0, count)}

	readPart := func() (string, error) {
		if offset >= len(data) {
			return "", fmt.Errorf("%w: missing length at offset %d", ErrTruncatedInput, offset)
		}
		n := int(data[offset])
		offset++
		if len(data)-offset < n {
			return "", fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, offset, len(data)-offset)
		}
		part := string(data[offset : offset+n])
		offset += n
		return part, nil
	}

	for i := 0; i < count; i++ {
		tag, err := readPart()
		if err != nil {
			return nil, fmt.Errorf("structured entry %d tag: %w", i, err)
		}
		value, err := readPart()
		if err != nil {
			return nil, fmt.Errorf("structured entry %d value: %w", i, err)
		}
		sd.entries = append(sd.entries, Entry{Tag: tag, Value: value})
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d structured entries", ErrLengthMismatch, len(data)-offset, count)
	}
	return sd, nil
}

func unpackDigits(data []byte) (*StructuredData, error) {
	sd := &StructuredData{}
	offset := 0

	readPart := func() (string, error) {
		if offset >= len(data) {
			return "", fmt.Errorf("%w: missing length width at offset %d", ErrTruncatedInput, offset)
		}
		width := int(data[offset]) - '0'
		if width < 1 || width > 9 {
			return "", fmt.Errorf("%w: length width %q at offset %d", ErrInvalidLength, data[offset], offset)
		}
		offset++
		if len(data)-offset < width {
			return "", fmt.Errorf("%w: length needs %d digits at offset %d", ErrTruncatedInput, width, offset)
		}
		n, err := parseASCIIToInt(data[offset : offset+width])
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidLength, err)
		}
		offset += width
		if len(data)-offset < n {
			return "", fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, offset, len(data)-offset)
		}
		part := string(data[offset : offset+n])
		offset += n
		return part, nil
	}

	for i := 0; offset < len(data); i++ {
		tag, err := readPart()
		if err != nil {
			return nil, fmt.Errorf("structured entry %d tag: %w", i, err)
		}
		value, err := readPart()
		if err != nil {
			return nil, fmt.Errorf("structured entry %d value: %w", i, err)
		}
		sd.entries = append(sd.entries, Entry{Tag: tag, Value: value})
	}
	return sd, nil
}
