package iso8583

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"unicode"
)

// Bitmap tracks field presence in 64-bit blocks. The first bit of every block
// that may be followed by another block is a continuation flag. Those flags
// are derived when packing and are never stored as fields.
type Bitmap struct {
	blocks []uint64
}

// NewBitmap creates a bitmap that can hold up to blocks*64 fields.
// A non-positive count selects DefaultBitmapBlocks.
func NewBitmap(blocks int) *Bitmap {
	if blocks <= 0 {
		blocks = DefaultBitmapBlocks
	}
	return &Bitmap{blocks: make([]uint64, blocks)}
}

// UnpackBitmap decodes a bitmap from data starting at offset.
// It returns the bitmap and the number of bytes consumed.
func UnpackBitmap(data []byte, offset int, enc BitmapEncoding, blocks int) (*Bitmap, int, error) {
	bm := NewBitmap(blocks)
	n, err := bm.Unpack(data, offset, enc)
	if err != nil {
		return nil, 0, err
	}
	return bm, n, nil
}

// MaxField returns the highest field number the bitmap can address.
func (bm *Bitmap) MaxField() int {
	return len(bm.blocks) * 64
}

// IsContinuation reports whether field is a continuation flag position.
func (bm *Bitmap) IsContinuation(field int) bool {
	if field < 1 || field > bm.MaxField() {
		return false
	}
	return (field-1)%64 == 0 && (field-1)/64 < len(bm.blocks)-1
}

func (bm *Bitmap) check(field int) error {
	if field <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidField, field)
	}
	if field > bm.MaxField() {
		return fmt.Errorf("%w: %d > %d", ErrFieldOutOfRange, field, bm.MaxField())
	}
	return nil
}

func position(field int) (block int, mask uint64) {
	return (field - 1) / 64, uint64(1) << (63 - uint((field-1)%64))
}

// Set marks field as present or absent.
func (bm *Bitmap) Set(field int, present bool) error {
	if err := bm.check(field); err != nil {
		return err
	}
	if bm.IsContinuation(field) {
		return fmt.Errorf("%w: bit %d is a continuation flag", ErrInvalidField, field)
	}
	block, mask := position(field)
	if present {
		bm.blocks[block] |= mask
	} else {
		bm.blocks[block] &^= mask
	}
	return nil
}

// Get reports whether field is present.
func (bm *Bitmap) Get(field int) (bool, error) {
	if err := bm.check(field); err != nil {
		return false, err
	}
	block, mask := position(field)
	return bm.blocks[block]&mask != 0, nil
}

// IsSet is Get without the range error; out-of-range fields are never set.
func (bm *Bitmap) IsSet(field int) bool {
	ok, err := bm.Get(field)
	return err == nil && ok
}

// Fields returns the set field numbers in ascending order.
func (bm *Bitmap) Fields() []int {
	fields := make([]int, 0, 16)
	for i, word := range bm.blocks {
		if word == 0 {
			continue
		}
		for bit := 0; bit < 64; bit++ {
			if word&(uint64(1)<<(63-uint(bit))) != 0 {
				fields = append(fields, i*64+bit+1)
			}
		}
	}
	return fields
}

// Reset clears every bit.
func (bm *Bitmap) Reset() {
	for i := range bm.blocks {
		bm.blocks[i] = 0
	}
}

// emitted returns how many blocks Pack writes.
func (bm *Bitmap) emitted() int {
	last := 0
	for i, word := range bm.blocks {
		if word != 0 {
			last = i
		}
	}
	return last + 1
}

// PackedSize returns the wire size of the bitmap in the given encoding.
func (bm *Bitmap) PackedSize(enc BitmapEncoding) int {
	return bm.emitted() * enc.blockSize()
}

// Pack serializes the bitmap. Block one is always written; every written
// block except the last carries its continuation bit.
func (bm *Bitmap) Pack(enc BitmapEncoding) []byte {
	n := bm.emitted()
	raw := make([]byte, n*BitmapSize)
	for i := 0; i < n; i++ {
		word := bm.blocks[i]
		if i < n-1 {
			word |= 1 << 63
		}
		binary.BigEndian.PutUint64(raw[i*BitmapSize:], word)
	}
	if enc == BitmapEncodingHex {
		out := make([]byte, len(raw)*2)
		encodeHexUpper(out, raw)
		return out
	}
	return raw
}

// Unpack reads blocks from data at offset while the previous block's
// continuation bit is set. It returns the number of bytes consumed.
func (bm *Bitmap) Unpack(data []byte, offset int, enc BitmapEncoding) (int, error) {
	bm.Reset()
	size := enc.blockSize()
	pos := offset
	for i := 0; i < len(bm.blocks); i++ {
		if pos < 0 || len(data)-pos < size {
			return 0, fmt.Errorf("%w: bitmap block %d needs %d bytes at offset %d", ErrTruncatedInput, i+1, size, pos)
		}
		var block [BitmapSize]byte
		if enc == BitmapEncodingHex {
			if i := bytes.IndexFunc(data[pos:pos+size], unicode.IsLower); i >= 0 {
				return 0, fmt.Errorf("%w: lowercase hex at bitmap offset %d", ErrInvalidHexDigit, pos+i)
			}
			if _, err := hex.Decode(block[:], data[pos:pos+size]); err != nil {
				return 0, fmt.Errorf("%w: bitmap block %d: %v", ErrInvalidHexDigit, i+1, err)
			}
		} else {
			copy(block[:], data[pos:pos+size])
		}
		pos += size

		word := binary.BigEndian.Uint64(block[:])
		more := i < len(bm.blocks)-1 && word&(1<<63) != 0
		if i < len(bm.blocks)-1 {
			word &^= 1 << 63
		}
		bm.blocks[i] = word
		if !more {
			if i > 0 && word == 0 {
				return 0, fmt.Errorf("%w: continuation bit announces empty block %d", ErrInvalidBitmap, i+1)
			}
			break
		}
	}
	return pos - offset, nil
}

// Clone returns an independent copy.
func (bm *Bitmap) Clone() *Bitmap {
	c := &Bitmap{blocks: make([]uint64, len(bm.blocks))}
	copy(c.blocks, bm.blocks)
	return c
}
