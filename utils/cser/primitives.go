package cser

import (
	"errors"

	"github.com/rony4d/go-ballot/utils/bits"
	"github.com/rony4d/go-ballot/utils/fast"
)

var (
	// ErrNonCanonicalEncoding is returned when a value isn't packed into the
	// minimum number of bytes, or trailing padding isn't zero.
	ErrNonCanonicalEncoding = errors.New("non canonical encoding")
	// ErrMalformedEncoding is returned when the structure is truncated or
	// otherwise unreadable.
	ErrMalformedEncoding = errors.New("malformed encoding")
	// ErrTooLargeAlloc is returned when a decoded size exceeds the allocation
	// limit.
	ErrTooLargeAlloc = errors.New("too large allocation")
)

// MaxAlloc caps a single decoded byte slice, so malformed input cannot force
// huge allocations.
const MaxAlloc = 100 * 1024

// Writer encodes values into the two cser streams: raw payloads go into the
// byte stream, size tags and flags into the bit stream.
type Writer struct {
	BitsW  *bits.Writer
	BytesW *fast.Writer
}

// Reader decodes values from the two cser streams.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.Reader
}

// NewWriter creates a Writer with small pre-allocated buffers.
func NewWriter() *Writer {
	return &Writer{
		BitsW:  bits.NewWriter(&bits.Array{Bytes: make([]byte, 0, 32)}),
		BytesW: fast.NewWriter(make([]byte, 0, 200)),
	}
}

// writeVarint appends v as a base-128 varint where the stop flag is the SET
// high bit of the last byte (the reverse of protobuf's convention, so the
// stream suffix can be scanned backwards).
func writeVarint(w *fast.Writer, v uint64) {
	for {
		chunk := v & 0x7f
		v >>= 7
		if v == 0 {
			chunk |= 0x80
		}
		w.WriteByte(byte(chunk))
		if v == 0 {
			return
		}
	}
}

// readVarint decodes the reverse-stop-bit varint, panicking on padding that
// would make the encoding ambiguous.
func readVarint(r *fast.Reader) uint64 {
	v := uint64(0)
	for i := 0; ; i++ {
		chunk := uint64(r.ReadByte())
		stop := chunk&0x80 != 0
		word := chunk & 0x7f
		v |= word << uint(i*7)
		if stop {
			if i > 0 && word == 0 {
				panic(ErrNonCanonicalEncoding)
			}
			return v
		}
	}
}

// writeUintLE writes v little-endian using as few bytes as possible, but not
// fewer than minSize. Returns the number of bytes written.
func writeUintLE(w *fast.Writer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		w.WriteByte(byte(v))
		size++
		v >>= 8
	}
	return size
}

// readUintLE reads a little-endian integer of exactly size bytes. A zero
// most-significant byte means the value was padded, which is non-canonical.
func readUintLE(r *fast.Reader, size int) uint64 {
	var (
		v    uint64
		last byte
	)
	for i, b := range r.Read(size) {
		v |= uint64(b) << uint(8*i)
		last = b
	}
	if size > 1 && last == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	return v
}

// writeUint stores the value bytes in the byte stream and the byte count
// (minus minSize, in sizeBits bits) in the bit stream.
func (w *Writer) writeUint(minSize int, sizeBits int, v uint64) {
	size := writeUintLE(w.BytesW, v, minSize)
	w.BitsW.Write(sizeBits, uint(size-minSize))
}

// readUint is the inverse of writeUint.
func (r *Reader) readUint(minSize int, sizeBits int) uint64 {
	size := minSize + int(r.BitsR.Read(sizeBits))
	return readUintLE(r.BytesR, size)
}

// U8 writes a byte straight into the byte stream.
func (w *Writer) U8(v uint8) {
	w.BytesW.WriteByte(v)
}

// U8 reads a byte from the byte stream.
func (r *Reader) U8() uint8 {
	return r.BytesR.ReadByte()
}

// U32 writes a uint32 using 1..4 bytes (2-bit size tag).
func (w *Writer) U32(v uint32) {
	w.writeUint(1, 2, uint64(v))
}

// U32 reads a uint32.
func (r *Reader) U32() uint32 {
	return uint32(r.readUint(1, 2))
}

// U64 writes a uint64 using 1..8 bytes (3-bit size tag).
func (w *Writer) U64(v uint64) {
	w.writeUint(1, 3, v)
}

// U64 reads a uint64.
func (r *Reader) U64() uint64 {
	return r.readUint(1, 3)
}

// VarUint is the encoding used for counts and map sizes.
func (w *Writer) VarUint(v uint64) {
	w.writeUint(1, 3, v)
}

// VarUint reads a count.
func (r *Reader) VarUint() uint64 {
	return r.readUint(1, 3)
}

// U56 writes a length field using 0..7 bytes, so zero lengths cost no body
// bytes at all.
func (w *Writer) U56(v uint64) {
	const max = 1<<56 - 1
	if v > max {
		panic("cser: value exceeds 56 bits")
	}
	w.writeUint(0, 3, v)
}

// U56 reads a length field.
func (r *Reader) U56() uint64 {
	return r.readUint(0, 3)
}

// Bool writes a single bit.
func (w *Writer) Bool(v bool) {
	u := uint(0)
	if v {
		u = 1
	}
	w.BitsW.Write(1, u)
}

// Bool reads a single bit.
func (r *Reader) Bool() bool {
	return r.BitsR.Read(1) != 0
}

// FixedBytes writes raw bytes without a length prefix.
func (w *Writer) FixedBytes(v []byte) {
	w.BytesW.Write(v)
}

// FixedBytes fills v with the next len(v) bytes.
func (r *Reader) FixedBytes(v []byte) {
	copy(v, r.BytesR.Read(len(v)))
}

// SliceBytes writes a length-prefixed byte slice.
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}

// SliceBytes reads a length-prefixed byte slice of at most maxLen bytes.
func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) || size > MaxAlloc {
		panic(ErrTooLargeAlloc)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}
