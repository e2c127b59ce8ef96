// Package fast holds minimal byte-slice buffers for linear serialization.
// Unlike bytes.Buffer they do no bounds checking: reading past the end
// panics, which the cser adapter converts into a malformed-encoding error.
package fast

// Writer accumulates bytes by plain append.
type Writer struct {
	buf []byte
}

// Reader consumes a byte slice by advancing an offset.
type Reader struct {
	buf    []byte
	offset int
}

// NewWriter starts a Writer on top of bb, which is usually
// make([]byte, 0, capacity).
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// NewReader starts a Reader at the beginning of bb.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf: bb,
	}
}

// WriteByte appends one byte.
func (w *Writer) WriteByte(v byte) {
	w.buf = append(w.buf, v)
}

// Write appends a slice of bytes.
func (w *Writer) Write(v []byte) {
	w.buf = append(w.buf, v...)
}

// Bytes returns the accumulated content.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Read consumes the next n bytes. The returned slice aliases the
// underlying buffer; callers must copy before mutating.
func (r *Reader) Read(n int) []byte {
	res := r.buf[r.offset : r.offset+n]
	r.offset += n
	return res
}

// ReadByte consumes one byte.
func (r *Reader) ReadByte() byte {
	res := r.buf[r.offset]
	r.offset++
	return res
}

// Position returns how many bytes have been consumed.
func (r *Reader) Position() int {
	return r.offset
}

// Bytes returns the whole underlying buffer, consumed or not.
func (r *Reader) Bytes() []byte {
	return r.buf
}

// Empty reports whether the Reader is fully consumed.
func (r *Reader) Empty() bool {
	return len(r.buf) == r.offset
}
