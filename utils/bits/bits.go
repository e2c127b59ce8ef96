// Package bits implements a little-endian bit stream over a byte slice.
// Values are packed least-significant bit first, so sub-byte fields (flags,
// small size tags) don't burn a whole byte each. It is the carrier of the
// side channel in the cser canonical encoding.
package bits

type (
	// Array is the backing byte slice of a bit stream.
	Array struct {
		Bytes []byte
	}

	// Writer appends bits to an Array.
	Writer struct {
		*Array
		bitOffset int // next free bit within the last byte, 0..7
	}

	// Reader consumes bits from an Array.
	Reader struct {
		*Array
		byteOffset int
		bitOffset  int // next unread bit within Bytes[byteOffset], 0..7
	}
)

// NewWriter wraps arr for appending.
func NewWriter(arr *Array) *Writer {
	return &Writer{
		Array: arr,
	}
}

// NewReader wraps arr for consuming from the start.
func NewReader(arr *Array) *Reader {
	return &Reader{
		Array: arr,
	}
}

// Write appends the lowest n bits of v to the stream.
func (w *Writer) Write(n int, v uint) {
	for n > 0 {
		if w.bitOffset == 0 {
			w.Bytes = append(w.Bytes, 0)
		}
		chunk := n
		if free := 8 - w.bitOffset; chunk > free {
			chunk = free
		}
		mask := uint(1)<<uint(chunk) - 1
		w.Bytes[len(w.Bytes)-1] |= byte((v & mask) << uint(w.bitOffset))
		v >>= uint(chunk)
		n -= chunk
		w.bitOffset = (w.bitOffset + chunk) & 7
	}
}

// Read consumes the next n bits and returns them as an integer.
// It panics if the stream has fewer than n bits left.
func (r *Reader) Read(n int) uint {
	var (
		v     uint
		shift uint
	)
	for n > 0 {
		chunk := n
		if free := 8 - r.bitOffset; chunk > free {
			chunk = free
		}
		mask := uint(1)<<uint(chunk) - 1
		v |= (uint(r.Bytes[r.byteOffset]) >> uint(r.bitOffset) & mask) << shift
		shift += uint(chunk)
		n -= chunk
		r.bitOffset += chunk
		if r.bitOffset == 8 {
			r.bitOffset = 0
			r.byteOffset++
		}
	}
	return v
}

// NonReadBytes returns how many bytes contain unread bits.
func (r *Reader) NonReadBytes() int {
	return len(r.Bytes) - r.byteOffset
}

// NonReadBits returns how many bits are left to read.
func (r *Reader) NonReadBits() int {
	return r.NonReadBytes()*8 - r.bitOffset
}
