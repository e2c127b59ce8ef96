// Package cser implements a canonical binary encoding. A structure encodes
// into exactly one byte sequence and every byte sequence decodes into at most
// one structure: integers are packed minimally, trailing padding must be
// zero, and the decoder rejects leftover data. That property makes encoded
// snapshots safe to fingerprint and compare byte-for-byte.
//
// Wire layout:
//
//	[body byte stream] [bit stream bytes] [varint(len(bit stream)), reversed]
//
// The bit-stream length is written back-to-front at the very end, so the
// decoder can find the split point by scanning backwards.
package cser

import (
	"github.com/rony4d/go-ballot/utils/bits"
	"github.com/rony4d/go-ballot/utils/fast"
)

// MarshalBinaryAdapter runs the given encoding callback over a fresh Writer
// and packs both streams into a single byte slice.
func MarshalBinaryAdapter(marshalCser func(*Writer) error) ([]byte, error) {
	w := NewWriter()
	err := marshalCser(w)
	if err != nil {
		return nil, err
	}
	return packStreams(w.BitsW.Array, w.BytesW.Bytes()), nil
}

// UnmarshalBinaryAdapter splits raw into the two streams, runs the decoding
// callback, and enforces that the callback consumed everything. Panics from
// the unchecked buffer reads surface as ErrMalformedEncoding; truncated or
// padded input surfaces as a canonicality error.
func UnmarshalBinaryAdapter(raw []byte, unmarshalCser func(*Reader) error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			switch recovered {
			case ErrNonCanonicalEncoding, ErrTooLargeAlloc:
				err = recovered.(error)
			default:
				err = ErrMalformedEncoding
			}
		}
	}()

	bbits, bbytes, err := unpackStreams(raw)
	if err != nil {
		return err
	}
	r := &Reader{
		BitsR:  bits.NewReader(bbits),
		BytesR: fast.NewReader(bbytes),
	}

	err = unmarshalCser(r)
	if err != nil {
		return err
	}

	// Strict mode: all bytes of both streams must be consumed and the unused
	// bits of the final bit-stream byte must be zero.
	if r.BitsR.NonReadBytes() > 1 {
		return ErrNonCanonicalEncoding
	}
	if tailBits := r.BitsR.Read(r.BitsR.NonReadBits()); tailBits != 0 {
		return ErrNonCanonicalEncoding
	}
	if !r.BytesR.Empty() {
		return ErrNonCanonicalEncoding
	}
	return nil
}

// packStreams appends the bit-stream bytes after the body and terminates the
// blob with the reversed varint length of the bit stream.
func packStreams(bbits *bits.Array, bbytes []byte) []byte {
	body := fast.NewWriter(bbytes)
	body.Write(bbits.Bytes)

	suffix := fast.NewWriter(make([]byte, 0, 4))
	writeVarint(suffix, uint64(len(bbits.Bytes)))
	body.Write(reversed(suffix.Bytes()))

	return body.Bytes()
}

// unpackStreams splits a packed blob back into bit and byte streams.
func unpackStreams(raw []byte) (bbits *bits.Array, bbytes []byte, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = ErrMalformedEncoding
		}
	}()

	// The suffix varint occupies at most 9 bytes for a 56+ bit length; decode
	// it from the reversed tail to locate the stream boundary.
	suffix := fast.NewReader(reversed(tail(raw, 9)))
	bitsSize := readVarint(suffix)

	raw = raw[:len(raw)-suffix.Position()]
	if uint64(len(raw)) < bitsSize {
		return nil, nil, ErrMalformedEncoding
	}

	split := uint64(len(raw)) - bitsSize
	bbits = &bits.Array{Bytes: raw[split:]}
	bbytes = raw[:split]
	return bbits, bbytes, nil
}

// tail returns the last maxLen bytes of b.
func tail(b []byte, maxLen int) []byte {
	if len(b) > maxLen {
		return b[len(b)-maxLen:]
	}
	return b
}

// reversed returns a new slice with the bytes of b in reverse order.
func reversed(b []byte) []byte {
	res := make([]byte, len(b))
	for i, v := range b {
		res[len(b)-1-i] = v
	}
	return res
}
