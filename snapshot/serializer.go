package snapshot

import (
	"bytes"
	"errors"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/rony4d/go-ballot/inter"
	"github.com/rony4d/go-ballot/inter/votepk"
	"github.com/rony4d/go-ballot/utils/cser"
)

// Errors related to snapshot archive decoding.
var (
	ErrUnknownArchiveVersion = errors.New("unknown snapshot archive version: tool is likely outdated")
)

// archiveVersion is the current version byte of the archive encoding.
const archiveVersion = 1

// MaxArchiveSize is the hard limit for a decoded snapshot archive (100 MB).
// Used to reject malformed size fields before they force huge allocations.
const MaxArchiveSize = 100 * 1024 * 1024

// MarshalCSER writes the snapshot into the canonical format:
//
//  1. Version (uint8)
//  2. Stake threshold (uint64)
//  3. Voting key count (uint32)
//  4. Per key, in ascending key order: raw key bytes, contribution count
//     (uint32), then each contribution's reward address (length-prefixed
//     bytes) and value (uint64)
//
// The encoding is canonical: equal snapshots marshal to equal bytes, which
// makes archives safe to fingerprint and diff.
func (s *Snapshot) MarshalCSER(w *cser.Writer) error {
	w.U8(archiveVersion)
	w.U64(uint64(s.stakeThreshold))
	w.U32(uint32(len(s.keys)))
	for _, pk := range s.keys {
		w.FixedBytes(pk.Bytes())
		cc := s.inner[pk]
		w.U32(uint32(len(cc)))
		for _, c := range cc {
			w.SliceBytes([]byte(c.RewardAddress))
			w.U64(uint64(c.Value))
		}
	}
	return nil
}

// UnmarshalCSER reads a snapshot from the canonical format. It rejects
// unknown versions, keys out of ascending order, and keys without
// contributions: none of these are ever produced by MarshalCSER.
func (s *Snapshot) UnmarshalCSER(r *cser.Reader) error {
	version := r.U8()
	if version != archiveVersion {
		return ErrUnknownArchiveVersion
	}
	stakeThreshold := r.U64()

	keysNum := r.U32()
	if keysNum > MaxArchiveSize/votepk.Size {
		return cser.ErrTooLargeAlloc
	}
	keys := make([]votepk.PubKey, 0, keysNum)
	inner := make(map[votepk.PubKey][]KeyContribution, keysNum)
	var prev votepk.PubKey
	for i := uint32(0); i < keysNum; i++ {
		var pk votepk.PubKey
		r.FixedBytes(pk[:])
		// Ascending key order doubles as a uniqueness check.
		if i > 0 && bytes.Compare(prev.Bytes(), pk.Bytes()) >= 0 {
			return cser.ErrNonCanonicalEncoding
		}
		prev = pk

		contribsNum := r.U32()
		if contribsNum == 0 {
			return cser.ErrNonCanonicalEncoding
		}
		if contribsNum > MaxArchiveSize/8 {
			return cser.ErrTooLargeAlloc
		}
		cc := make([]KeyContribution, 0, contribsNum)
		for j := uint32(0); j < contribsNum; j++ {
			addr := r.SliceBytes(cser.MaxAlloc)
			value := r.U64()
			cc = append(cc, KeyContribution{
				RewardAddress: inter.RewardAddress(addr),
				Value:         inter.Value(value),
			})
		}
		keys = append(keys, pk)
		inner[pk] = cc
	}

	s.keys = keys
	s.inner = inner
	s.stakeThreshold = inter.Value(stakeThreshold)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(s.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Snapshot) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, s.UnmarshalCSER)
}

// Hash calculates a deterministic fingerprint of the snapshot. It combines
// the threshold, every key and every contribution, each integer big-endian
// and each list length-tagged, so shifting a value between fields cannot
// produce the same digest. Two snapshots hash equal iff they would marshal
// equal.
func (s *Snapshot) Hash() hash.Hash {
	parts := make([][]byte, 0, 2+len(s.keys)*2)
	parts = append(parts,
		bigendian.Uint64ToBytes(uint64(s.stakeThreshold)),
		bigendian.Uint32ToBytes(uint32(len(s.keys))),
	)
	for _, pk := range s.keys {
		cc := s.inner[pk]
		parts = append(parts, pk.Bytes(), bigendian.Uint32ToBytes(uint32(len(cc))))
		for _, c := range cc {
			parts = append(parts,
				bigendian.Uint32ToBytes(uint32(len(c.RewardAddress))),
				[]byte(c.RewardAddress),
				bigendian.Uint64ToBytes(uint64(c.Value)),
			)
		}
	}
	return hash.Of(parts...)
}
