// Package integration assembles the snapshot pipeline end to end: reading
// registration dumps, applying a network's rules, and moving snapshots in
// and out of compressed archives. Launcher commands are thin wrappers over
// these helpers, which keeps the pipeline testable without a CLI context.
//
// Usage:
//
//	raw, err := integration.LoadRawSnapshot("registrations.json")
//	...
//	snap, err := integration.BuildSnapshot(ballot.MainNetRules(), raw)
//	...
//	err = integration.WriteSnapshotArchive("snapshot.bin", snap)
package integration

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rony4d/go-ballot/ballot"
	"github.com/rony4d/go-ballot/snapshot"
	"github.com/rony4d/go-ballot/utils/archive"
)

// LoadRawSnapshot reads a registration dump from path. Plain JSON and
// zstd-compressed JSON are both accepted; compression is detected by
// content, so file extensions carry no meaning.
func LoadRawSnapshot(path string) (snapshot.RawSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registrations %s: %w", path, err)
	}
	if archive.IsCompressed(data) {
		data, err = archive.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress registrations %s: %w", path, err)
		}
	}
	var raw snapshot.RawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode registrations %s: %w", path, err)
	}
	return raw, nil
}

// BuildSnapshot runs the snapshot builder under the network's vote rules.
func BuildSnapshot(rules ballot.Rules, raw snapshot.RawSnapshot) (*snapshot.Snapshot, error) {
	s, err := snapshot.FromRawSnapshot(raw, rules.Votes.MinStakeThreshold, rules.Votes.VotingPurpose)
	if err != nil {
		return nil, fmt.Errorf("build %s snapshot: %w", rules.Name, err)
	}
	return s, nil
}

// WriteSnapshotArchive stores the snapshot at path as zstd-compressed
// canonical bytes. Equal snapshots produce byte-identical archives.
func WriteSnapshotArchive(path string, s *snapshot.Snapshot) error {
	raw, err := s.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, archive.Compress(raw), 0o644); err != nil {
		return fmt.Errorf("write archive %s: %w", path, err)
	}
	return nil
}

// ReadSnapshotArchive loads a snapshot stored by WriteSnapshotArchive.
// An uncompressed archive is accepted as well.
func ReadSnapshotArchive(path string) (*snapshot.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, err)
	}
	if archive.IsCompressed(data) {
		data, err = archive.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress archive %s: %w", path, err)
		}
	}
	s := &snapshot.Snapshot{}
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("decode archive %s: %w", path, err)
	}
	return s, nil
}
