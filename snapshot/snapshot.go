// Package snapshot turns raw on-chain voting registrations into the
// deterministic voting-power snapshot that seeds a ballot chain's genesis
// state. The builder filters registrations by stake threshold and voting
// purpose, splits each surviving registration's power across its delegated
// voting keys by integer weights, and aggregates the results into a
// queryable, exportable structure.
//
// The distribution arithmetic is exact: every included registration's power
// is accounted for once and only once. Integer division necessarily loses
// fractions on all but one delegate; the last-listed delegate of each
// registration absorbs the remainder, so delegation order is meaningful and
// the result is reproducible for any input ordering.
//
// Key concepts:
//   - RawSnapshot: the ordered registration dump the builder consumes
//   - KeyContribution: one registration's stake backing one voting key
//   - Snapshot: immutable key -> contributions mapping plus the threshold
//
// Usage:
//
//	snap, err := snapshot.FromRawSnapshot(raw, threshold, purpose)
//	...
//	for _, pk := range snap.VotingKeys() {
//		power := snap.VotingPowerOf(pk)
//		...
//	}
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"
	"sort"

	"github.com/rony4d/go-ballot/inter"
	"github.com/rony4d/go-ballot/inter/votepk"
)

// RawSnapshot is the sequence of registrations the builder consumes, in the
// order the upstream decoder produced them. The order never changes a key's
// total, only the order of entries inside its contribution list.
type RawSnapshot []inter.VotingRegistration

// KeyContribution is an atomic unit of stake backing a voting key.
// Contributions to the same key are never merged: each one keeps the reward
// address of the registration it came from, so per-registration provenance
// survives aggregation.
type KeyContribution struct {
	RewardAddress inter.RewardAddress `json:"reward_address"`
	Value         inter.Value         `json:"value"`
}

// Snapshot is the result of a build: every delegated voting key mapped to
// the list of contributions backing it. It is immutable after construction;
// all accessors return copies.
type Snapshot struct {
	// keys holds every voting key with at least one contribution, sorted by
	// ascending key bytes. All iteration and export follows this order.
	keys []votepk.PubKey

	inner map[votepk.PubKey][]KeyContribution

	stakeThreshold inter.Value
}

// FromRawSnapshot builds a Snapshot from raw registrations.
//
// A registration is included iff its voting power is at least stakeThreshold
// and its voting purpose equals votingPurpose; everything else is dropped
// silently, since foreign-purpose and under-threshold records are expected
// noise in real dumps. Included registrations distribute their power across
// their delegations:
//
//   - a legacy delegation assigns the full power to its single key;
//   - a weighted delegation assigns floor(power*weight/totalWeight) to every
//     entry except the last listed, skipping zero shares, and the last entry
//     receives whatever remains, unless that remainder is zero.
//
// The only build error is a weighted delegation without entries, which the
// upstream decoder must never produce.
func FromRawSnapshot(raw RawSnapshot, stakeThreshold inter.Value, votingPurpose inter.VotingPurpose) (*Snapshot, error) {
	s := &Snapshot{
		inner:          make(map[votepk.PubKey][]KeyContribution),
		stakeThreshold: stakeThreshold,
	}
	for i, reg := range raw {
		if reg.VotingPower < stakeThreshold {
			continue
		}
		if reg.VotingPurpose != votingPurpose {
			continue
		}
		if err := s.distribute(reg); err != nil {
			return nil, fmt.Errorf("registration #%d (stake key %q): %w", i, reg.StakePublicKey, err)
		}
	}

	s.keys = make([]votepk.PubKey, 0, len(s.inner))
	for pk := range s.inner {
		s.keys = append(s.keys, pk)
	}
	sort.Slice(s.keys, func(i, j int) bool {
		return bytes.Compare(s.keys[i].Bytes(), s.keys[j].Bytes()) < 0
	})
	return s, nil
}

// distribute splits one registration's power across its delegations and
// appends the resulting contributions.
func (s *Snapshot) distribute(reg inter.VotingRegistration) error {
	switch reg.Delegations.Kind {
	case inter.LegacyDelegations:
		// The single key takes everything, a zero power included.
		s.push(reg.Delegations.Legacy, KeyContribution{
			RewardAddress: reg.RewardAddress,
			Value:         reg.VotingPower,
		})
		return nil

	case inter.WeightedDelegations:
		entries := reg.Delegations.Weighted
		if len(entries) == 0 {
			return errors.New("weighted delegations carry no voting keys")
		}
		power := uint64(reg.VotingPower)
		totalWeight := uint64(0)
		for _, e := range entries {
			totalWeight += uint64(e.Weight)
		}
		if totalWeight == 0 {
			return errors.New("weighted delegations carry zero total weight")
		}

		// Everyone but the last-listed entry gets the floored proportional
		// share; zero shares produce no contribution at all.
		othersTotal := uint64(0)
		for _, e := range entries[:len(entries)-1] {
			// 128-bit intermediate product, so power*weight cannot overflow.
			// share <= power holds because weight <= totalWeight.
			hi, lo := bits.Mul64(power, uint64(e.Weight))
			share, _ := bits.Div64(hi, lo, totalWeight)
			if share == 0 {
				continue
			}
			othersTotal += share
			s.push(e.VotingKey, KeyContribution{
				RewardAddress: reg.RewardAddress,
				Value:         inter.Value(share),
			})
		}

		// The last entry absorbs the rounding remainder, if any is left.
		if remainder := power - othersTotal; remainder != 0 {
			s.push(entries[len(entries)-1].VotingKey, KeyContribution{
				RewardAddress: reg.RewardAddress,
				Value:         inter.Value(remainder),
			})
		}
		return nil

	default:
		return fmt.Errorf("unknown delegations kind: %d", reg.Delegations.Kind)
	}
}

func (s *Snapshot) push(pk votepk.PubKey, c KeyContribution) {
	s.inner[pk] = append(s.inner[pk], c)
}

// StakeThreshold returns the minimum voting power a registration needed to
// be included in this snapshot.
func (s *Snapshot) StakeThreshold() inter.Value {
	return s.stakeThreshold
}

// Len returns the number of voting keys with at least one contribution.
func (s *Snapshot) Len() int {
	return len(s.keys)
}

// VotingKeys returns every voting key with at least one contribution, in
// ascending key-byte order. The returned slice is a fresh copy on every
// call, so callers may reorder or truncate it freely.
func (s *Snapshot) VotingKeys() []votepk.PubKey {
	keys := make([]votepk.PubKey, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// ContributionsForVotingKey returns a copy of the contribution list of pk,
// in registration processing order. An unknown key yields an empty list,
// never an error: absence is an expected state.
func (s *Snapshot) ContributionsForVotingKey(pk votepk.PubKey) []KeyContribution {
	cc := make([]KeyContribution, len(s.inner[pk]))
	copy(cc, s.inner[pk])
	return cc
}

// VotingPowerOf sums the contribution values recorded for pk. An unknown
// key has power 0.
func (s *Snapshot) VotingPowerOf(pk votepk.PubKey) inter.Value {
	var total inter.Value
	for _, c := range s.inner[pk] {
		total += c.Value
	}
	return total
}
