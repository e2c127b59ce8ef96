package snapshot

import (
	"math"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	"github.com/rony4d/go-ballot/inter"
	"github.com/rony4d/go-ballot/inter/votepk"
)

// committeeWeightBudget caps the total weight handed to the consensus-side
// validator set. pos.Weight is 32-bit; staying at half the range leaves the
// weight math inside lachesis free of overflow.
const committeeWeightBudget = math.MaxUint32 / 2

// Voter is the ballot-side representation of a committee member.
// It pairs the voting key with the aggregate power the snapshot assigned it.
type Voter struct {
	// PubKey is the voting key contributions were delegated to.
	PubKey votepk.PubKey

	// Power is the total power of the key: the sum of all its contributions.
	Power inter.Value
}

// VoterAndID is a convenience structure that pairs a committee member with
// their unique numeric index (ID). IDs start at 1 and follow ascending key
// bytes, so the same snapshot always produces the same assignment.
type VoterAndID struct {
	// VoterID is the unique numeric identifier (index) for the member.
	VoterID idx.ValidatorID

	// Voter holds the detailed information (PubKey, Power) for this ID.
	Voter Voter
}

// Voters returns the full committee roster in ID order. Keys whose
// contributions sum to zero are still listed; whether they may vote is a
// tallying concern, not a snapshot one.
func (s *Snapshot) Voters() []VoterAndID {
	res := make([]VoterAndID, 0, len(s.keys))
	for i, pk := range s.keys {
		res = append(res, VoterAndID{
			VoterID: idx.ValidatorID(i + 1),
			Voter: Voter{
				PubKey: pk,
				Power:  s.VotingPowerOf(pk),
			},
		})
	}
	return res
}

// Committee builds the weighted validator set of the snapshot, with member
// IDs matching Voters(). Powers are 64-bit but pos weights are 32-bit, so
// every power is divided by the smallest divisor that brings the total under
// committeeWeightBudget. A member with non-zero power never rounds down to
// weight zero; members with zero power are left out, since a zero weight
// carries no say anyway.
func (s *Snapshot) Committee() *pos.Validators {
	total := uint64(0)
	for _, pk := range s.keys {
		total += uint64(s.VotingPowerOf(pk))
	}
	divisor := total/committeeWeightBudget + 1

	builder := pos.NewBuilder()
	for i, pk := range s.keys {
		power := uint64(s.VotingPowerOf(pk))
		if power == 0 {
			continue
		}
		weight := power / divisor
		if weight == 0 {
			weight = 1
		}
		builder.Set(idx.ValidatorID(i+1), pos.Weight(weight))
	}
	return builder.Build()
}
