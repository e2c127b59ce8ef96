// Package inter defines the core voting data structures that bridge
// on-chain registration records with the ballot-side snapshot and genesis
// tooling. This file contains the VotingRegistration record, the unit of
// input the snapshot builder consumes.
//
// Key concepts:
//   - VotingRegistration: one stake-side registration of voting power
//   - Delegations: how that power is assigned to ballot-side voting keys
//   - Value: token amounts (voting power, fund values), a plain uint64
//   - VotingPurpose: numeric tag telling governance instances apart
//
// Usage:
//
//	var reg inter.VotingRegistration
//	err := json.Unmarshal(record, &reg)
//	...
//	if reg.VotingPurpose == purpose && reg.VotingPower >= threshold { ... }
//
// Registrations arrive as JSON dumps produced by chain-side tooling; the
// decoder accepts the field spellings those dumps actually use, including
// legacy records that omit the voting purpose.
package inter

import (
	"encoding/json"
	"errors"
)

// Value is an amount of tokens: a registration's voting power or a genesis
// fund value.
type Value uint64

// VotingPurpose tags the governance instance a registration is meant for.
// Purpose 0 is the default instance; other values are reserved for future
// use and carry no semantics here beyond equality filtering.
type VotingPurpose uint64

// RewardAddress is the payout destination of a registration. It is opaque
// to this tool: the chain side validates it, the ballot side only carries
// it through to contributions.
type RewardAddress string

// VotingRegistration is one registration record from the source chain.
type VotingRegistration struct {
	// StakePublicKey identifies the stake account that registered. Opaque
	// here: signatures were verified by the chain-side indexer.
	StakePublicKey string `json:"stake_public_key"`

	// VotingPower is the power associated with the stake account at the
	// snapshot point.
	VotingPower Value `json:"voting_power"`

	// RewardAddress receives voting rewards for this registration.
	RewardAddress RewardAddress `json:"reward_address"`

	// Delegations assigns the power to one or more voting keys.
	Delegations Delegations `json:"delegations"`

	// VotingPurpose must match the snapshot's configured purpose for the
	// registration to count. Absent in legacy records, which default to 0.
	VotingPurpose VotingPurpose `json:"voting_purpose"`
}

// UnmarshalJSON decodes a registration record. On top of the canonical
// field set it tolerates two quirks of real dumps: "total_voting_power" as
// an alias of "voting_power", and a missing "voting_purpose" (defaults
// to 0).
func (r *VotingRegistration) UnmarshalJSON(raw []byte) error {
	var dec struct {
		StakePublicKey   string         `json:"stake_public_key"`
		VotingPower      *Value         `json:"voting_power"`
		TotalVotingPower *Value         `json:"total_voting_power"`
		RewardAddress    RewardAddress  `json:"reward_address"`
		Delegations      *Delegations   `json:"delegations"`
		VotingPurpose    *VotingPurpose `json:"voting_purpose"`
	}
	if err := json.Unmarshal(raw, &dec); err != nil {
		return err
	}

	power := dec.VotingPower
	if power == nil {
		power = dec.TotalVotingPower
	}
	if power == nil {
		return errors.New("registration is missing voting_power")
	}
	if dec.Delegations == nil {
		return errors.New("registration is missing delegations")
	}

	r.StakePublicKey = dec.StakePublicKey
	r.VotingPower = *power
	r.RewardAddress = dec.RewardAddress
	r.Delegations = *dec.Delegations
	if dec.VotingPurpose != nil {
		r.VotingPurpose = *dec.VotingPurpose
	} else {
		r.VotingPurpose = 0
	}
	return nil
}
