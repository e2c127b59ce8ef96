package inter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/rony4d/go-ballot/inter/votepk"
)

// DelegationsKind discriminates the two registration formats.
type DelegationsKind uint8

const (
	// LegacyDelegations assigns the whole voting power to a single key.
	LegacyDelegations DelegationsKind = iota
	// WeightedDelegations splits the voting power across weighted keys.
	WeightedDelegations
)

// Delegation is one (voting key, weight) entry of a weighted registration.
type Delegation struct {
	VotingKey votepk.PubKey
	Weight    uint32
}

// Delegations is the union of the two registration formats. Exactly one of
// Legacy and Weighted is meaningful, selected by Kind.
type Delegations struct {
	Kind     DelegationsKind
	Legacy   votepk.PubKey
	Weighted []Delegation
}

// NewLegacy makes a single-key delegation.
func NewLegacy(pk votepk.PubKey) Delegations {
	return Delegations{
		Kind:   LegacyDelegations,
		Legacy: pk,
	}
}

// NewWeighted makes a weighted delegation. The entry order is preserved:
// the last entry is the one that absorbs the rounding remainder when power
// is distributed.
func NewWeighted(entries ...Delegation) Delegations {
	return Delegations{
		Kind:     WeightedDelegations,
		Weighted: entries,
	}
}

// Validate checks the structural invariants of the delegations.
func (d Delegations) Validate() error {
	switch d.Kind {
	case LegacyDelegations:
		return nil
	case WeightedDelegations:
		if len(d.Weighted) == 0 {
			return errors.New("weighted delegations must name at least one voting key")
		}
		return nil
	default:
		return fmt.Errorf("unknown delegations kind: %d", d.Kind)
	}
}

// MarshalJSON encodes legacy delegations as a single key string and
// weighted delegations as an array of [key, weight] pairs.
func (d Delegations) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case LegacyDelegations:
		return json.Marshal(d.Legacy)
	case WeightedDelegations:
		return json.Marshal(d.Weighted)
	default:
		return nil, fmt.Errorf("unknown delegations kind: %d", d.Kind)
	}
}

// UnmarshalJSON decodes the three shapes registration dumps use:
//
//	"0x<key>"                 legacy, the whole power to one key
//	[["0x<key>", weight],...] weighted, order preserved
//	{"0x<key>": weight, ...}  weighted, canonicalized by ascending key bytes
//
// The object form has no inherent order, so it is sorted to make snapshot
// results independent of map iteration.
func (d *Delegations) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return errors.New("empty delegations")
	}
	switch trimmed[0] {
	case '"':
		var pk votepk.PubKey
		if err := json.Unmarshal(trimmed, &pk); err != nil {
			return err
		}
		*d = NewLegacy(pk)
		return nil
	case '[':
		var entries []Delegation
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		*d = NewWeighted(entries...)
		return nil
	case '{':
		var weights map[string]uint32
		if err := json.Unmarshal(trimmed, &weights); err != nil {
			return err
		}
		entries := make([]Delegation, 0, len(weights))
		for key, weight := range weights {
			pk, err := votepk.FromString(key)
			if err != nil {
				return err
			}
			entries = append(entries, Delegation{VotingKey: pk, Weight: weight})
		}
		sort.Slice(entries, func(i, j int) bool {
			return bytes.Compare(entries[i].VotingKey.Bytes(), entries[j].VotingKey.Bytes()) < 0
		})
		*d = NewWeighted(entries...)
		return nil
	default:
		return fmt.Errorf("unexpected delegations format: %s", shorten(trimmed))
	}
}

// MarshalJSON encodes the delegation as a [key, weight] pair.
func (e Delegation) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{e.VotingKey, e.Weight})
}

// UnmarshalJSON decodes a [key, weight] pair.
func (e *Delegation) UnmarshalJSON(raw []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("delegation must be a [key, weight] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.VotingKey); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Weight)
}

func shorten(b []byte) []byte {
	const max = 32
	if len(b) <= max {
		return b
	}
	return append(append([]byte{}, b[:max]...), "..."...)
}
