// Package ballot defines the network rules for the voting-side deployments
// of the snapshot tool.
//
// This package provides:
//   - Network identification constants (MainNet, TestNet, FakeNet)
//   - Vote rules: the stake threshold and voting purpose a snapshot is
//     filtered by
//   - Genesis rules: the address discrimination initial funds are exported
//     with
//
// The Rules type is the central configuration structure: a named bundle of
// every parameter that changes what a snapshot or a genesis export contains.
// Two runs with equal Rules and equal input produce byte-identical outputs.

package ballot

import (
	"encoding/json"
	"fmt"

	"github.com/rony4d/go-ballot/inter"
	"github.com/rony4d/go-ballot/inter/chainaddr"
)

// Network identification constants
const (
	// MainNetworkID is the chain ID of the production voting network
	MainNetworkID uint64 = 0xba11

	// TestNetworkID is the chain ID of the public test voting network
	TestNetworkID uint64 = 0xba112

	// FakeNetworkID is the chain ID for local/fake networks used in testing
	FakeNetworkID uint64 = 0xba113
)

const (
	// DefaultVotingPurpose is the governance instance snapshots are built
	// for. Registrations carrying any other purpose tag are dropped.
	DefaultVotingPurpose inter.VotingPurpose = 0

	// DefaultMinStakeThreshold is the production stake threshold: the
	// minimum voting power a registration needs to enter the snapshot.
	DefaultMinStakeThreshold inter.Value = 500_000_000
)

// VotesRules defines how registrations are filtered into a snapshot.
type VotesRules struct {
	// MinStakeThreshold is the inclusive lower bound on a registration's
	// voting power.
	MinStakeThreshold inter.Value

	// VotingPurpose selects the governance instance. Only registrations
	// tagged with exactly this purpose count.
	VotingPurpose inter.VotingPurpose
}

// GenesisRules defines how a snapshot is exported as genesis initial funds.
type GenesisRules struct {
	// Discrimination is embedded into every exported fund address, so funds
	// minted for one network kind cannot be replayed on the other.
	Discrimination chainaddr.Discrimination
}

// Rules describes the complete configuration of a voting network.
type Rules struct {
	Name      string // network name identifier (e.g., "main", "test", "fake")
	NetworkID uint64 // chain ID of the network

	// Votes options - snapshot filtering
	Votes VotesRules

	// Genesis options - initial funds export
	Genesis GenesisRules
}

// MainNetRules returns the configuration rules for the production network.
func MainNetRules() Rules {
	return Rules{
		Name:      "main",
		NetworkID: MainNetworkID,
		Votes:     DefaultVotesRules(),
		Genesis: GenesisRules{
			Discrimination: chainaddr.Production,
		},
	}
}

// TestNetRules returns the configuration rules for the public test network.
// Testnet filters with the same thresholds as mainnet for realistic testing,
// but mints test-discriminated addresses.
func TestNetRules() Rules {
	return Rules{
		Name:      "test",
		NetworkID: TestNetworkID,
		Votes:     DefaultVotesRules(),
		Genesis: GenesisRules{
			Discrimination: chainaddr.Test,
		},
	}
}

// FakeNetRules returns the configuration rules for fake/local networks.
// Fake networks accept every registration regardless of power, so small
// hand-written fixtures survive the threshold filter.
func FakeNetRules() Rules {
	return Rules{
		Name:      "fake",
		NetworkID: FakeNetworkID,
		Votes: VotesRules{
			MinStakeThreshold: 0,
			VotingPurpose:     DefaultVotingPurpose,
		},
		Genesis: GenesisRules{
			Discrimination: chainaddr.Test,
		},
	}
}

// DefaultVotesRules returns the mainnet vote filtering configuration.
func DefaultVotesRules() VotesRules {
	return VotesRules{
		MinStakeThreshold: DefaultMinStakeThreshold,
		VotingPurpose:     DefaultVotingPurpose,
	}
}

// RulesByName looks up a rules preset by its string identifier. This helper
// enables CLI flags like --preset=test to select configurations dynamically.
func RulesByName(name string) (Rules, error) {
	switch name {
	case "main":
		return MainNetRules(), nil
	case "test":
		return TestNetRules(), nil
	case "fake":
		return FakeNetRules(), nil
	default:
		return Rules{}, fmt.Errorf("unknown preset: %q (valid: main, test, fake)", name)
	}
}

// Copy returns an independent copy of Rules. Rules holds no reference
// types, so the value copy is already deep.
func (r Rules) Copy() Rules {
	cp := r
	return cp
}

// String returns a JSON representation of Rules for debugging and logging.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
