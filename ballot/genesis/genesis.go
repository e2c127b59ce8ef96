// Package genesis defines the initial-funds records a voting snapshot
// exports into the ballot chain's genesis block. The records only describe
// who gets credited with how much; assembling the full block0 (vote plans,
// committee certificates, chain parameters) is the genesis builder's job,
// not this tool's.
//
// Key concepts:
//   - InitialFund: one (address, value) credit in the genesis ledger
//   - Initial: one batch of funds, the unit a block0 config embeds
//
// Usage:
//
//	initials := snap.ToBlock0Initials(chainaddr.Production)
//	data, err := json.MarshalIndent(initials, "", "  ")
package genesis

import (
	"github.com/rony4d/go-ballot/inter"
	"github.com/rony4d/go-ballot/inter/chainaddr"
)

// InitialFund credits a single account address in the genesis ledger.
type InitialFund struct {
	// Address is the ballot-chain account derived from a voting key.
	Address chainaddr.Address `json:"address"`

	// Value is the total voting power backing that key. Zero is legal: a
	// key delegated only zero-power registrations still gets a record.
	Value inter.Value `json:"value"`
}

// Initial is one block0 fund batch.
type Initial struct {
	Fund []InitialFund `json:"fund"`
}

// TotalValue sums every fund record of the batch.
func (i Initial) TotalValue() inter.Value {
	var total inter.Value
	for _, f := range i.Fund {
		total += f.Value
	}
	return total
}
