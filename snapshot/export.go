package snapshot

import (
	"github.com/rony4d/go-ballot/ballot/genesis"
	"github.com/rony4d/go-ballot/inter"
	"github.com/rony4d/go-ballot/inter/chainaddr"
)

// ToBlock0Initials exports the snapshot as the genesis initial-funds batch:
// one record per voting key, in snapshot key order, holding the sum of the
// key's contributions. The discrimination selects the address encoding of
// the target network and nothing else; amounts are identical under both.
//
// No filtering happens here. A key whose contributions sum to zero still
// produces a zero-valued record, so the exported fund list always has
// exactly Len() entries.
func (s *Snapshot) ToBlock0Initials(d chainaddr.Discrimination) genesis.Initial {
	funds := make([]genesis.InitialFund, 0, len(s.keys))
	for _, pk := range s.keys {
		var total inter.Value
		for _, c := range s.inner[pk] {
			total += c.Value
		}
		funds = append(funds, genesis.InitialFund{
			Address: chainaddr.AccountAddress(pk, d),
			Value:   total,
		})
	}
	return genesis.Initial{Fund: funds}
}
