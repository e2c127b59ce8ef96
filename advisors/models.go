// Package advisors defines the community-advisor records consumed alongside
// snapshots by rewards tooling: the approval verdict of funding proposals.
// Rows arrive as JSON exports from the proposal platform; the decoder
// accepts the spellings those exports actually use.
package advisors

import "strings"

// ProposalStatus is a proposal's funding verdict.
type ProposalStatus uint8

const (
	// NotApproved marks a proposal that did not reach funding.
	NotApproved ProposalStatus = iota
	// Approved marks a proposal selected for funding.
	Approved
)

// String implements fmt.Stringer.
func (s ProposalStatus) String() string {
	if s == Approved {
		return "approved"
	}
	return "not approved"
}

// MarshalText implements encoding.TextMarshaler.
func (s ProposalStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The match is
// case-insensitive and every unrecognized verdict counts as not approved,
// which is how the proposal platform's exports behave.
func (s *ProposalStatus) UnmarshalText(input []byte) error {
	if strings.EqualFold(string(input), "approved") {
		*s = Approved
	} else {
		*s = NotApproved
	}
	return nil
}

// ApprovedProposalRow is one row of a proposal approval export.
type ApprovedProposalRow struct {
	ProposalID string         `json:"proposal_id"`
	Status     ProposalStatus `json:"status"`
}

// ApprovedIDs filters the rows down to the IDs of approved proposals,
// keeping the export order.
func ApprovedIDs(rows []ApprovedProposalRow) []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Status == Approved {
			ids = append(ids, row.ProposalID)
		}
	}
	return ids
}
