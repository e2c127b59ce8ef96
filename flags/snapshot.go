package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// SnapshotFlags covers the snapshot build inputs: where registrations come
// from and which network rules filter them.
func SnapshotFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "registrations",
			Usage: "Path to the registration dump (JSON, plain or zstd-compressed)",
		},
		cli.StringFlag{
			Name:  "from-archive",
			Usage: "Load the snapshot from a stored archive instead of building it",
		},
		cli.StringFlag{
			Name:  "preset",
			Usage: "Network rules preset (main|test|fake)",
			Value: "main",
		},
		cli.Uint64Flag{
			Name:  "votes.threshold",
			Usage: "Minimum voting power a registration needs (overrides the preset)",
		},
		cli.Uint64Flag{
			Name:  "votes.purpose",
			Usage: "Voting purpose tag to build for (overrides the preset)",
		},
		cli.StringFlag{
			Name:  "genesis.discrimination",
			Usage: "Address discrimination for genesis export (production|test, overrides the preset)",
		},
	}
}
