package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// OutputFlags isolates the knobs deciding where results land and in which
// form.
func OutputFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "out",
			Usage: "Output file path (empty writes to stdout)",
		},
		cli.StringFlag{
			Name:  "output.format",
			Usage: "Output format (text|json)",
			Value: "json",
		},
		cli.StringFlag{
			Name:  "archive",
			Usage: "Also store the built snapshot as a compressed archive at this path",
		},
	}
}
