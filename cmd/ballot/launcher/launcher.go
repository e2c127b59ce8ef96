package launcher

import (
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-ballot/flags"
)

var app = flags.NewApp()

func init() {
	app.Commands = []cli.Command{
		snapshotCommand,
		weightsCommand,
		inspectCommand,
	}
}

// Launch parses the command line and runs the selected command.
func Launch(args []string) error {
	return app.Run(args)
}
