package main

import (
	"fmt"
	"os"

	"github.com/rony4d/go-ballot/cmd/ballot/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		// Result output goes to stdout; errors must not mix into it.
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
