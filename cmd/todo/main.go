package main

import (
	"fmt"
	"os"

	"todomaster/internal/cli"
	"todomaster/internal/errors"
)

func main() {
	root := cli.NewRootCommand(nil)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.GetUserMessage(err))
		os.Exit(1)
	}
}
