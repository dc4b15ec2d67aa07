package main

import (
	"os"

	"github.com/dawoe/modelforge/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
