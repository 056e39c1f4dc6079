package main

import (
	"os"

	"github.com/ShaoG-R/seal-flow/internal/commands"
)

// version is set at build time.
var version = "dev" //nolint:gochecknoglobals

func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
