package main

import (
	"os"

	"github.com/cargonix/cargonix/cmd/cargonix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
