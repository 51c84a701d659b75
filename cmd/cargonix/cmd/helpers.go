package cmd

import (
	"fmt"

	"github.com/cargonix/cargonix/pkg/cargonix"
)

// newClient builds a client from the global flags.
func newClient() (*cargonix.Client, error) {
	return cargonix.New(cargonix.Options{
		ConfigPath:   configPath,
		Executor:     executor,
		DisableCache: noCache,
		Logger:       logger,
	})
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}
