//go:build !cgo || (windows && arm64)

package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"messagebox-test/internal/core"
	"messagebox-test/internal/harness"
)

// Builds without cgo have no Fyne driver. The other backends still work.
func main() {
	ensureConsole()
	code := run()
	releaseConsole()
	os.Exit(code)
}

func run() int {
	state, err := harness.Parse("testmessage", os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return core.ExitOK
		}
		return core.ExitFailure
	}
	backend, err := state.NewBackend(harness.CurrentEnvironment(false), nil)
	if err != nil {
		state.Log.Errorf("Couldn't create %s backend: %v", state.Backend, err)
		return core.ExitFailure
	}
	return state.Run(context.Background(), backend)
}
