// Command testmessage runs the message box exercise without the Fyne
// backend, so it builds without cgo. Use it over SSH with the terminal
// backend or in CI with --backend scripted.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"messagebox-test/internal/core"
	"messagebox-test/internal/harness"
)

func main() {
	state, err := harness.Parse("testmessage", os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(core.ExitFailure)
	}

	backend, err := state.NewBackend(harness.CurrentEnvironment(false), nil)
	if err != nil {
		state.Log.Errorf("Couldn't create %s backend: %v", state.Backend, err)
		os.Exit(core.ExitFailure)
	}
	os.Exit(state.Run(context.Background(), backend))
}
