//go:build cgo && !(windows && arm64)

package main

import (
	"context"
	"errors"
	"flag"
	"os"

	fyneApp "fyne.io/fyne/v2/app"

	"messagebox-test/internal/backend/fyneui"
	"messagebox-test/internal/core"
	"messagebox-test/internal/harness"
	"messagebox-test/internal/toolkit"
)

func main() {
	state, err := harness.Parse("testmessage", os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(core.ExitFailure)
	}

	application := fyneApp.NewWithID(core.AppID)
	var gui *fyneui.Backend
	backend, err := state.NewBackend(harness.CurrentEnvironment(true), func() toolkit.Backend {
		gui = fyneui.New(application, state.Log)
		return gui
	})
	if err != nil {
		state.Log.Errorf("Couldn't create %s backend: %v", state.Backend, err)
		os.Exit(core.ExitFailure)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if gui == nil {
		os.Exit(state.Run(ctx, backend))
	}

	// Fyne owns the main goroutine; the exercise runs beside it and stops
	// the app when it is done.
	code := make(chan int, 1)
	go func() {
		code <- state.Run(ctx, backend)
		application.Quit()
	}()
	application.Run()
	cancel()
	os.Exit(<-code)
}
