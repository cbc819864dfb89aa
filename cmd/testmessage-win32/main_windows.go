//go:build windows

// Command testmessage-win32 is the GUI-subsystem build of the exercise for
// Windows. It uses MessageBoxW by default and reports startup failures in a
// message box because it has no console.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"messagebox-test/internal/backend/win32"
	"messagebox-test/internal/core"
	"messagebox-test/internal/harness"
	"messagebox-test/internal/messagebox"
)

func main() {
	var usage bytes.Buffer
	state, err := harness.Parse("testmessage-win32", os.Args[1:], &usage)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			win32.Alert(usage.String(), core.AppName, messagebox.SeverityInformation)
			return
		}
		win32.Alert(fmt.Sprintf("Invalid arguments:\n%v\n\n%s", err, strings.TrimSpace(usage.String())), core.AppName, messagebox.SeverityError)
		os.Exit(core.ExitFailure)
	}

	if state.Backend == harness.BackendAuto {
		state.Backend = harness.BackendWin32
	}
	backend, err := state.NewBackend(harness.CurrentEnvironment(false), nil)
	if err != nil {
		win32.Alert(fmt.Sprintf("Failed to create the %s backend:\n%v", state.Backend, err), core.AppName, messagebox.SeverityError)
		os.Exit(core.ExitFailure)
	}

	code := state.Run(context.Background(), backend)
	if code != core.ExitOK {
		state.Log.Logf("Exited with code %d", code)
	} else {
		state.Log.Log("Exited cleanly.")
	}
	os.Exit(code)
}
