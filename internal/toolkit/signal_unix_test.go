//go:build unix

package toolkit_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"messagebox-test/internal/backend/scripted"
	"messagebox-test/internal/toolkit"
)

func TestSignalPostsQuit(t *testing.T) {
	tk := toolkit.New(scripted.New(), nil, toolkit.Options{HandleSignals: true})
	if err := tk.Init(toolkit.SubsystemVideo); err != nil {
		t.Fatal(err)
	}
	defer tk.Quit()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ev, err := tk.WaitEvent(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Type != toolkit.EventQuit {
		t.Errorf("event = %s, want Quit", ev.Type)
	}
}
