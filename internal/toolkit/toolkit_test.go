package toolkit_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"messagebox-test/internal/backend/scripted"
	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

type countingChime struct {
	mu   sync.Mutex
	cues []messagebox.Severity
}

func (c *countingChime) Cue(s messagebox.Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cues = append(c.cues, s)
}

func TestSimpleMessageBoxBeforeInit(t *testing.T) {
	backend := scripted.New()
	chime := &countingChime{}
	tk := toolkit.New(backend, nil, toolkit.Options{Chime: chime})
	defer tk.Quit()

	if err := tk.ShowSimpleMessageBox(messagebox.SeverityWarning, "", "", nil); err != nil {
		t.Fatalf("ShowSimpleMessageBox() = %v", err)
	}
	shown := backend.Shown()
	if len(shown) != 1 || shown[0].Parent != nil {
		t.Fatalf("shown = %+v", shown)
	}
	if len(chime.cues) != 1 || chime.cues[0] != messagebox.SeverityWarning {
		t.Errorf("cues = %v", chime.cues)
	}
}

func TestShowMessageBoxValidates(t *testing.T) {
	backend := scripted.New()
	tk := toolkit.New(backend, nil, toolkit.Options{})
	_, err := tk.ShowMessageBox(&messagebox.Data{Title: "no buttons"})
	if !errors.Is(err, messagebox.ErrInvalidData) {
		t.Errorf("error = %v, want ErrInvalidData", err)
	}
	if len(backend.Shown()) != 0 {
		t.Error("invalid descriptor reached the backend")
	}
}

func TestRegisterEvents(t *testing.T) {
	tk := toolkit.New(scripted.New(), nil, toolkit.Options{})
	first, err := tk.RegisterEvents(1)
	if err != nil || first != toolkit.EventUser {
		t.Fatalf("RegisterEvents(1) = (%v, %v)", first, err)
	}
	second, err := tk.RegisterEvents(3)
	if err != nil || second != toolkit.EventUser+1 {
		t.Fatalf("RegisterEvents(3) = (%v, %v)", second, err)
	}
	third, _ := tk.RegisterEvents(1)
	if third != toolkit.EventUser+4 {
		t.Errorf("third = %v, want EventUser+4", third)
	}
	if _, err := tk.RegisterEvents(0x10000); !errors.Is(err, toolkit.ErrNoEventTypes) {
		t.Errorf("exhaustion error = %v", err)
	}
	if _, err := tk.RegisterEvents(0); err == nil {
		t.Error("RegisterEvents(0) should fail")
	}
}

func TestWaitEventRequiresInit(t *testing.T) {
	tk := toolkit.New(scripted.New(), nil, toolkit.Options{})
	if _, err := tk.WaitEvent(context.Background()); !errors.Is(err, toolkit.ErrNotInitialized) {
		t.Errorf("WaitEvent before Init = %v", err)
	}
	if _, err := tk.CreateWindow("Test", 640, 480); !errors.Is(err, toolkit.ErrNotInitialized) {
		t.Errorf("CreateWindow before Init = %v", err)
	}
}

func TestWaitEventFiltersByType(t *testing.T) {
	tk := toolkit.New(scripted.New(), nil, toolkit.Options{})
	if err := tk.Init(toolkit.SubsystemVideo); err != nil {
		t.Fatal(err)
	}
	defer tk.Quit()
	if tk.WasInit(toolkit.SubsystemEvents) == 0 {
		t.Fatal("video init should imply events")
	}

	done, _ := tk.RegisterEvents(1)
	go func() {
		_ = tk.PushEvent(toolkit.Event{Type: toolkit.EventKeyDown})
		_ = tk.PushEvent(toolkit.Event{Type: done, Code: 7})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var skipped int
	for {
		ev, err := tk.WaitEvent(ctx)
		if err != nil {
			t.Fatalf("WaitEvent() = %v", err)
		}
		if ev.Type != done {
			skipped++
			continue
		}
		if ev.Code != 7 || ev.Time.IsZero() {
			t.Errorf("event = %+v", ev)
		}
		break
	}
	if skipped != 1 {
		t.Errorf("skipped %d events, want 1", skipped)
	}
}

func TestWaitEventHonoursContext(t *testing.T) {
	tk := toolkit.New(scripted.New(), nil, toolkit.Options{})
	if err := tk.Init(toolkit.SubsystemEvents); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := tk.WaitEvent(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitEvent() = %v, want deadline exceeded", err)
	}
}

func TestThreadStatusAndPanic(t *testing.T) {
	log := logger.Discard()
	var lines []string
	var mu sync.Mutex
	log.SetObserver(func(line string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, line)
	})
	tk := toolkit.New(scripted.New(), log, toolkit.Options{})

	th := tk.CreateThread("worker", func(arg any) int { return arg.(int) * 2 }, 21)
	if got := th.Wait(); got != 42 {
		t.Errorf("Wait() = %d, want 42", got)
	}
	if th.Name() != "worker" {
		t.Errorf("Name() = %q", th.Name())
	}

	crash := tk.CreateThread("crash", func(any) int { panic("boom") }, nil)
	if got := crash.Wait(); got != toolkit.ThreadPanicked {
		t.Errorf("Wait() = %d, want %d", got, toolkit.ThreadPanicked)
	}
	mu.Lock()
	defer mu.Unlock()
	found := false
	for _, line := range lines {
		if strings.Contains(line, `Thread "crash" crashed: boom`) {
			found = true
		}
	}
	if !found {
		t.Errorf("crash not logged: %q", lines)
	}
}

func TestQuitIsIdempotent(t *testing.T) {
	backend := scripted.New()
	tk := toolkit.New(backend, nil, toolkit.Options{HandleSignals: true})
	if err := tk.Init(toolkit.SubsystemVideo); err != nil {
		t.Fatal(err)
	}
	tk.Quit()
	tk.Quit()
	if !backend.Closed() {
		t.Error("backend not shut down")
	}
	if err := tk.Init(toolkit.SubsystemVideo); !errors.Is(err, toolkit.ErrClosed) {
		t.Errorf("Init after Quit = %v", err)
	}
	if _, err := tk.ShowMessageBox(messagebox.Simple(messagebox.SeverityError, "t", "m", nil)); !errors.Is(err, toolkit.ErrClosed) {
		t.Errorf("ShowMessageBox after Quit = %v", err)
	}
}

func TestEventTypeString(t *testing.T) {
	toolkit.RegisterEventName(toolkit.EventUser+100, "DialogDone")
	cases := map[toolkit.EventType]string{
		toolkit.EventQuit:        "Quit",
		toolkit.EventKeyUp:       "KeyUp",
		toolkit.EventUser + 100:  "DialogDone",
		toolkit.EventUser + 1:    "User(0x8001)",
		toolkit.EventType(0x123): "Event(0x0123)",
	}
	for et, want := range cases {
		if got := et.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", uint32(et), got, want)
		}
	}
}
