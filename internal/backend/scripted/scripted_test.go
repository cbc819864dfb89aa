package scripted

import (
	"errors"
	"testing"

	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

type recordingSink struct {
	events []toolkit.Event
}

func (s *recordingSink) PushEvent(ev toolkit.Event) error {
	s.events = append(s.events, ev)
	return nil
}

func TestParseScript(t *testing.T) {
	steps, err := ParseScript(" 0, 2,fail ,closed,,1")
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	want := []Step{Press(0), Press(2), Fail(), Press(-1), Press(1)}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d = %v, want %v", i, steps[i], want[i])
		}
	}
	if _, err := ParseScript("0,maybe"); err == nil {
		t.Error("ParseScript() accepted a bad step")
	}
}

func TestReplayAndFallback(t *testing.T) {
	b := New(Press(2), Fail())
	data := &messagebox.Data{Buttons: []messagebox.Button{
		{ID: 5, Text: "A"},
		{Flags: messagebox.ButtonReturnKeyDefault, ID: 6, Text: "B"},
	}}

	if id, err := b.ShowMessageBox(data); err != nil || id != 2 {
		t.Errorf("first = (%d, %v), want (2, nil)", id, err)
	}
	if _, err := b.ShowMessageBox(data); !errors.Is(err, ErrScripted) {
		t.Errorf("second error = %v, want ErrScripted", err)
	}
	if id, err := b.ShowMessageBox(data); err != nil || id != 6 {
		t.Errorf("exhausted = (%d, %v), want the return default 6", id, err)
	}
	if got := len(b.Shown()); got != 3 {
		t.Errorf("Shown() = %d descriptors, want 3", got)
	}
}

func TestParentedDialogPostsKeyUp(t *testing.T) {
	b := New()
	sink := &recordingSink{}
	if _, err := b.CreateWindow("early", 1, 1); !errors.Is(err, toolkit.ErrNotInitialized) {
		t.Errorf("CreateWindow before Init = %v", err)
	}
	if err := b.Init(sink); err != nil {
		t.Fatal(err)
	}
	w, err := b.CreateWindow("Test", 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Present(); err != nil {
		t.Fatal(err)
	}

	if _, err := b.ShowMessageBox(messagebox.Simple(messagebox.SeverityError, "t", "m", w)); err != nil {
		t.Fatal(err)
	}
	if len(sink.events) != 1 || sink.events[0].Type != toolkit.EventKeyUp || sink.events[0].WindowID != w.ID() {
		t.Errorf("events = %+v", sink.events)
	}

	b.Quit()
	win := b.Windows()[0]
	if !win.Destroyed() || win.Frames() != 1 {
		t.Errorf("window destroyed=%v frames=%d", win.Destroyed(), win.Frames())
	}
	if err := win.Present(); err == nil {
		t.Error("Present after Destroy should fail")
	}
}
