package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

func newSimBackend(t *testing.T) (*Backend, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(80, 25)
	b := NewWithScreen(s, logger.Discard())
	t.Cleanup(b.Quit)
	return b, s
}

func threeButtons() *messagebox.Data {
	return &messagebox.Data{
		Severity: messagebox.SeverityInformation,
		Title:    "Custom MessageBox",
		Message:  "Pick one",
		Buttons: []messagebox.Button{
			{Flags: messagebox.ButtonReturnKeyDefault, ID: 0, Text: "OK"},
			{Flags: messagebox.ButtonEscapeKeyDefault, ID: 1, Text: "Cancel"},
			{ID: 2, Text: "Retry"},
		},
	}
}

// show runs ShowMessageBox in the background and returns once the dialog
// owns the keyboard.
func show(t *testing.T, b *Backend, data *messagebox.Data) <-chan int {
	t.Helper()
	result := make(chan int, 1)
	go func() {
		id, err := b.ShowMessageBox(data)
		if err != nil {
			t.Errorf("ShowMessageBox: %v", err)
		}
		result <- id
	}()
	deadline := time.Now().Add(2 * time.Second)
	for !b.DialogActive() {
		if time.Now().After(deadline) {
			t.Fatal("dialog never became active")
		}
		time.Sleep(time.Millisecond)
	}
	return result
}

func await(t *testing.T, result <-chan int) int {
	t.Helper()
	select {
	case id := <-result:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("dialog did not return")
		return 0
	}
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; {
		mainc, combc, _, width := s.GetContent(x, y)
		sb.WriteRune(mainc)
		for _, r := range combc {
			sb.WriteRune(r)
		}
		x += max(width, 1)
	}
	return sb.String()
}

func TestKeySelection(t *testing.T) {
	tests := []struct {
		name string
		keys []tcell.Key
		want int
	}{
		{"enter picks return default", []tcell.Key{tcell.KeyEnter}, 0},
		{"tab then enter", []tcell.Key{tcell.KeyTab, tcell.KeyTab, tcell.KeyEnter}, 2},
		{"tab wraps", []tcell.Key{tcell.KeyTab, tcell.KeyTab, tcell.KeyTab, tcell.KeyEnter}, 0},
		{"left wraps backwards", []tcell.Key{tcell.KeyLeft, tcell.KeyEnter}, 2},
		{"escape picks escape default", []tcell.Key{tcell.KeyTab, tcell.KeyTab, tcell.KeyEscape}, 1},
		{"ctrl-c closes", []tcell.Key{tcell.KeyCtrlC}, messagebox.ButtonClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, s := newSimBackend(t)
			result := show(t, b, threeButtons())
			for _, k := range tt.keys {
				s.InjectKey(k, 0, tcell.ModNone)
			}
			if got := await(t, result); got != tt.want {
				t.Errorf("button = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpaceActivatesSelection(t *testing.T) {
	b, s := newSimBackend(t)
	result := show(t, b, threeButtons())
	s.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	if got := await(t, result); got != 1 {
		t.Errorf("button = %d, want 1", got)
	}
}

func TestEscapeWithoutDefaultCloses(t *testing.T) {
	b, s := newSimBackend(t)
	data := threeButtons()
	data.Buttons[1].Flags = 0
	result := show(t, b, data)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	if got := await(t, result); got != messagebox.ButtonClosed {
		t.Errorf("button = %d, want %d", got, messagebox.ButtonClosed)
	}
}

func TestUnicodeTextIsDrawn(t *testing.T) {
	b, s := newSimBackend(t)
	data := messagebox.Simple(messagebox.SeverityError, "牛肉西蘭花", "Unicode text and newline:\r\n'牛肉西蘭花'\n'牛肉西蘭花'", nil)
	result := show(t, b, data)

	w, h := s.Size()
	l := layout(data, w, h)
	if len(l.Lines) != 3 {
		t.Fatalf("layout lines = %q", l.Lines)
	}
	if row := rowText(s, l.Box.Y); !strings.Contains(row, "牛肉西蘭花") {
		t.Errorf("title row = %q", row)
	}
	for i, want := range []string{"Unicode text and newline:", "'牛肉西蘭花'", "'牛肉西蘭花'"} {
		if row := rowText(s, l.TextY+i); !strings.Contains(row, want) {
			t.Errorf("line %d = %q, want %q", i, row, want)
		}
	}
	if row := rowText(s, l.Buttons[0].Y); !strings.Contains(row, "[ OK ]") {
		t.Errorf("button row = %q", row)
	}

	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	await(t, result)
}

func TestSchemeColorsSelectedButton(t *testing.T) {
	b, s := newSimBackend(t)
	data := threeButtons()
	scheme := messagebox.DefaultScheme()
	scheme.Colors[messagebox.ColorButtonSelected] = messagebox.Color{R: 250, G: 250, B: 250}
	scheme.Colors[messagebox.ColorButtonBackground] = messagebox.Color{R: 10, G: 20, B: 30}
	data.Scheme = &scheme
	result := show(t, b, data)

	w, h := s.Size()
	l := layout(data, w, h)
	_, _, selStyle, _ := s.GetContent(l.Buttons[0].X, l.Buttons[0].Y)
	fg, bg, _ := selStyle.Decompose()
	if bg != rgb(scheme.Colors[messagebox.ColorButtonSelected]) {
		t.Errorf("selected background = %v", bg)
	}
	if fg != rgb(messagebox.Color{}) {
		t.Errorf("selected text on a light button should be black, got %v", fg)
	}
	_, _, otherStyle, _ := s.GetContent(l.Buttons[1].X, l.Buttons[1].Y)
	if _, bg, _ := otherStyle.Decompose(); bg != rgb(scheme.Colors[messagebox.ColorButtonBackground]) {
		t.Errorf("unselected background = %v", bg)
	}

	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	await(t, result)
}

func TestLayoutFitsSmallScreens(t *testing.T) {
	data := threeButtons()
	data.Message = strings.Repeat("x", 200)
	l := layout(data, 40, 6)
	if l.Box.W > 40 || l.Box.H > 6 || l.Box.X < 0 || l.Box.Y < 0 {
		t.Errorf("box = %+v escapes a 40x6 screen", l.Box)
	}
	if len(l.Buttons) != 3 {
		t.Fatalf("%d buttons laid out", len(l.Buttons))
	}
	for i := 1; i < len(l.Buttons); i++ {
		if l.Buttons[i].X <= l.Buttons[i-1].X {
			t.Errorf("buttons out of order: %+v", l.Buttons)
		}
	}
}

func TestKeysOutsideDialogReachToolkit(t *testing.T) {
	b, s := newSimBackend(t)
	tk := toolkit.New(b, logger.Discard(), toolkit.Options{})
	if err := tk.Init(toolkit.SubsystemVideo); err != nil {
		t.Fatal(err)
	}
	win, err := tk.CreateWindow("Test", 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if err := win.Present(); err != nil {
		t.Fatal(err)
	}
	if row := rowText(s, 0); !strings.Contains(row, "Test") {
		t.Errorf("title bar = %q", row)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	for _, want := range []toolkit.EventType{toolkit.EventKeyDown, toolkit.EventKeyUp} {
		ev, err := tk.WaitEvent(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if ev.Type != want || ev.WindowID != win.ID() {
			t.Errorf("event = %+v, want %s for window %d", ev, want, win.ID())
		}
	}

	s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModNone)
	ev, err := tk.WaitEvent(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Type != toolkit.EventQuit {
		t.Errorf("ctrl-c event = %s, want %s", ev.Type, toolkit.EventQuit)
	}

	win.Destroy()
	if err := win.Present(); err == nil {
		t.Error("presenting a destroyed window should fail")
	}
	tk.Quit()
}

func TestQuitUnblocksDialog(t *testing.T) {
	b, _ := newSimBackend(t)
	errs := make(chan error, 1)
	go func() {
		_, err := b.ShowMessageBox(threeButtons())
		errs <- err
	}()
	for !b.DialogActive() {
		time.Sleep(time.Millisecond)
	}
	b.Quit()
	select {
	case err := <-errs:
		if err != toolkit.ErrClosed {
			t.Errorf("err = %v, want %v", err, toolkit.ErrClosed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dialog still blocked after Quit")
	}
	if _, err := b.ShowMessageBox(threeButtons()); err != toolkit.ErrClosed {
		t.Errorf("ShowMessageBox after Quit = %v", err)
	}
}
