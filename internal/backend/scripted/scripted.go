// Package scripted is a headless backend that answers dialogs from a script
// and records every descriptor it was asked to show.
package scripted

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

// ErrScripted is returned for script steps that simulate a display failure.
var ErrScripted = errors.New("scripted display failure")

// Step is one scripted answer.
type Step struct {
	Button int
	Fail   bool
}

// Press answers with a button id.
func Press(id int) Step {
	return Step{Button: id}
}

// Fail makes the next dialog fail to display.
func Fail() Step {
	return Step{Fail: true}
}

func (s Step) String() string {
	if s.Fail {
		return "fail"
	}
	return strconv.Itoa(s.Button)
}

// ParseScript reads a comma separated list of button ids, "closed" (-1)
// and "fail".
func ParseScript(script string) ([]Step, error) {
	var steps []Step
	for _, field := range strings.Split(script, ",") {
		field = strings.TrimSpace(field)
		switch strings.ToLower(field) {
		case "":
			continue
		case "fail":
			steps = append(steps, Fail())
		case "closed":
			steps = append(steps, Press(messagebox.ButtonClosed))
		default:
			id, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("script step %q: %w", field, err)
			}
			steps = append(steps, Press(id))
		}
	}
	return steps, nil
}

// Backend replays Steps in order. When the script runs out every dialog is
// answered with its return-key default, as if the user pressed Enter.
type Backend struct {
	// AutoKeyUp posts EventKeyUp for the parent window after a parented
	// dialog is answered, standing in for the user pressing a key.
	AutoKeyUp bool
	// OnShow, when set, is called with every descriptor before it is answered.
	OnShow func(data *messagebox.Data)
	// WindowErr, when set, makes CreateWindow fail.
	WindowErr error

	mu      sync.Mutex
	steps   []Step
	shown   []*messagebox.Data
	sink    toolkit.EventSink
	windows []*Window
	nextID  uint32
	inited  bool
	quit    bool
}

// New creates a backend with the given script.
func New(steps ...Step) *Backend {
	return &Backend{steps: steps, AutoKeyUp: true}
}

func (b *Backend) Name() string { return "scripted" }

func (b *Backend) Init(sink toolkit.EventSink) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = sink
	b.inited = true
	return nil
}

func (b *Backend) ShowMessageBox(data *messagebox.Data) (int, error) {
	b.mu.Lock()
	b.shown = append(b.shown, data.Clone())
	step, scripted := b.next()
	sink := b.sink
	autoKeyUp := b.AutoKeyUp
	onShow := b.OnShow
	b.mu.Unlock()

	if onShow != nil {
		onShow(data)
	}

	if scripted && step.Fail {
		return messagebox.ButtonClosed, ErrScripted
	}
	id := step.Button
	if !scripted {
		id = data.Buttons[data.DefaultIndex()].ID
	}
	if data.Parent != nil && autoKeyUp && sink != nil {
		if err := sink.PushEvent(toolkit.Event{Type: toolkit.EventKeyUp, WindowID: data.Parent.ID(), Key: "Enter"}); err != nil {
			return id, err
		}
	}
	return id, nil
}

func (b *Backend) next() (Step, bool) {
	if len(b.steps) == 0 {
		return Step{}, false
	}
	step := b.steps[0]
	b.steps = b.steps[1:]
	return step, true
}

func (b *Backend) CreateWindow(title string, width, height int) (toolkit.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inited {
		return nil, toolkit.ErrNotInitialized
	}
	if b.WindowErr != nil {
		return nil, b.WindowErr
	}
	b.nextID++
	w := &Window{id: b.nextID, title: title, Width: width, Height: height}
	b.windows = append(b.windows, w)
	return w, nil
}

func (b *Backend) Quit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quit = true
	for _, w := range b.windows {
		w.Destroy()
	}
}

// Shown returns copies of every descriptor shown so far, in order.
func (b *Backend) Shown() []*messagebox.Data {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*messagebox.Data(nil), b.shown...)
}

// Windows returns the windows created so far.
func (b *Backend) Windows() []*Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Window(nil), b.windows...)
}

// Remaining returns the number of unused script steps.
func (b *Backend) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.steps)
}

// Closed reports whether Quit was called.
func (b *Backend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.quit
}

// Window is an off-screen window that counts presented frames.
type Window struct {
	id            uint32
	title         string
	Width, Height int

	mu        sync.Mutex
	frames    int
	destroyed bool
}

func (w *Window) ID() uint32    { return w.id }
func (w *Window) Title() string { return w.title }

func (w *Window) Present() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return errors.New("window destroyed")
	}
	w.frames++
	return nil
}

func (w *Window) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
}

// Frames returns how many frames were presented.
func (w *Window) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Destroyed reports whether the window was destroyed.
func (w *Window) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}
