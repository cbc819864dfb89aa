// Package toolkit is the process-wide UI handle: it owns the event queue,
// tracks subsystem initialization and forwards dialog and window requests to
// a Backend. One Toolkit is created at startup, passed explicitly to every
// goroutine that needs it and shut down once with Quit.
package toolkit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
)

var (
	// ErrUnsupported is returned by backends for requests they cannot serve.
	ErrUnsupported = errors.New("not supported by this backend")
	// ErrNotInitialized is returned when a subsystem is used before Init.
	ErrNotInitialized = errors.New("subsystem not initialized")
	// ErrNoEventTypes is returned when the user event range is exhausted.
	ErrNoEventTypes = errors.New("no user event types left")
	// ErrClosed is returned after Quit.
	ErrClosed = errors.New("toolkit has been shut down")
)

// Subsystem flags for Init.
type Subsystem uint32

const (
	SubsystemEvents Subsystem = 1 << iota
	SubsystemVideo
)

// Window is a backend window that can parent dialogs.
type Window interface {
	messagebox.Window
	// Present pushes the current frame to the screen. Some display servers
	// only map a window once something has been presented.
	Present() error
	Destroy()
}

// Backend shows dialogs and windows on a concrete UI library.
// ShowMessageBox must be callable from any goroutine and before Init.
type Backend interface {
	Name() string
	Init(sink EventSink) error
	ShowMessageBox(data *messagebox.Data) (int, error)
	CreateWindow(title string, width, height int) (Window, error)
	Quit()
}

// Chime plays an audible cue when a dialog opens.
type Chime interface {
	Cue(severity messagebox.Severity)
}

// Options tunes a Toolkit.
type Options struct {
	QueueSize     int
	Chime         Chime
	HandleSignals bool // SIGINT/SIGTERM push EventQuit after Init
}

// Toolkit is the explicit process-wide UI state.
type Toolkit struct {
	backend Backend
	log     *logger.Logger
	queue   *EventQueue
	opts    Options

	mu        sync.Mutex
	inited    Subsystem
	closed    bool
	nextEvent EventType
	sigCh     chan os.Signal
	sigDone   chan struct{}
}

// New creates a toolkit over backend. Nothing is initialized until Init.
func New(backend Backend, log *logger.Logger, opts Options) *Toolkit {
	if log == nil {
		log = logger.Discard()
	}
	return &Toolkit{
		backend:   backend,
		log:       log,
		queue:     NewEventQueue(opts.QueueSize),
		opts:      opts,
		nextEvent: EventUser,
	}
}

// Backend returns the backend the toolkit forwards to.
func (tk *Toolkit) Backend() Backend {
	return tk.backend
}

// Init brings up the requested subsystems. Video implies events.
func (tk *Toolkit) Init(flags Subsystem) error {
	if flags&SubsystemVideo != 0 {
		flags |= SubsystemEvents
	}

	tk.mu.Lock()
	defer tk.mu.Unlock()
	if tk.closed {
		return ErrClosed
	}
	pending := flags &^ tk.inited
	if pending == 0 {
		return nil
	}
	if pending&SubsystemVideo != 0 {
		if err := tk.backend.Init(tk); err != nil {
			return fmt.Errorf("%s video init: %w", tk.backend.Name(), err)
		}
		tk.log.Debugf("Video subsystem initialized (%s backend)", tk.backend.Name())
	}
	if pending&SubsystemEvents != 0 && tk.opts.HandleSignals {
		tk.watchSignals()
	}
	tk.inited |= pending
	return nil
}

// WasInit reports which of the given subsystems are initialized.
func (tk *Toolkit) WasInit(flags Subsystem) Subsystem {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return tk.inited & flags
}

// Quit shuts down the backend and stops signal delivery. Safe to call twice.
func (tk *Toolkit) Quit() {
	tk.mu.Lock()
	if tk.closed {
		tk.mu.Unlock()
		return
	}
	tk.closed = true
	video := tk.inited&SubsystemVideo != 0
	tk.inited = 0
	if tk.sigCh != nil {
		signal.Stop(tk.sigCh)
		close(tk.sigDone)
		tk.sigCh = nil
	}
	tk.mu.Unlock()

	if video {
		tk.log.Debugf("Shutting down %s backend", tk.backend.Name())
	}
	tk.backend.Quit()
}

func (tk *Toolkit) watchSignals() {
	tk.sigCh = make(chan os.Signal, 1)
	tk.sigDone = make(chan struct{})
	signal.Notify(tk.sigCh, os.Interrupt, syscall.SIGTERM)
	go func(ch <-chan os.Signal, done <-chan struct{}) {
		for {
			select {
			case sig := <-ch:
				tk.log.Debugf("Received %s, posting quit", sig)
				_ = tk.PushEvent(Event{Type: EventQuit})
			case <-done:
				return
			}
		}
	}(tk.sigCh, tk.sigDone)
}

// ShowMessageBox validates data and blocks until the dialog is dismissed,
// returning the pressed button id or messagebox.ButtonClosed.
func (tk *Toolkit) ShowMessageBox(data *messagebox.Data) (int, error) {
	if err := data.Validate(); err != nil {
		return messagebox.ButtonClosed, err
	}
	tk.mu.Lock()
	closed := tk.closed
	tk.mu.Unlock()
	if closed {
		return messagebox.ButtonClosed, ErrClosed
	}

	tk.log.Debugf("Showing %s message box %q (%d buttons, scheme %s)",
		data.Severity, data.Title, len(data.Buttons), data.Scheme.Hex())
	if tk.opts.Chime != nil {
		tk.opts.Chime.Cue(data.Severity)
	}
	return tk.backend.ShowMessageBox(data)
}

// ShowSimpleMessageBox shows a single-button dialog.
func (tk *Toolkit) ShowSimpleMessageBox(severity messagebox.Severity, title, message string, parent Window) error {
	var p messagebox.Window
	if parent != nil {
		p = parent
	}
	_, err := tk.ShowMessageBox(messagebox.Simple(severity, title, message, p))
	return err
}

// RegisterEvents reserves n consecutive user event types and returns the first.
func (tk *Toolkit) RegisterEvents(n int) (EventType, error) {
	if n <= 0 {
		return 0, fmt.Errorf("register %d events: count must be positive", n)
	}
	tk.mu.Lock()
	defer tk.mu.Unlock()
	first := tk.nextEvent
	if uint64(first)+uint64(n)-1 > uint64(EventLast) {
		return 0, ErrNoEventTypes
	}
	tk.nextEvent += EventType(n)
	return first, nil
}

// PushEvent appends ev to the queue. Safe from any goroutine.
func (tk *Toolkit) PushEvent(ev Event) error {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	return tk.queue.Push(ev)
}

// WaitEvent blocks until an event is queued or ctx is done.
func (tk *Toolkit) WaitEvent(ctx context.Context) (Event, error) {
	if tk.WasInit(SubsystemEvents) == 0 {
		return Event{}, ErrNotInitialized
	}
	return tk.queue.Wait(ctx)
}

// PollEvent returns the next event without blocking.
func (tk *Toolkit) PollEvent() (Event, bool) {
	return tk.queue.Poll()
}

// CreateWindow opens a window on the backend. Requires the video subsystem.
func (tk *Toolkit) CreateWindow(title string, width, height int) (Window, error) {
	if tk.WasInit(SubsystemVideo) == 0 {
		return nil, ErrNotInitialized
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", width, height)
	}
	return tk.backend.CreateWindow(title, width, height)
}
