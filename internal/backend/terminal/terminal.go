// Package terminal shows dialogs and windows on a tcell screen.
//
// Dialogs are modal: while one is open every key goes to it, and concurrent
// callers queue behind it. Keys typed outside a dialog are forwarded to the
// toolkit as a KeyDown/KeyUp pair, since terminals report no key releases.
// Ctrl-C outside a dialog posts EventQuit.
package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

// Backend implements toolkit.Backend on a terminal.
type Backend struct {
	log       *logger.Logger
	newScreen func() (tcell.Screen, error)

	mu         sync.Mutex
	screen     tcell.Screen
	ready      bool // screen initialized and input pump running
	sink       toolkit.EventSink
	dialogKeys chan *tcell.EventKey // set while a dialog owns the keyboard
	windows    map[uint32]*window
	current    *window
	nextID     uint32
	quit       chan struct{}
	quitOnce   sync.Once
	pumpDone   chan struct{}

	dialogMu sync.Mutex // one dialog at a time
}

// New creates a backend that opens the controlling terminal on first use.
func New(log *logger.Logger) *Backend {
	return newBackend(log, func() (tcell.Screen, error) {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		if err := s.Init(); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// NewWithScreen creates a backend over an already initialized screen.
func NewWithScreen(screen tcell.Screen, log *logger.Logger) *Backend {
	return newBackend(log, func() (tcell.Screen, error) { return screen, nil })
}

func newBackend(log *logger.Logger, open func() (tcell.Screen, error)) *Backend {
	if log == nil {
		log = logger.Discard()
	}
	return &Backend{
		log:       log,
		newScreen: open,
		windows:   make(map[uint32]*window),
		quit:      make(chan struct{}),
	}
}

func (b *Backend) Name() string { return "terminal" }

// Init opens the screen if necessary and starts forwarding keys to sink.
func (b *Backend) Init(sink toolkit.EventSink) error {
	if _, err := b.ensureScreen(); err != nil {
		return err
	}
	b.mu.Lock()
	b.sink = sink
	b.mu.Unlock()
	return nil
}

func (b *Backend) ensureScreen() (tcell.Screen, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-b.quit:
		return nil, toolkit.ErrClosed
	default:
	}
	if b.ready {
		return b.screen, nil
	}
	s, err := b.newScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	s.SetStyle(tcell.StyleDefault)
	s.Clear()
	b.screen = s
	b.ready = true
	b.pumpDone = make(chan struct{})
	go b.pump(s, b.pumpDone)
	return s, nil
}

// pump reads input until the screen is finalized.
func (b *Backend) pump(s tcell.Screen, done chan<- struct{}) {
	defer close(done)
	for {
		ev := s.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			b.routeKey(ev)
		case *tcell.EventResize:
			s.Sync()
			b.redraw()
		}
	}
}

func (b *Backend) routeKey(ev *tcell.EventKey) {
	b.mu.Lock()
	keys := b.dialogKeys
	sink := b.sink
	var windowID uint32
	if b.current != nil {
		windowID = b.current.id
	}
	b.mu.Unlock()

	if keys != nil {
		select {
		case keys <- ev:
		default:
			b.log.Debugf("Dropping key %s: dialog input is backed up", ev.Name())
		}
		return
	}
	if sink == nil {
		return
	}
	if ev.Key() == tcell.KeyCtrlC {
		_ = sink.PushEvent(toolkit.Event{Type: toolkit.EventQuit})
		return
	}
	for _, et := range []toolkit.EventType{toolkit.EventKeyDown, toolkit.EventKeyUp} {
		if err := sink.PushEvent(toolkit.Event{Type: et, WindowID: windowID, Key: ev.Name()}); err != nil {
			b.log.Debugf("Dropping key %s: %v", ev.Name(), err)
			return
		}
	}
}

// ShowMessageBox draws the dialog over the current window and blocks until
// a button is chosen. Tab and the arrow keys move the selection, Enter and
// Space press the selected button, Escape follows the escape-key default
// and Ctrl-C closes the dialog.
func (b *Backend) ShowMessageBox(data *messagebox.Data) (int, error) {
	s, err := b.ensureScreen()
	if err != nil {
		return messagebox.ButtonClosed, err
	}

	b.dialogMu.Lock()
	defer b.dialogMu.Unlock()

	keys := make(chan *tcell.EventKey, 16)
	selected := data.DefaultIndex()
	b.drawDialog(s, data, selected)

	b.mu.Lock()
	b.dialogKeys = keys
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.dialogKeys = nil
		b.mu.Unlock()
		b.redraw()
	}()

	for {
		select {
		case <-b.quit:
			return messagebox.ButtonClosed, toolkit.ErrClosed
		case ev := <-keys:
			switch ev.Key() {
			case tcell.KeyTab, tcell.KeyRight, tcell.KeyDown:
				selected = (selected + 1) % len(data.Buttons)
			case tcell.KeyBacktab, tcell.KeyLeft, tcell.KeyUp:
				selected = (selected + len(data.Buttons) - 1) % len(data.Buttons)
			case tcell.KeyEnter:
				return data.Buttons[selected].ID, nil
			case tcell.KeyEscape:
				id, _ := data.KeyChoice(messagebox.KeyEscape)
				return id, nil
			case tcell.KeyCtrlC:
				return messagebox.ButtonClosed, nil
			case tcell.KeyRune:
				if ev.Rune() == ' ' {
					return data.Buttons[selected].ID, nil
				}
				continue
			default:
				continue
			}
			b.drawDialog(s, data, selected)
		}
	}
}

// DialogActive reports whether a dialog currently owns the keyboard.
func (b *Backend) DialogActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dialogKeys != nil
}

func (b *Backend) CreateWindow(title string, width, height int) (toolkit.Window, error) {
	if _, err := b.ensureScreen(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	w := &window{b: b, id: b.nextID, title: title, width: width, height: height}
	b.windows[w.id] = w
	return w, nil
}

func (b *Backend) redraw() {
	b.mu.Lock()
	s, cur := b.screen, b.current
	b.mu.Unlock()
	if s == nil {
		return
	}
	if cur != nil {
		cur.draw(s)
	} else {
		s.Clear()
	}
	s.Show()
}

// Quit restores the terminal. Pending dialogs return toolkit.ErrClosed.
func (b *Backend) Quit() {
	b.quitOnce.Do(func() {
		close(b.quit)
		b.mu.Lock()
		s, ready, done := b.screen, b.ready, b.pumpDone
		b.ready = false
		b.mu.Unlock()
		if ready {
			s.Fini()
			<-done
		}
	})
}

// window is a full-screen frame with a title bar. Pixel sizes are mapped
// to cells at 8x16 pixels per cell and clipped to the screen.
type window struct {
	b             *Backend
	id            uint32
	title         string
	width, height int
}

func (w *window) ID() uint32    { return w.id }
func (w *window) Title() string { return w.title }

// Present makes the window current and draws it.
func (w *window) Present() error {
	w.b.mu.Lock()
	if _, ok := w.b.windows[w.id]; !ok {
		w.b.mu.Unlock()
		return fmt.Errorf("window %d destroyed", w.id)
	}
	w.b.current = w
	dialog := w.b.dialogKeys != nil
	w.b.mu.Unlock()
	if !dialog {
		w.b.redraw()
	}
	return nil
}

func (w *window) Destroy() {
	w.b.mu.Lock()
	delete(w.b.windows, w.id)
	wasCurrent := w.b.current == w
	if wasCurrent {
		w.b.current = nil
	}
	w.b.mu.Unlock()
	if wasCurrent {
		w.b.redraw()
	}
}

func (w *window) cells(s tcell.Screen) (cols, rows int) {
	sw, sh := s.Size()
	cols = min(max(w.width/8, 10), sw)
	rows = min(max(w.height/16, 3), sh)
	return cols, rows
}

func (w *window) draw(s tcell.Screen) {
	s.Clear()
	cols, rows := w.cells(s)
	body := tcell.StyleDefault
	bar := tcell.StyleDefault.Reverse(true)
	for y := 0; y < rows; y++ {
		style := body
		if y == 0 {
			style = bar
		}
		for x := 0; x < cols; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
	drawText(s, 1, 0, cols-2, w.title, bar)
}
