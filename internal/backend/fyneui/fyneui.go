// Package fyneui shows dialogs and windows with Fyne.
//
// The backend never runs the Fyne event loop itself: the caller owns the
// fyne.App, runs it on the main goroutine and drives the toolkit from
// another one. All widget work is marshalled with fyne.Do.
package fyneui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"messagebox-test/internal/core"
	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

// Backend implements toolkit.Backend on a Fyne application.
type Backend struct {
	app fyne.App
	log *logger.Logger

	// opened is called on the UI goroutine with the buttons of every
	// dialog once it is on screen.
	opened func(buttons []*widget.Button)

	mu       sync.Mutex
	sink     toolkit.EventSink
	anchor   fyne.Window
	windows  map[uint32]*window
	nextID   uint32
	quit     chan struct{}
	quitOnce sync.Once
}

// New wraps app and must be called on the main goroutine before app runs.
// It creates a hidden window so the app does not exit when the last dialog
// window closes.
func New(app fyne.App, log *logger.Logger) *Backend {
	if log == nil {
		log = logger.Discard()
	}
	return &Backend{
		app:     app,
		log:     log,
		anchor:  app.NewWindow(core.AppName),
		windows: make(map[uint32]*window),
		quit:    make(chan struct{}),
	}
}

func (b *Backend) Name() string { return "fyne" }

func (b *Backend) Init(sink toolkit.EventSink) error {
	b.mu.Lock()
	b.sink = sink
	b.mu.Unlock()
	return nil
}

func (b *Backend) push(ev toolkit.Event) {
	b.mu.Lock()
	sink := b.sink
	b.mu.Unlock()
	if sink == nil {
		return
	}
	if err := sink.PushEvent(ev); err != nil {
		b.log.Debugf("Dropping %s: %v", ev.Type, err)
	}
}

// ShowMessageBox blocks until the dialog is answered. Dialogs with a parent
// created by this backend are drawn inside it; others get their own window.
func (b *Backend) ShowMessageBox(data *messagebox.Data) (int, error) {
	select {
	case <-b.quit:
		return messagebox.ButtonClosed, toolkit.ErrClosed
	default:
	}

	result := make(chan int, 1)
	choose := func(id int) {
		select {
		case result <- id:
		default:
		}
	}

	var parent *window
	if data.Parent != nil {
		b.mu.Lock()
		parent = b.windows[data.Parent.ID()]
		b.mu.Unlock()
		if parent == nil {
			b.log.Debugf("Parent window %d is not a Fyne window, showing dialog unparented", data.Parent.ID())
		}
	}

	fyne.Do(func() {
		if parent != nil {
			b.openInWindow(parent, data, choose)
		} else {
			b.openWindow(data, choose)
		}
	})

	select {
	case id := <-result:
		return id, nil
	case <-b.quit:
		return messagebox.ButtonClosed, toolkit.ErrClosed
	}
}

// openWindow shows data in a window of its own. Closing the window counts
// as closing the dialog.
func (b *Backend) openWindow(data *messagebox.Data, choose func(int)) {
	w := b.app.NewWindow(data.Title)
	done := func(id int) {
		choose(id)
		w.Close()
	}
	content, buttons := buildContent(data, done)
	row := make([]fyne.CanvasObject, len(buttons))
	for i, btn := range buttons {
		row[i] = btn
	}
	w.SetContent(applyScheme(data, container.NewBorder(nil, container.NewCenter(container.NewHBox(row...)), nil, nil, content)))
	w.SetCloseIntercept(func() { done(messagebox.ButtonClosed) })
	w.Canvas().SetOnTypedKey(keyHandler(data, done))
	w.SetFixedSize(true)
	w.CenterOnScreen()
	w.Show()
	if b.opened != nil {
		b.opened(buttons)
	}
}

// openInWindow shows data as a modal dialog over parent.
func (b *Backend) openInWindow(parent *window, data *messagebox.Data, choose func(int)) {
	var d *dialog.CustomDialog
	done := func(id int) {
		choose(id)
		parent.setDialogKeys(nil)
		d.Hide()
	}
	content, buttons := buildContent(data, done)
	row := make([]fyne.CanvasObject, len(buttons))
	for i, btn := range buttons {
		row[i] = btn
	}
	d = dialog.NewCustomWithoutButtons(data.Title, applyScheme(data, content), parent.win)
	d.SetButtons(row)
	d.SetOnClosed(func() { choose(messagebox.ButtonClosed) })
	parent.setDialogKeys(keyHandler(data, done))
	d.Show()
	if b.opened != nil {
		b.opened(buttons)
	}
}

// keyHandler maps Return and Escape to the dialog's key defaults.
func keyHandler(data *messagebox.Data, choose func(int)) func(*fyne.KeyEvent) {
	return func(ev *fyne.KeyEvent) {
		var key messagebox.Key
		switch ev.Name {
		case fyne.KeyReturn, fyne.KeyEnter:
			key = messagebox.KeyReturn
		case fyne.KeyEscape:
			key = messagebox.KeyEscape
		default:
			return
		}
		if id, ok := data.KeyChoice(key); ok {
			choose(id)
		}
	}
}

func (b *Backend) CreateWindow(title string, width, height int) (toolkit.Window, error) {
	select {
	case <-b.quit:
		return nil, toolkit.ErrClosed
	default:
	}

	b.mu.Lock()
	b.nextID++
	w := &window{b: b, id: b.nextID, title: title}
	b.windows[w.id] = w
	b.mu.Unlock()

	fyne.DoAndWait(func() {
		w.win = b.app.NewWindow(title)
		w.win.Resize(fyne.NewSize(float32(width), float32(height)))
		w.win.SetContent(widget.NewLabel(""))
		w.win.SetCloseIntercept(func() {
			b.push(toolkit.Event{Type: toolkit.EventWindowClose, WindowID: w.id})
			b.push(toolkit.Event{Type: toolkit.EventQuit})
		})
		if dc, ok := w.win.Canvas().(desktop.Canvas); ok {
			dc.SetOnKeyDown(func(ev *fyne.KeyEvent) { w.key(toolkit.EventKeyDown, ev) })
			dc.SetOnKeyUp(func(ev *fyne.KeyEvent) { w.key(toolkit.EventKeyUp, ev) })
		}
		w.win.Canvas().SetOnTypedKey(w.typed)
	})
	if w.win == nil {
		return nil, fmt.Errorf("create window %q: no window returned", title)
	}
	return w, nil
}

// Quit closes every window. Dialogs still waiting return toolkit.ErrClosed.
func (b *Backend) Quit() {
	b.quitOnce.Do(func() {
		close(b.quit)
		b.mu.Lock()
		wins := make([]fyne.Window, 0, len(b.windows)+1)
		for _, w := range b.windows {
			if w.win != nil {
				wins = append(wins, w.win)
			}
		}
		if b.anchor != nil {
			wins = append(wins, b.anchor)
		}
		b.windows = map[uint32]*window{}
		b.anchor = nil
		b.mu.Unlock()
		fyne.Do(func() {
			for _, w := range wins {
				w.Close()
			}
		})
	})
}

type window struct {
	b     *Backend
	id    uint32
	title string
	win   fyne.Window

	mu         sync.Mutex
	shown      bool
	dialogKeys func(*fyne.KeyEvent)
}

func (w *window) ID() uint32    { return w.id }
func (w *window) Title() string { return w.title }

// Present shows the window on its first call and repaints it afterwards.
func (w *window) Present() error {
	w.b.mu.Lock()
	_, ok := w.b.windows[w.id]
	w.b.mu.Unlock()
	if !ok {
		return fmt.Errorf("window %d destroyed", w.id)
	}
	fyne.DoAndWait(func() {
		w.mu.Lock()
		first := !w.shown
		w.shown = true
		w.mu.Unlock()
		if first {
			w.win.Show()
			return
		}
		w.win.Content().Refresh()
	})
	return nil
}

func (w *window) Destroy() {
	w.b.mu.Lock()
	_, ok := w.b.windows[w.id]
	delete(w.b.windows, w.id)
	w.b.mu.Unlock()
	if ok {
		fyne.Do(w.win.Close)
	}
}

func (w *window) setDialogKeys(fn func(*fyne.KeyEvent)) {
	w.mu.Lock()
	w.dialogKeys = fn
	w.mu.Unlock()
}

func (w *window) key(et toolkit.EventType, ev *fyne.KeyEvent) {
	w.mu.Lock()
	modal := w.dialogKeys != nil
	w.mu.Unlock()
	if modal {
		return
	}
	w.b.push(toolkit.Event{Type: et, WindowID: w.id, Key: string(ev.Name)})
}

// typed routes keys to an open dialog. Canvases without key up and key
// down reporting also forward the key as a down/up pair.
func (w *window) typed(ev *fyne.KeyEvent) {
	w.mu.Lock()
	fn := w.dialogKeys
	w.mu.Unlock()
	if fn != nil {
		fn(ev)
		return
	}
	if _, ok := w.win.Canvas().(desktop.Canvas); ok {
		return
	}
	w.b.push(toolkit.Event{Type: toolkit.EventKeyDown, WindowID: w.id, Key: string(ev.Name)})
	w.b.push(toolkit.Event{Type: toolkit.EventKeyUp, WindowID: w.id, Key: string(ev.Name)})
}
