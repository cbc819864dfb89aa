// Package win32 shows dialogs with MessageBoxW and opens plain Win32
// windows for the parent-window demo.
//
// MessageBoxW only knows a fixed set of button layouts. Descriptors that
// do not match one of them are handed to a fallback backend.
package win32

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

// MessageBoxW style bits.
const (
	mbOK               = 0x00000000
	mbOKCancel         = 0x00000001
	mbAbortRetryIgnore = 0x00000002
	mbYesNoCancel      = 0x00000003
	mbYesNo            = 0x00000004
	mbRetryCancel      = 0x00000005

	mbIconError       = 0x00000010
	mbIconWarning     = 0x00000030
	mbIconInformation = 0x00000040

	mbDefButton2 = 0x00000100
	mbDefButton3 = 0x00000200

	mbTaskModal     = 0x00002000
	mbSetForeground = 0x00010000
)

// MessageBoxW return codes.
const (
	idOK     = 1
	idCancel = 2
	idAbort  = 3
	idRetry  = 4
	idIgnore = 5
	idYes    = 6
	idNo     = 7
)

type layout struct {
	style  uint32
	labels []string
	codes  []int
}

var layouts = []layout{
	{mbOK, []string{"ok"}, []int{idOK}},
	{mbOKCancel, []string{"ok", "cancel"}, []int{idOK, idCancel}},
	{mbYesNo, []string{"yes", "no"}, []int{idYes, idNo}},
	{mbYesNoCancel, []string{"yes", "no", "cancel"}, []int{idYes, idNo, idCancel}},
	{mbRetryCancel, []string{"retry", "cancel"}, []int{idRetry, idCancel}},
	{mbAbortRetryIgnore, []string{"abort", "retry", "ignore"}, []int{idAbort, idRetry, idIgnore}},
}

// boxPlan is a descriptor translated to a MessageBoxW call.
type boxPlan struct {
	style   uint32
	results map[int]int // return code to button id
}

// planFor matches the descriptor's button labels, in order and ignoring
// case, against the layouts MessageBoxW can draw.
func planFor(data *messagebox.Data) (boxPlan, bool) {
	for _, l := range layouts {
		if len(l.labels) != len(data.Buttons) {
			continue
		}
		match := true
		for i, b := range data.Buttons {
			if strings.ToLower(strings.TrimSpace(b.Text)) != l.labels[i] {
				match = false
				break
			}
		}
		if !match {
			continue
		}

		p := boxPlan{style: l.style | severityIcon(data.Severity), results: map[int]int{}}
		for i, b := range data.Buttons {
			p.results[l.codes[i]] = b.ID
		}
		switch data.DefaultIndex() {
		case 1:
			p.style |= mbDefButton2
		case 2:
			p.style |= mbDefButton3
		}
		return p, true
	}
	return boxPlan{}, false
}

func severityIcon(s messagebox.Severity) uint32 {
	switch s {
	case messagebox.SeverityError:
		return mbIconError
	case messagebox.SeverityWarning:
		return mbIconWarning
	default:
		return mbIconInformation
	}
}

// result maps a MessageBoxW return code to a button id. The dialog's close
// box reports IDCANCEL, or IDOK when the box has a single OK button.
func (p boxPlan) result(code int) (int, error) {
	if code == 0 {
		return messagebox.ButtonClosed, errors.New("MessageBoxW failed")
	}
	if id, ok := p.results[code]; ok {
		return id, nil
	}
	return messagebox.ButtonClosed, nil
}

// Backend implements toolkit.Backend with MessageBoxW.
type Backend struct {
	log      *logger.Logger
	fallback toolkit.Backend

	// show displays a message box owned by the window handle owner and
	// returns the MessageBoxW result code.
	show func(owner uintptr, text, title string, style uint32) (int, error)

	mu      sync.Mutex
	sink    toolkit.EventSink
	windows map[uint32]*window
	nextID  uint32
	closed  bool
}

// New creates a backend that hands layouts MessageBoxW cannot draw to
// fallback. A nil fallback rejects them with toolkit.ErrUnsupported.
func New(log *logger.Logger, fallback toolkit.Backend) *Backend {
	if log == nil {
		log = logger.Discard()
	}
	return &Backend{
		log:      log,
		fallback: fallback,
		show:     messageBox,
		windows:  make(map[uint32]*window),
	}
}

func (b *Backend) Name() string { return "win32" }

func (b *Backend) Init(sink toolkit.EventSink) error {
	b.mu.Lock()
	b.sink = sink
	b.mu.Unlock()
	if b.fallback != nil {
		return b.fallback.Init(sink)
	}
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

func (b *Backend) ShowMessageBox(data *messagebox.Data) (int, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return messagebox.ButtonClosed, toolkit.ErrClosed
	}

	p, ok := planFor(data)
	if !ok {
		if b.fallback == nil {
			return messagebox.ButtonClosed, fmt.Errorf("MessageBoxW cannot show %d custom buttons: %w", len(data.Buttons), toolkit.ErrUnsupported)
		}
		b.log.Debugf("Handing custom buttons to the %s backend", b.fallback.Name())
		return b.fallback.ShowMessageBox(data)
	}
	if data.Scheme != nil {
		b.log.Debugf("MessageBoxW ignores color scheme %s", data.Scheme.Hex())
	}

	var owner uintptr
	if data.Parent != nil {
		b.mu.Lock()
		if w := b.windows[data.Parent.ID()]; w != nil {
			owner = w.handle()
		}
		b.mu.Unlock()
	}
	style := p.style | mbSetForeground
	if owner == 0 {
		style |= mbTaskModal
	}
	code, err := b.show(owner, data.Message, data.Title, style)
	if err != nil {
		return messagebox.ButtonClosed, err
	}
	return p.result(code)
}

func (b *Backend) CreateWindow(title string, width, height int) (toolkit.Window, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, toolkit.ErrClosed
	}
	b.nextID++
	id := b.nextID
	b.mu.Unlock()

	w, err := openWindow(b, id, title, width, height)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.windows[id] = w
	b.mu.Unlock()
	return w, nil
}

func (b *Backend) forget(id uint32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.windows[id]
	delete(b.windows, id)
	return ok
}

func (b *Backend) Quit() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	open := make([]*window, 0, len(b.windows))
	for _, w := range b.windows {
		open = append(open, w)
	}
	b.mu.Unlock()

	for _, w := range open {
		w.Destroy()
	}
	if b.fallback != nil {
		b.fallback.Quit()
	}
}

// Alert shows a task-modal MessageBoxW with a single OK button. Entry points
// use it to report startup failures when there is no console to print to.
func Alert(text, title string, severity messagebox.Severity) error {
	_, err := messageBox(0, text, title, mbOK|severityIcon(severity)|mbTaskModal|mbSetForeground)
	return err
}
