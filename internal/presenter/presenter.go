// Package presenter shows the custom OK/Cancel/Retry dialog, re-presenting
// it with a fresh random color scheme for as long as Retry is chosen.
package presenter

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"messagebox-test/internal/core"
	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

// Toolkit is the part of the toolkit handle the presenter needs.
type Toolkit interface {
	ShowMessageBox(data *messagebox.Data) (int, error)
	PushEvent(ev toolkit.Event) error
}

// Completion tells a presenter running on a worker how to report back.
// Event is the registered type posted once the dialog reaches its final
// state, successful or not. Result, when set, receives the final button.
type Completion struct {
	Event  toolkit.EventType
	Result *int
}

// Buttons returns the custom dialog's buttons.
func Buttons() []messagebox.Button {
	return []messagebox.Button{
		{Flags: messagebox.ButtonReturnKeyDefault, ID: core.ButtonOK, Text: "OK"},
		{Flags: messagebox.ButtonEscapeKeyDefault, ID: core.ButtonCancel, Text: "Cancel"},
		{ID: core.ButtonRetry, Text: "Retry"},
	}
}

type state int

const (
	stateShow state = iota
	stateDone
)

// Presenter drives the custom dialog. It is safe for concurrent use.
type Presenter struct {
	tk  Toolkit
	log *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a presenter. rng supplies the color schemes used on retries.
func New(tk Toolkit, log *logger.Logger, rng *rand.Rand) *Presenter {
	if log == nil {
		log = logger.Discard()
	}
	return &Presenter{tk: tk, log: log, rng: rng}
}

// Run shows the dialog until a button other than Retry is pressed or the
// dialog is closed, and returns that button. With a non-nil done the dialog
// text names the background thread and exactly one completion event is
// posted before returning, including on failure.
func (p *Presenter) Run(done *Completion) (int, error) {
	data := &messagebox.Data{
		Severity: messagebox.SeverityInformation,
		Title:    core.CustomTitle,
		Message:  core.CustomMessage,
		Buttons:  Buttons(),
	}
	if done != nil {
		data.Message = core.CustomWorkerMessage
	}

	button := messagebox.ButtonClosed
	for st, shown := stateShow, 0; st == stateShow; shown++ {
		data.Scheme = nil
		if shown > 0 {
			data.Scheme = p.randomScheme()
		}

		id, err := p.tk.ShowMessageBox(data)
		if err != nil {
			p.log.Errorf(core.PresentErrorTemplate, err)
			if perr := p.complete(done, messagebox.ButtonClosed, err); perr != nil {
				p.log.Errorf("Posting completion event: %v", perr)
			}
			return messagebox.ButtonClosed, err
		}

		p.log.Logf("Pressed button: %d, %s", id, core.ButtonName(id))
		button = id
		if id != core.ButtonRetry {
			st = stateDone
		}
	}

	if err := p.complete(done, button, nil); err != nil {
		p.log.Errorf("Posting completion event: %v", err)
		return button, fmt.Errorf("posting completion event: %w", err)
	}
	return button, nil
}

// ThreadFunc adapts Run to a toolkit worker. arg must be a *Completion.
// The worker status is 0 on success and 1 on failure.
func (p *Presenter) ThreadFunc(arg any) int {
	done, ok := arg.(*Completion)
	if !ok || done == nil {
		p.log.Errorf("Message box thread started without a completion token")
		return 1
	}
	if _, err := p.Run(done); err != nil {
		return 1
	}
	return 0
}

func (p *Presenter) complete(done *Completion, button int, cause error) error {
	if done == nil {
		return nil
	}
	if done.Result != nil {
		*done.Result = button
	}
	ev := toolkit.Event{Type: done.Event, Code: button}
	if cause != nil {
		ev.Data = cause
	}
	return p.tk.PushEvent(ev)
}

func (p *Presenter) randomScheme() *messagebox.ColorScheme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return messagebox.RandomScheme(p.rng)
}
