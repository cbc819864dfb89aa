// Package driver runs the message box exercise: simple dialogs, the custom
// dialog on the calling goroutine and on a worker, and a dialog anchored to
// a parent window.
package driver

import (
	"context"
	"math/rand/v2"

	"messagebox-test/internal/core"
	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/presenter"
	"messagebox-test/internal/toolkit"
)

// Options configures a run.
type Options struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Rand         *rand.Rand // color schemes for custom dialog retries
}

// SimpleCase is one call of the simple dialog API.
type SimpleCase struct {
	Severity messagebox.Severity
	Title    string
	Message  string
}

// SimpleCases returns the simple dialogs shown at startup, in order.
// Empty strings stand for an absent title or message.
func SimpleCases() []SimpleCase {
	// "牛肉西蘭花" is Traditional Chinese for "beef with broccoli".
	return []SimpleCase{
		{messagebox.SeverityError, "Simple MessageBox", "This is a simple error MessageBox"},
		{messagebox.SeverityWarning, "Simple MessageBox", "This is a simple MessageBox with a newline:\r\nHello world!"},
		{messagebox.SeverityError, "", "NULL Title"},
		{messagebox.SeverityError, "NULL Message", ""},
		{messagebox.SeverityError, "UTF-8 Simple MessageBox", "Unicode text: '牛肉西蘭花' ..."},
		{messagebox.SeverityError, "UTF-8 Simple MessageBox", "Unicode text and newline:\r\n'牛肉西蘭花'\n'牛肉西蘭花'"},
		{messagebox.SeverityError, "牛肉西蘭花", "Unicode text in the title."},
	}
}

// Run executes every step and returns the process exit code. Any failure
// is logged, shuts the toolkit down and ends the run. The toolkit is shut
// down on success too.
func Run(ctx context.Context, tk *toolkit.Toolkit, log *logger.Logger, opts Options) int {
	if log == nil {
		log = logger.Discard()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	opts = opts.withDefaults()

	for _, c := range SimpleCases() {
		if err := tk.ShowSimpleMessageBox(c.Severity, c.Title, c.Message, nil); err != nil {
			log.Errorf(core.PresentErrorTemplate, err)
			return quit(tk, core.ExitFailure)
		}
	}

	p := presenter.New(tk, log, opts.Rand)
	if _, err := p.Run(nil); err != nil {
		return quit(tk, core.ExitCustomFailure)
	}

	// Dialogs raised off the main goroutine need the video subsystem on
	// platforms that dispatch dialog events from the main thread.
	if err := tk.Init(toolkit.SubsystemVideo); err != nil {
		log.Errorf("Couldn't initialize video subsystem: %v", err)
		return quit(tk, core.ExitFailure)
	}

	status, err := runWorker(ctx, tk, p, log)
	if err != nil {
		log.Errorf("Waiting for message box thread: %v", err)
		return quit(tk, core.ExitFailure)
	}
	log.Logf("Message box thread return %d", status)

	if code := parentDemo(ctx, tk, log, opts); code != core.ExitOK {
		return quit(tk, code)
	}
	return quit(tk, core.ExitOK)
}

func quit(tk *toolkit.Toolkit, code int) int {
	tk.Quit()
	return code
}

// runWorker shows the custom dialog on a worker and blocks until its
// completion event arrives, discarding every other event, then joins it.
// A worker that returns without posting the event still ends the wait.
func runWorker(ctx context.Context, tk *toolkit.Toolkit, p *presenter.Presenter, log *logger.Logger) (int, error) {
	eventType, err := tk.RegisterEvents(1)
	if err != nil {
		return 0, err
	}
	toolkit.RegisterEventName(eventType, "MessageBoxDone")

	th := tk.CreateThread(core.WorkerThreadName, p.ThreadFunc, &presenter.Completion{Event: eventType})
	waitCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		select {
		case <-th.Done():
			stop()
		case <-waitCtx.Done():
		}
	}()

	for {
		ev, err := tk.WaitEvent(waitCtx)
		if err != nil {
			if ctx.Err() != nil {
				// Closing the toolkit dismisses the worker's dialog so it can be joined.
				tk.Quit()
				th.Wait()
				return 0, err
			}
			if !discardUntil(tk, eventType) {
				log.Errorf("Message box thread exited without posting %s", eventType)
			}
			return th.Wait(), nil
		}
		if ev.Type == eventType {
			break
		}
		log.Debugf("Discarding %s while waiting for %s", ev.Type, eventType)
	}
	return th.Wait(), nil
}

// discardUntil drains queued events up to the first one of type et.
func discardUntil(tk *toolkit.Toolkit, et toolkit.EventType) bool {
	for {
		ev, ok := tk.PollEvent()
		if !ok {
			return false
		}
		if ev.Type == et {
			return true
		}
	}
}

func parentDemo(ctx context.Context, tk *toolkit.Toolkit, log *logger.Logger, opts Options) int {
	var parent toolkit.Window
	win, err := tk.CreateWindow(opts.WindowTitle, opts.WindowWidth, opts.WindowHeight)
	if err != nil {
		log.Errorf("Couldn't create window: %v", err)
		log.Log("No window to take keys; press Ctrl-C to finish.")
	} else {
		parent = win
		defer win.Destroy()
		// Some display servers map nothing until a frame is presented.
		if err := win.Present(); err != nil {
			log.Errorf("Couldn't present window: %v", err)
		}
	}

	if err := tk.ShowSimpleMessageBox(messagebox.SeverityError, core.ParentDialogTitle, core.ParentDialogMessage, parent); err != nil {
		log.Errorf(core.PresentErrorTemplate, err)
		return core.ExitFailure
	}

	for {
		ev, err := tk.WaitEvent(ctx)
		if err != nil {
			log.Errorf("Waiting for events: %v", err)
			return core.ExitFailure
		}
		if ev.Type == toolkit.EventQuit || ev.Type == toolkit.EventKeyUp {
			return core.ExitOK
		}
	}
}

func (o Options) withDefaults() Options {
	if o.WindowTitle == "" {
		o.WindowTitle = core.DefaultWindowTitle
	}
	if o.WindowWidth <= 0 {
		o.WindowWidth = core.DefaultWindowWidth
	}
	if o.WindowHeight <= 0 {
		o.WindowHeight = core.DefaultWindowHeight
	}
	return o
}
