// Package native shows dialogs with the platform's own dialog helpers:
// zenity where it is available, sqweek/dialog otherwise.
//
// Native dialogs carry at most three buttons and cannot be recolored, so
// color schemes are ignored. Windows are not supported.
package native

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ncruces/zenity"

	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

// Backend implements toolkit.Backend with native dialogs.
type Backend struct {
	log *logger.Logger
	// UseZenity reports whether zenity can display dialogs. It defaults
	// to zenity.IsAvailable.
	UseZenity func() bool

	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	quitOnce sync.Once
}

func New(log *logger.Logger) *Backend {
	if log == nil {
		log = logger.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Backend{log: log, UseZenity: zenity.IsAvailable, ctx: ctx, cancel: cancel}
}

func (b *Backend) Name() string { return "native" }

func (b *Backend) Init(toolkit.EventSink) error { return nil }

// ShowMessageBox blocks until the native dialog returns. Native dialogs are
// application modal, so calls are serialized.
func (b *Backend) ShowMessageBox(data *messagebox.Data) (int, error) {
	if b.ctx.Err() != nil {
		return messagebox.ButtonClosed, toolkit.ErrClosed
	}
	p, err := newPlan(data)
	if err != nil {
		return messagebox.ButtonClosed, err
	}
	if data.Scheme != nil {
		b.log.Debugf("Native dialogs ignore color scheme %s", data.Scheme.Hex())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.UseZenity() {
		return p.resolveZenity(showZenity(b.ctx, p))
	}
	return p.resolveFallback(showFallback(p))
}

func (b *Backend) CreateWindow(string, int, int) (toolkit.Window, error) {
	return nil, fmt.Errorf("native windows: %w", toolkit.ErrUnsupported)
}

// Quit dismisses a pending zenity dialog and rejects further ones.
func (b *Backend) Quit() {
	b.quitOnce.Do(b.cancel)
}

// plan maps descriptor buttons onto the OK, Cancel and extra slots a native
// dialog offers. A slot index of -1 is unused.
type plan struct {
	severity messagebox.Severity
	title    string
	text     string
	labels   []string
	ids      []int
	ok       int
	cancel   int
	extra    int
}

func newPlan(data *messagebox.Data) (plan, error) {
	n := len(data.Buttons)
	if n == 0 || n > 3 {
		return plan{}, fmt.Errorf("native dialog with %d buttons: %w", n, toolkit.ErrUnsupported)
	}
	p := plan{
		severity: data.Severity,
		title:    data.Title,
		text:     data.Message,
		ok:       data.DefaultIndex(),
		cancel:   -1,
		extra:    -1,
	}
	for _, btn := range data.Buttons {
		p.labels = append(p.labels, btn.Text)
		p.ids = append(p.ids, btn.ID)
	}
	if n == 1 {
		return p, nil
	}

	for i, btn := range data.Buttons {
		if i != p.ok && btn.Flags&messagebox.ButtonEscapeKeyDefault != 0 {
			p.cancel = i
		}
	}
	for i := range data.Buttons {
		if i == p.ok || i == p.cancel {
			continue
		}
		if p.cancel < 0 {
			p.cancel = i
		} else if p.extra < 0 {
			p.extra = i
		}
	}
	return p, nil
}

func (p plan) id(slot int) int {
	if slot < 0 {
		return messagebox.ButtonClosed
	}
	return p.ids[slot]
}

func (p plan) zenityOptions() []zenity.Option {
	opts := []zenity.Option{zenity.Title(p.title), zenity.OKLabel(p.labels[p.ok])}
	switch p.severity {
	case messagebox.SeverityError:
		opts = append(opts, zenity.ErrorIcon)
	case messagebox.SeverityWarning:
		opts = append(opts, zenity.WarningIcon)
	default:
		opts = append(opts, zenity.InfoIcon)
	}
	if p.cancel >= 0 {
		opts = append(opts, zenity.CancelLabel(p.labels[p.cancel]))
	}
	if p.extra >= 0 {
		opts = append(opts, zenity.ExtraButton(p.labels[p.extra]))
	}
	return opts
}

func showZenity(ctx context.Context, p plan) error {
	opts := append(p.zenityOptions(), zenity.Context(ctx))
	if p.cancel >= 0 {
		return zenity.Question(p.text, opts...)
	}
	switch p.severity {
	case messagebox.SeverityError:
		return zenity.Error(p.text, opts...)
	case messagebox.SeverityWarning:
		return zenity.Warning(p.text, opts...)
	default:
		return zenity.Info(p.text, opts...)
	}
}

// resolveZenity turns a zenity result into a button id. Cancel covers both
// the cancel button and closing the dialog.
func (p plan) resolveZenity(err error) (int, error) {
	switch {
	case err == nil:
		return p.id(p.ok), nil
	case errors.Is(err, zenity.ErrExtraButton):
		return p.id(p.extra), nil
	case errors.Is(err, zenity.ErrCanceled):
		return p.id(p.cancel), nil
	case errors.Is(err, context.Canceled):
		return messagebox.ButtonClosed, toolkit.ErrClosed
	}
	return messagebox.ButtonClosed, fmt.Errorf("zenity: %w", err)
}

// fallbackResult is what the sqweek dialogs can report.
type fallbackResult int

const (
	fallbackOK fallbackResult = iota
	fallbackNo
)

func (p plan) resolveFallback(r fallbackResult, err error) (int, error) {
	if err != nil {
		return messagebox.ButtonClosed, err
	}
	if r == fallbackNo {
		return p.id(p.cancel), nil
	}
	return p.id(p.ok), nil
}
