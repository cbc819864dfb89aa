//go:build !windows

package win32

import (
	"fmt"

	"messagebox-test/internal/toolkit"
)

func messageBox(uintptr, string, string, uint32) (int, error) {
	return 0, fmt.Errorf("MessageBoxW: %w", toolkit.ErrUnsupported)
}

type window struct {
	id    uint32
	title string
}

func openWindow(*Backend, uint32, string, int, int) (*window, error) {
	return nil, fmt.Errorf("win32 windows: %w", toolkit.ErrUnsupported)
}

func (w *window) ID() uint32      { return w.id }
func (w *window) Title() string   { return w.title }
func (w *window) handle() uintptr { return 0 }
func (w *window) Present() error  { return toolkit.ErrUnsupported }
func (w *window) Destroy()        {}
