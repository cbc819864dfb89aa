//go:build windows

package win32

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sys/windows"

	"messagebox-test/internal/toolkit"
)

const (
	windowClassName = "MessageBoxTestWindow"
	wmDestroyWindow = wmApp + 1
)

var (
	windowProc = windows.NewCallback(wndProc)
	classOnce  sync.Once
	classErr   error
	// byHandle maps live HWNDs to their windows for wndProc.
	byHandle sync.Map
)

// window owns an HWND and the OS thread running its message loop. Win32
// windows may only be destroyed by the thread that created them.
type window struct {
	b     *Backend
	id    uint32
	title string
	hwnd  windows.HWND
	done  chan struct{}
	once  sync.Once
}

func openWindow(b *Backend, id uint32, title string, width, height int) (*window, error) {
	classOnce.Do(func() {
		classErr = registerClass(windowClassName, windowProc)
	})
	if classErr != nil {
		return nil, fmt.Errorf("register window class: %w", classErr)
	}

	w := &window{b: b, id: id, title: title, done: make(chan struct{})}
	ready := make(chan error, 1)
	go w.loop(int32(width), int32(height), ready)
	if err := <-ready; err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	return w, nil
}

func (w *window) loop(width, height int32, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)

	hwnd, err := createWindow(windowClassName, w.title, width, height)
	if err != nil {
		ready <- err
		return
	}
	w.hwnd = hwnd
	byHandle.Store(hwnd, w)
	ready <- nil

	code := messageLoop()
	w.b.log.Debugf("Window %d message loop exited with code %d", w.id, code)
}

func (w *window) ID() uint32      { return w.id }
func (w *window) Title() string   { return w.title }
func (w *window) handle() uintptr { return uintptr(w.hwnd) }

func (w *window) Present() error {
	select {
	case <-w.done:
		return fmt.Errorf("window %d destroyed", w.id)
	default:
	}
	showWindow(w.hwnd)
	return nil
}

func (w *window) Destroy() {
	w.once.Do(func() {
		w.b.forget(w.id)
		postMessage(w.hwnd, wmDestroyWindow, 0, 0)
		<-w.done
	})
}

func wndProc(hwnd windows.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	v, ok := byHandle.Load(hwnd)
	if !ok {
		return defWindowProc(hwnd, msg, wparam, lparam)
	}
	w := v.(*window)
	switch msg {
	case wmKeyDown, wmKeyUp:
		et := toolkit.EventKeyDown
		if msg == wmKeyUp {
			et = toolkit.EventKeyUp
		}
		w.b.push(toolkit.Event{Type: et, WindowID: w.id, Key: fmt.Sprintf("VK_0x%02X", wparam), Code: int(wparam)})
		return 0
	case wmClose:
		w.b.push(toolkit.Event{Type: toolkit.EventWindowClose, WindowID: w.id})
		w.b.push(toolkit.Event{Type: toolkit.EventQuit})
		return 0
	case wmDestroyWindow:
		destroyWindow(hwnd)
		return 0
	case wmDestroy:
		byHandle.Delete(hwnd)
		postQuitMessage(0)
		return 0
	}
	return defWindowProc(hwnd, msg, wparam, lparam)
}
