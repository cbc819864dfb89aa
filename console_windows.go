//go:build windows && (!cgo || arm64)

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

const attachParentProcess = ^uint32(0)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procAttachConsole    = kernel32.NewProc("AttachConsole")
	procAllocConsole     = kernel32.NewProc("AllocConsole")
	procSetConsoleCtrl   = kernel32.NewProc("SetConsoleCtrlHandler")
	procFreeConsole      = kernel32.NewProc("FreeConsole")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
)

// ensureConsole attaches to the parent console, or opens one, when the binary
// was linked as a GUI executable. The terminal backend and the log both need
// it.
func ensureConsole() {
	if hasConsole() {
		return
	}
	if !attachConsole() && !allocConsole() {
		return
	}
	redirectStdHandles()
}

func hasConsole() bool {
	if hwnd, _, _ := procGetConsoleWindow.Call(); hwnd != 0 {
		return true
	}
	return validHandle(windows.STD_OUTPUT_HANDLE)
}

func validHandle(std uint32) bool {
	h, err := windows.GetStdHandle(std)
	return err == nil && h != 0 && h != windows.InvalidHandle
}

func attachConsole() bool {
	r, _, _ := procAttachConsole.Call(uintptr(attachParentProcess))
	return r != 0
}

func allocConsole() bool {
	r, _, _ := procAllocConsole.Call()
	return r != 0
}

func redirectStdHandles() {
	// Ctrl-C must reach the toolkit's signal handler instead of killing the
	// process outright.
	procSetConsoleCtrl.Call(0, 0)

	for _, std := range []struct {
		handle uint32
		name   string
		file   **os.File
	}{
		{windows.STD_INPUT_HANDLE, "CONIN$", &os.Stdin},
		{windows.STD_OUTPUT_HANDLE, "CONOUT$", &os.Stdout},
		{windows.STD_ERROR_HANDLE, "CONOUT$", &os.Stderr},
	} {
		if !validHandle(std.handle) {
			continue
		}
		h, _ := windows.GetStdHandle(std.handle)
		if f := os.NewFile(uintptr(h), std.name); f != nil {
			*std.file = f
		}
	}
}

func releaseConsole() {
	procFreeConsole.Call()
}
