//go:build windows

package win32

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modUser32   = windows.NewLazySystemDLL("user32.dll")
	modKernel32 = windows.NewLazySystemDLL("kernel32.dll")
)

var (
	procRegisterClassEx  = modUser32.NewProc("RegisterClassExW")
	procCreateWindowEx   = modUser32.NewProc("CreateWindowExW")
	procDefWindowProc    = modUser32.NewProc("DefWindowProcW")
	procDestroyWindow    = modUser32.NewProc("DestroyWindow")
	procShowWindow       = modUser32.NewProc("ShowWindow")
	procUpdateWindow     = modUser32.NewProc("UpdateWindow")
	procGetMessage       = modUser32.NewProc("GetMessageW")
	procTranslateMessage = modUser32.NewProc("TranslateMessage")
	procDispatchMessage  = modUser32.NewProc("DispatchMessageW")
	procPostQuitMessage  = modUser32.NewProc("PostQuitMessage")
	procPostMessage      = modUser32.NewProc("PostMessageW")
	procLoadCursor       = modUser32.NewProc("LoadCursorW")
	procGetModuleHandle  = modKernel32.NewProc("GetModuleHandleW")
)

const (
	wsOverlappedWindow = 0x00CF0000
	wsExAppWindow      = 0x00040000

	cwUseDefault = 0x80000000

	wmDestroy = 0x0002
	wmClose   = 0x0010
	wmKeyDown = 0x0100
	wmKeyUp   = 0x0101
	wmApp     = 0x8000

	swShow = 5

	idcArrow    = 32512
	colorWindow = 5
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type point struct {
	X int32
	Y int32
}

type msg struct {
	Hwnd    windows.HWND
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

func messageBox(owner uintptr, text, title string, style uint32) (int, error) {
	txtPtr, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return 0, err
	}
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}
	ret, err := windows.MessageBox(windows.HWND(owner), txtPtr, titlePtr, style)
	if ret == 0 {
		return 0, err
	}
	return int(ret), nil
}

func registerClass(className string, wndProc uintptr) error {
	hInstance, _, _ := procGetModuleHandle.Call(0)
	clsName, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return err
	}
	cursor, _, _ := procLoadCursor.Call(0, uintptr(idcArrow))
	wc := wndClassEx{
		Size:       uint32(unsafe.Sizeof(wndClassEx{})),
		WndProc:    wndProc,
		Instance:   windows.Handle(hInstance),
		Cursor:     windows.Handle(cursor),
		Background: colorWindow + 1,
		ClassName:  clsName,
	}
	atom, _, err := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc)))
	if atom == 0 {
		return err
	}
	return nil
}

func createWindow(className, title string, width, height int32) (windows.HWND, error) {
	hInstance, _, _ := procGetModuleHandle.Call(0)
	clsName, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return 0, err
	}
	wndTitle, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}
	hwnd, _, err := procCreateWindowEx.Call(
		wsExAppWindow,
		uintptr(unsafe.Pointer(clsName)),
		uintptr(unsafe.Pointer(wndTitle)),
		wsOverlappedWindow,
		uintptr(cwUseDefault),
		uintptr(cwUseDefault),
		uintptr(width),
		uintptr(height),
		0,
		0,
		hInstance,
		0,
	)
	if hwnd == 0 {
		return 0, err
	}
	return windows.HWND(hwnd), nil
}

func showWindow(hwnd windows.HWND) {
	procShowWindow.Call(uintptr(hwnd), swShow)
	procUpdateWindow.Call(uintptr(hwnd))
}

func messageLoop() int {
	var m msg
	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			return -1
		case 0:
			return int(m.WParam)
		default:
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
			procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
		}
	}
}

func defWindowProc(hwnd windows.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	ret, _, _ := procDefWindowProc.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
	return ret
}

func postQuitMessage(code int32) {
	procPostQuitMessage.Call(uintptr(code))
}

func destroyWindow(hwnd windows.HWND) {
	procDestroyWindow.Call(uintptr(hwnd))
}

func postMessage(hwnd windows.HWND, msg uint32, wparam, lparam uintptr) {
	procPostMessage.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
}
