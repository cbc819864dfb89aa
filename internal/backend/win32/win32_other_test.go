//go:build !windows

package win32

import (
	"errors"
	"testing"

	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

func TestUnsupportedOffWindows(t *testing.T) {
	if err := Alert("text", "title", messagebox.SeverityError); !errors.Is(err, toolkit.ErrUnsupported) {
		t.Errorf("Alert() = %v, want ErrUnsupported", err)
	}
	b := New(nil, nil)
	if _, err := b.CreateWindow("parent", 640, 480); !errors.Is(err, toolkit.ErrUnsupported) {
		t.Errorf("CreateWindow() = %v, want ErrUnsupported", err)
	}
}
