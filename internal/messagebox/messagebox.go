// Package messagebox describes modal dialogs independently of the backend
// that renders them.
package messagebox

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ButtonClosed is reported when a dialog is dismissed without a button.
const ButtonClosed = -1

// ErrInvalidData is wrapped by every descriptor validation failure.
var ErrInvalidData = errors.New("invalid message box data")

// Severity selects the icon and tone of a dialog.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ButtonFlags mark keyboard defaults on a button.
type ButtonFlags uint32

const (
	ButtonReturnKeyDefault ButtonFlags = 1 << iota
	ButtonEscapeKeyDefault
)

// Button is one selectable action. ID is reported back when it is pressed.
type Button struct {
	Flags ButtonFlags
	ID    int
	Text  string
}

// Window is the parent a dialog is anchored to. The dialog never owns it.
type Window interface {
	ID() uint32
	Title() string
}

// Data aggregates everything a backend needs to show one dialog.
type Data struct {
	Severity Severity
	Parent   Window
	Title    string
	Message  string
	Buttons  []Button
	Scheme   *ColorScheme // nil selects the backend default
}

// Simple returns the descriptor shown by the simple dialog API: a single OK
// button that is the default for both Return and Escape.
func Simple(severity Severity, title, message string, parent Window) *Data {
	return &Data{
		Severity: severity,
		Parent:   parent,
		Title:    title,
		Message:  message,
		Buttons: []Button{
			{Flags: ButtonReturnKeyDefault | ButtonEscapeKeyDefault, ID: 0, Text: "OK"},
		},
	}
}

// Validate checks the descriptor invariants shared by all backends.
func (d *Data) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidData)
	}
	if len(d.Buttons) == 0 {
		return fmt.Errorf("%w: no buttons", ErrInvalidData)
	}
	if !utf8.ValidString(d.Title) {
		return fmt.Errorf("%w: title is not valid UTF-8", ErrInvalidData)
	}
	if !utf8.ValidString(d.Message) {
		return fmt.Errorf("%w: message is not valid UTF-8", ErrInvalidData)
	}
	var returns, escapes int
	seen := make(map[int]struct{}, len(d.Buttons))
	for i, b := range d.Buttons {
		if !utf8.ValidString(b.Text) {
			return fmt.Errorf("%w: button %d label is not valid UTF-8", ErrInvalidData, i)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate button id %d", ErrInvalidData, b.ID)
		}
		seen[b.ID] = struct{}{}
		if b.Flags&ButtonReturnKeyDefault != 0 {
			returns++
		}
		if b.Flags&ButtonEscapeKeyDefault != 0 {
			escapes++
		}
	}
	if returns > 1 {
		return fmt.Errorf("%w: %d return-key defaults", ErrInvalidData, returns)
	}
	if escapes > 1 {
		return fmt.Errorf("%w: %d escape-key defaults", ErrInvalidData, escapes)
	}
	return nil
}

// Clone copies the descriptor so a recorder can keep it after the caller
// reuses its buttons or scheme.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	out := *d
	out.Buttons = append([]Button(nil), d.Buttons...)
	if d.Scheme != nil {
		scheme := *d.Scheme
		out.Scheme = &scheme
	}
	return &out
}

// Key is a dialog-level keyboard action.
type Key int

const (
	KeyReturn Key = iota
	KeyEscape
)

// KeyChoice resolves a keyboard action to a button id. Return picks the
// return-key default and is ignored without one. Escape picks the escape-key
// default, or closes the dialog when there is none.
func (d *Data) KeyChoice(key Key) (int, bool) {
	switch key {
	case KeyReturn:
		if i := d.defaultIndex(ButtonReturnKeyDefault); i >= 0 {
			return d.Buttons[i].ID, true
		}
		return 0, false
	case KeyEscape:
		if i := d.defaultIndex(ButtonEscapeKeyDefault); i >= 0 {
			return d.Buttons[i].ID, true
		}
		return ButtonClosed, true
	}
	return 0, false
}

// DefaultIndex returns the index of the button a backend should focus first.
func (d *Data) DefaultIndex() int {
	if i := d.defaultIndex(ButtonReturnKeyDefault); i >= 0 {
		return i
	}
	return 0
}

func (d *Data) defaultIndex(flag ButtonFlags) int {
	for i, b := range d.Buttons {
		if b.Flags&flag != 0 {
			return i
		}
	}
	return -1
}
