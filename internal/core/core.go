package core

import "strings"

const (
	AppName        = "Message Box Test"
	AppID          = "com.example.messageboxtest"
	ConfigFileName = "config.json"
	AppLogName     = "testmessage.log"
	InstallDirName = "MessageBoxTest"

	DefaultWindowTitle  = "Test"
	DefaultWindowWidth  = 640
	DefaultWindowHeight = 480

	// WorkerThreadName names the goroutine that shows the background dialog.
	WorkerThreadName = "MessageBox"
)

// Button identifiers used by the custom dialog.
const (
	ButtonOK     = 0
	ButtonCancel = 1
	ButtonRetry  = 2
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitCustomFailure = 2
)

// Dialog texts.
const (
	CustomTitle          = "Custom MessageBox"
	CustomMessage        = "This is a custom messagebox"
	CustomWorkerMessage  = "This is a custom messagebox from a background thread."
	ParentDialogTitle    = "Simple MessageBox"
	ParentDialogMessage  = "This is a simple error MessageBox with a parent window. Press a key or close the window after dismissing this messagebox."
	ClosedLabel          = "[closed]"
	PresentErrorTemplate = "Error Presenting MessageBox: %v"
)

// ButtonName returns the label logged for a pressed custom dialog button.
// Unknown identifiers report as OK, closed dialogs as ClosedLabel.
func ButtonName(id int) string {
	switch id {
	case -1:
		return ClosedLabel
	case ButtonCancel:
		return "Cancel"
	case ButtonRetry:
		return "Retry"
	default:
		return "OK"
	}
}

// NormalizeNewlines converts CR/LF and lone CR line breaks to LF.
func NormalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// SplitLines splits text into display lines after normalizing line breaks.
func SplitLines(text string) []string {
	if text == "" {
		return []string{""}
	}
	return strings.Split(NormalizeNewlines(text), "\n")
}
