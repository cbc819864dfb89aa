//go:build cgo || windows

package native

import (
	"fmt"

	"github.com/sqweek/dialog"

	"messagebox-test/internal/messagebox"
	"messagebox-test/internal/toolkit"
)

// showFallback displays p with sqweek/dialog, which offers a single OK
// button or a Yes/No pair.
func showFallback(p plan) (fallbackResult, error) {
	if p.extra >= 0 {
		return fallbackOK, fmt.Errorf("fallback dialog with three buttons: %w", toolkit.ErrUnsupported)
	}
	msg := dialog.Message("%s", p.text).Title(p.title)
	if p.cancel >= 0 {
		if msg.YesNo() {
			return fallbackOK, nil
		}
		return fallbackNo, nil
	}
	if p.severity == messagebox.SeverityInformation {
		msg.Info()
	} else {
		msg.Error()
	}
	return fallbackOK, nil
}
