//go:build !cgo && !windows

package native

import (
	"fmt"

	"messagebox-test/internal/toolkit"
)

func showFallback(plan) (fallbackResult, error) {
	return fallbackOK, fmt.Errorf("no dialog helper available without cgo: %w", toolkit.ErrUnsupported)
}
