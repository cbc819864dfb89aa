package fyneui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"messagebox-test/internal/core"
	"messagebox-test/internal/messagebox"
)

// buildContent lays out the icon and message of data and returns one button
// per descriptor button, in descriptor order. Tapping a button calls choose
// with its id.
func buildContent(data *messagebox.Data, choose func(int)) (fyne.CanvasObject, []*widget.Button) {
	message := widget.NewLabel(core.NormalizeNewlines(data.Message))
	message.Wrapping = fyne.TextWrapWord

	buttons := make([]*widget.Button, len(data.Buttons))
	for i, b := range data.Buttons {
		id := b.ID
		btn := widget.NewButton(b.Text, func() { choose(id) })
		if b.Flags&messagebox.ButtonReturnKeyDefault != 0 {
			btn.Importance = widget.HighImportance
		}
		buttons[i] = btn
	}

	icon := widget.NewIcon(severityIcon(data.Severity))
	return container.NewBorder(nil, nil, icon, nil, message), buttons
}

func severityIcon(s messagebox.Severity) fyne.Resource {
	switch s {
	case messagebox.SeverityError:
		return theme.ErrorIcon()
	case messagebox.SeverityWarning:
		return theme.WarningIcon()
	default:
		return theme.InfoIcon()
	}
}

// applyScheme wraps obj in a theme override when data carries a scheme.
func applyScheme(data *messagebox.Data, obj fyne.CanvasObject) fyne.CanvasObject {
	if data.Scheme == nil {
		return obj
	}
	return container.NewThemeOverride(obj, newSchemeTheme(*data.Scheme, theme.DefaultTheme()))
}

// schemeTheme paints a dialog with a ColorScheme and defers everything
// else to base.
type schemeTheme struct {
	scheme messagebox.ColorScheme
	base   fyne.Theme
}

func newSchemeTheme(scheme messagebox.ColorScheme, base fyne.Theme) *schemeTheme {
	return &schemeTheme{scheme: scheme, base: base}
}

func (t *schemeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground, theme.ColorNameOverlayBackground, theme.ColorNameMenuBackground:
		return t.scheme.Color(messagebox.ColorBackground)
	case theme.ColorNameForeground:
		return t.scheme.Color(messagebox.ColorText)
	case theme.ColorNameButton:
		return t.scheme.Color(messagebox.ColorButtonBackground)
	case theme.ColorNameInputBorder, theme.ColorNameSeparator:
		return t.scheme.Color(messagebox.ColorButtonBorder)
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return t.scheme.Color(messagebox.ColorButtonSelected)
	case theme.ColorNameForegroundOnPrimary:
		return messagebox.Contrast(t.scheme.Color(messagebox.ColorButtonSelected))
	}
	return t.base.Color(name, variant)
}

func (t *schemeTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *schemeTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *schemeTheme) Size(name fyne.ThemeSizeName) float32 {
	return t.base.Size(name)
}
