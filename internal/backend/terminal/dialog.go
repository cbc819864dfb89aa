package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"messagebox-test/internal/core"
	"messagebox-test/internal/messagebox"
)

const (
	buttonGap  = 2
	boxPadding = 2
	minBoxText = 20
)

type rect struct {
	X, Y, W, H int
}

// dialogLayout places a dialog in cell coordinates.
type dialogLayout struct {
	Box     rect
	Title   string
	Lines   []string
	TextX   int
	TextY   int
	Buttons []rect
	Labels  []string
}

func buttonLabel(text string) string {
	return "[ " + text + " ]"
}

// layout centers the dialog on a width x height screen. Lines longer than
// the screen are truncated when drawn.
func layout(data *messagebox.Data, width, height int) dialogLayout {
	l := dialogLayout{
		Title: data.Title,
		Lines: core.SplitLines(data.Message),
	}

	inner := max(minBoxText, runewidth.StringWidth(l.Title)+2)
	for _, line := range l.Lines {
		inner = max(inner, runewidth.StringWidth(line))
	}
	rowWidth := 0
	for i, b := range data.Buttons {
		label := buttonLabel(b.Text)
		l.Labels = append(l.Labels, label)
		if i > 0 {
			rowWidth += buttonGap
		}
		rowWidth += runewidth.StringWidth(label)
	}
	inner = max(inner, rowWidth)

	boxW := min(inner+2*boxPadding+2, width)
	// border, blank, lines, blank, buttons, border
	boxH := min(len(l.Lines)+5, height)
	l.Box = rect{X: max((width-boxW)/2, 0), Y: max((height-boxH)/2, 0), W: boxW, H: boxH}
	l.TextX = l.Box.X + 1 + boxPadding
	l.TextY = l.Box.Y + 2

	x := l.Box.X + (boxW-rowWidth)/2
	y := l.Box.Y + boxH - 2
	for _, label := range l.Labels {
		w := runewidth.StringWidth(label)
		l.Buttons = append(l.Buttons, rect{X: x, Y: y, W: w, H: 1})
		x += w + buttonGap
	}
	return l
}

func rgb(c messagebox.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (b *Backend) drawDialog(s tcell.Screen, data *messagebox.Data, selected int) {
	b.mu.Lock()
	cur := b.current
	b.mu.Unlock()
	if cur != nil {
		cur.draw(s)
	}

	scheme := data.Resolve()
	width, height := s.Size()
	l := layout(data, width, height)

	bg := tcell.StyleDefault.
		Background(rgb(scheme.Color(messagebox.ColorBackground))).
		Foreground(rgb(scheme.Color(messagebox.ColorText)))
	border := bg.Foreground(rgb(scheme.Color(messagebox.ColorButtonBorder)))

	for y := l.Box.Y; y < l.Box.Y+l.Box.H; y++ {
		for x := l.Box.X; x < l.Box.X+l.Box.W; x++ {
			s.SetContent(x, y, ' ', nil, bg)
		}
	}
	drawBorder(s, l.Box, border)
	if l.Title != "" {
		drawText(s, l.Box.X+2, l.Box.Y, l.Box.W-4, " "+l.Title+" ", bg.Bold(true))
	}
	for i, line := range l.Lines {
		y := l.TextY + i
		if y >= l.Box.Y+l.Box.H-2 {
			break
		}
		drawText(s, l.TextX, y, l.Box.W-2*boxPadding-2, line, bg)
	}

	for i, r := range l.Buttons {
		style := bg.
			Background(rgb(scheme.Color(messagebox.ColorButtonBackground))).
			Foreground(rgb(scheme.Color(messagebox.ColorText)))
		if i == selected {
			sel := scheme.Color(messagebox.ColorButtonSelected)
			style = style.Background(rgb(sel)).Foreground(rgb(messagebox.Contrast(sel)))
		}
		drawText(s, r.X, r.Y, r.W, l.Labels[i], style)
	}
	s.Show()
}

func drawBorder(s tcell.Screen, r rect, style tcell.Style) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		s.SetContent(x, r.Y, tcell.RuneHLine, nil, style)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetContent(r.X, y, tcell.RuneVLine, nil, style)
		s.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, style)
	s.SetContent(right, r.Y, tcell.RuneURCorner, nil, style)
	s.SetContent(r.X, bottom, tcell.RuneLLCorner, nil, style)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

// drawText writes text from (x, y), stopping before it would pass limit
// cells. Zero-width runes are attached to the preceding cell.
func drawText(s tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	if limit <= 0 {
		return 0
	}
	used := 0
	var mainc rune
	var combc []rune
	flush := func() bool {
		if mainc == 0 {
			return true
		}
		w := runewidth.RuneWidth(mainc)
		if used+w > limit {
			return false
		}
		s.SetContent(x+used, y, mainc, combc, style)
		used += w
		mainc, combc = 0, nil
		return true
	}
	for _, r := range text {
		if runewidth.RuneWidth(r) == 0 && mainc != 0 {
			combc = append(combc, r)
			continue
		}
		if !flush() {
			return used
		}
		if runewidth.RuneWidth(r) == 0 {
			continue
		}
		mainc = r
	}
	flush()
	return used
}
