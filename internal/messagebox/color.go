package messagebox

import (
	"image/color"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorRole indexes a ColorScheme.
type ColorRole int

const (
	ColorBackground ColorRole = iota
	ColorText
	ColorButtonBorder
	ColorButtonBackground
	ColorButtonSelected
	ColorCount
)

var roleNames = [ColorCount]string{
	ColorBackground:       "background",
	ColorText:             "text",
	ColorButtonBorder:     "button-border",
	ColorButtonBackground: "button-background",
	ColorButtonSelected:   "button-selected",
}

func (r ColorRole) String() string {
	if r < 0 || r >= ColorCount {
		return "unknown"
	}
	return roleNames[r]
}

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color so schemes can be handed to image-based toolkits.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	col, _ := colorful.MakeColor(c)
	return col.Hex()
}

// Contrast returns black or white, whichever reads better on c.
func Contrast(c Color) Color {
	col, _ := colorful.MakeColor(c)
	l, _, _ := col.Lab()
	if l > 0.55 {
		return Color{}
	}
	return Color{R: 0xff, G: 0xff, B: 0xff}
}

// ColorScheme overrides the per-role colors of a dialog.
type ColorScheme struct {
	Colors [ColorCount]Color
}

// Color returns the color for a role.
func (s ColorScheme) Color(role ColorRole) Color {
	return s.Colors[role]
}

// Hex renders the scheme as role=#rrggbb pairs for logging.
func (s *ColorScheme) Hex() string {
	if s == nil {
		return "default"
	}
	parts := make([]string, 0, ColorCount)
	for role := ColorRole(0); role < ColorCount; role++ {
		parts = append(parts, role.String()+"="+s.Colors[role].Hex())
	}
	return strings.Join(parts, " ")
}

// DefaultScheme is the palette backends use when a dialog carries no scheme.
func DefaultScheme() ColorScheme {
	return ColorScheme{Colors: [ColorCount]Color{
		ColorBackground:       {56, 54, 53},
		ColorText:             {209, 207, 205},
		ColorButtonBorder:     {140, 135, 129},
		ColorButtonBackground: {105, 102, 99},
		ColorButtonSelected:   {205, 202, 53},
	}}
}

// RandomScheme draws every channel of every role uniformly from 0..255.
func RandomScheme(rng *rand.Rand) *ColorScheme {
	scheme := &ColorScheme{}
	for i := range scheme.Colors {
		scheme.Colors[i] = Color{
			R: uint8(rng.IntN(256)),
			G: uint8(rng.IntN(256)),
			B: uint8(rng.IntN(256)),
		}
	}
	return scheme
}

// Resolve returns the scheme a backend should paint with.
func (d *Data) Resolve() ColorScheme {
	if d.Scheme != nil {
		return *d.Scheme
	}
	return DefaultScheme()
}
