// Package ansi provides ANSI escape code constants and helpers for terminal output.
package ansi

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Yellow = "\033[33m"
	Green  = "\033[32m"
	Red    = "\033[31m"
	Cyan   = "\033[36m"
)

// ClearScreen moves the cursor home and clears the display.
const ClearScreen = "\033[H\033[2J"

// Palette applies SGR codes only when enabled. The zero value emits plain text.
type Palette struct {
	Enabled bool
}

// Paint wraps s in the given codes followed by Reset.
func (p Palette) Paint(s string, codes ...string) string {
	if !p.Enabled || len(codes) == 0 {
		return s
	}
	var prefix string
	for _, c := range codes {
		prefix += c
	}
	return prefix + s + Reset
}

// Code returns c when enabled and the empty string otherwise.
func (p Palette) Code(c string) string {
	if !p.Enabled {
		return ""
	}
	return c
}
