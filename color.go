package pica

// ColorScheme assigns a display color to each syntactic role of the textual
// serializations. Empty entries disable coloring for that role; a nil scheme
// disables coloring entirely. Colors are named ANSI foreground colors.
type ColorScheme struct {
	Tag        string
	Occurrence string
	Code       string
	Value      string
	Syntax     string // Punctuation such as $, / and XML markup.
}

var ansiCodes = map[string]string{
	"black":   "30",
	"red":     "31",
	"green":   "32",
	"yellow":  "33",
	"blue":    "34",
	"magenta": "35",
	"cyan":    "36",
	"white":   "37",
}

// paint wraps s in ANSI escape codes for the named color. Unknown or empty
// color names leave s unchanged, as does an empty string.
func paint(color, s string) string {
	if s == "" {
		return s
	}
	code, ok := ansiCodes[color]
	if !ok {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
