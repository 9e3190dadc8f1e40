package color

import "github.com/mgutz/ansi"

var (
	Red    = ansi.ColorFunc("red+b")
	Yellow = ansi.ColorFunc("yellow+b")
	Green  = ansi.ColorFunc("green+b")
)
