package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var logo = []string{
	"  ____                       _       ",
	" |  _ \\ ___  _ __ ___   ___ | |_ ___ ",
	" | |_) / _ \\| '_ ` _ \\ / _ \\| __/ _ \\",
	" |  _ < (_) | | | | | | (_) | ||  __/",
	" |_| \\_\\___/|_| |_| |_|\\___/ \\__\\___|",
}

// Purple-to-pink, one shade per logo line.
var palette = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

// PrintBanner writes the welcome logo and version to w.
// Colors degrade to plain text when w is not a color terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for i, line := range logo {
		fmt.Fprintln(w, out.String(line).Foreground(p.Color(palette[i%len(palette)])))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
