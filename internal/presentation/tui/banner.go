package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the Concerto banner and version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Amber to rose
	lines := []struct{ text, color string }{
		{"   ___                        _        ", "#fbbf24"},
		{"  / __|___ _ _  __ ___ _ _ __| |_ ___  ", "#f59e0b"},
		{" | (__/ _ \\ ' \\/ _/ -_) '_|  _|  _/ _ \\ ", "#f97316"},
		{"  \\___\\___/_||_\\__\\___|_|  \\__|\\__\\___/ ", "#f43f5e"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
