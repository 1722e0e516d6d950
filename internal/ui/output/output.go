// Package output builds termenv outputs that honour NO_COLOR consistently
// across the CLI and the log handler.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorProfile returns Ascii when NO_COLOR is set and the detected
// terminal profile otherwise.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a termenv.Output for w (stderr when nil) using ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// Paint renders s in the given brand color. Under the Ascii profile the text
// is returned unchanged.
func Paint(out *termenv.Output, s string, color lipgloss.Color) string {
	return out.String(s).Foreground(termenv.RGBColor(string(color))).String()
}
