// Package output creates termenv outputs with a consistent color profile for log and report rendering.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorProfile returns Ascii when NO_COLOR is set and the detected terminal profile otherwise.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI returns Ascii when NO_COLOR is set and plain ANSI otherwise.
// Build logs are often captured by CI systems that only understand the basic palette.
func ColorProfileANSI() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// ProfileFor picks the profile function for w. An interactive terminal gets the detected
// profile. Pipes, files and CI logs get ColorProfileANSI.
func ProfileFor(w io.Writer) func() termenv.Profile {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return ColorProfileANSI
	}

	ci := os.Getenv("CI")
	if ci == "true" || ci == "1" {
		return ColorProfileANSI
	}
	return ColorProfile
}

// New creates a termenv.Output on w using the profile chosen by ProfileFor.
// A nil writer means os.Stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return NewWithProfile(w, ProfileFor(w), opts...)
}

// NewWithProfile creates a termenv.Output on w with the profile returned by profileFn.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profileFn()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
