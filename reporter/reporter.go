// Package reporter formats samples for the output stream.
package reporter

import (
	"fmt"
	"io"

	"walkoflife/sampler"
)

// Line writes one `<countdown> -> <timer>` line per sample: decimal, no
// padding, countdown in seconds, timer in milliseconds.
type Line struct {
	w io.Writer
}

// NewLine creates a Line reporter writing to w.
func NewLine(w io.Writer) *Line {
	return &Line{w: w}
}

// Report writes the sample's line.
func (l *Line) Report(s sampler.Sample) {
	fmt.Fprintf(l.w, "%d -> %d\n", s.Countdown, s.Timer)
}
