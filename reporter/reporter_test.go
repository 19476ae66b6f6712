package reporter

import (
	"bytes"
	"testing"

	"walkoflife/sampler"
)

func TestLineFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewLine(&buf)

	r.Report(sampler.Sample{Countdown: 42, Timer: 5231})
	r.Report(sampler.Sample{Countdown: 0, Timer: 0})

	want := "42 -> 5231\n0 -> 0\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
