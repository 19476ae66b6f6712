// Package offsets describes where the tracked values live inside the target
// process. Everything here is empirical, reverse-engineered configuration
// tied to one specific build of the target binary; a version mismatch is
// fixed by swapping a table, never by touching resolution logic.
package offsets

import "fmt"

// Value identifies a tracked value of interest.
type Value int

const (
	// Countdown is the remaining level time in whole seconds.
	Countdown Value = iota
	// Timer is the internal elapsed race time in milliseconds.
	Timer
)

var valueNames = map[Value]string{
	Countdown: "countdown",
	Timer:     "timer",
}

func (v Value) String() string {
	if name, ok := valueNames[v]; ok {
		return name
	}
	return fmt.Sprintf("value(%d)", int(v))
}

// MarshalText encodes the value name for the JSON table.
func (v Value) MarshalText() ([]byte, error) {
	name, ok := valueNames[v]
	if !ok {
		return nil, fmt.Errorf("unknown value %d", int(v))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a value name from the JSON table.
func (v *Value) UnmarshalText(text []byte) error {
	for val, name := range valueNames {
		if name == string(text) {
			*v = val
			return nil
		}
	}
	return fmt.Errorf("unknown value %q", string(text))
}

// Kind is how the terminal scalar decodes.
type Kind string

const (
	KindInt32  Kind = "int32"
	KindUint32 Kind = "uint32"
)

// Step is one hop of a pointer chain: read a pointer of Width bytes at the
// current address, then add Offset to the value read.
type Step struct {
	Width  uint   `json:"width"`
	Offset uint64 `json:"offset"`
}

// AddressSpec describes one value of interest: a root offset relative to the
// main module's base load address, the dereference steps to its terminal
// scalar, and the decode/plausibility rules for that scalar.
type AddressSpec struct {
	Value Value  `json:"value"`
	Root  uint64 `json:"root"`
	Steps []Step `json:"steps"`
	Kind  Kind   `json:"kind"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max"`
}

// InRange reports whether a decoded scalar is plausible for this spec.
// Out-of-range values are sentinels or garbage, not measurements.
func (s AddressSpec) InRange(v int64) bool {
	return v >= s.Min && v <= s.Max
}

// LevelProbe locates the null-terminated name of the currently loaded level.
// Sampling is gated on Name matching, case-insensitively. An empty Name
// disables the guard.
type LevelProbe struct {
	Root   uint64 `json:"root"`
	MaxLen uint   `json:"max_len"`
	Name   string `json:"name"`
}

// Table is the complete swappable configuration for one target build.
type Table struct {
	PointerWidth uint        `json:"pointer_width"`
	Level        LevelProbe  `json:"level"`
	Countdown    AddressSpec `json:"countdown"`
	Timer        AddressSpec `json:"timer"`
}

// Spec returns the AddressSpec for a tracked value.
func (t Table) Spec(v Value) (AddressSpec, bool) {
	switch v {
	case Countdown:
		return t.Countdown, true
	case Timer:
		return t.Timer, true
	}
	return AddressSpec{}, false
}

// Validate rejects tables that cannot possibly resolve.
func (t Table) Validate() error {
	if t.PointerWidth != 4 && t.PointerWidth != 8 {
		return fmt.Errorf("pointer_width must be 4 or 8, got %d", t.PointerWidth)
	}
	if t.Level.Name != "" && t.Level.MaxLen == 0 {
		return fmt.Errorf("level probe has a name but max_len 0")
	}
	for _, spec := range []AddressSpec{t.Countdown, t.Timer} {
		if err := spec.validate(); err != nil {
			return fmt.Errorf("%s: %w", spec.Value, err)
		}
	}
	if t.Countdown.Value != Countdown || t.Timer.Value != Timer {
		return fmt.Errorf("countdown/timer specs carry mismatched value tags")
	}
	return nil
}

func (s AddressSpec) validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("no dereference steps")
	}
	for i, step := range s.Steps {
		if step.Width != 4 && step.Width != 8 {
			return fmt.Errorf("step %d: width must be 4 or 8, got %d", i, step.Width)
		}
	}
	switch s.Kind {
	case KindInt32, KindUint32:
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	if s.Min > s.Max {
		return fmt.Errorf("min %d exceeds max %d", s.Min, s.Max)
	}
	return nil
}
