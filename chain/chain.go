// Package chain resolves pointer chains inside another process's address
// space: start at a base-relative root, then repeatedly read a pointer and
// add the next offset until the terminal scalar's address falls out.
package chain

import (
	"errors"
	"fmt"

	"walkoflife/offsets"
	"walkoflife/process"
)

// ErrChainBroken is returned when an intermediate pointer reads as zero.
// This means the structure is not currently instantiated (e.g. the level is
// not loaded) - a normal transient state, not a failure to surface.
var ErrChainBroken = errors.New("pointer chain broken")

// Resolve walks spec's chain against mem and returns the live address of the
// terminal scalar. current starts at base+Root; each step reads a pointer of
// the step's width at current and sets current to that pointer plus the
// step's offset. Read errors propagate unchanged, so the caller can tell a
// vanished process (read fault) from a dangling chain (ErrChainBroken).
//
// The result is only valid until the target reallocates its structures, so
// callers re-resolve on every use rather than caching.
func Resolve(mem process.Memory, base process.ProcessMemoryAddress, spec offsets.AddressSpec) (process.ProcessMemoryAddress, error) {
	current := base + process.ProcessMemoryAddress(spec.Root)

	for i, step := range spec.Steps {
		ptr, err := process.ReadPointer(mem, current, step.Width)
		if err != nil {
			return 0, fmt.Errorf("%s step %d at %s: %w", spec.Value, i, current, err)
		}
		if ptr == 0 {
			return 0, fmt.Errorf("%s step %d at %s: %w", spec.Value, i, current, ErrChainBroken)
		}
		current = ptr + process.ProcessMemoryAddress(step.Offset)
	}

	return current, nil
}
