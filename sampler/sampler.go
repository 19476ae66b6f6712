// Package sampler turns one pass over the target's memory into either a
// typed Sample or a skip.
package sampler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"walkoflife/chain"
	"walkoflife/offsets"
	"walkoflife/process"

	"github.com/Moonlight-Companies/gologger/logger"
)

// Sample is one successful reading of both tracked values.
type Sample struct {
	Countdown  int32     // remaining level time, seconds
	Timer      uint32    // elapsed race time, milliseconds
	CapturedAt time.Time // wall clock at decode
}

// Sampler resolves and decodes the tracked values described by its table.
// Chains are re-resolved on every call; the target reallocates its structures
// between level loads, so a cached address would silently go stale.
type Sampler struct {
	table offsets.Table
	log   *logger.Logger // nil unless hop tracing was asked for
}

// New creates a Sampler for the given table.
func New(table offsets.Table) *Sampler {
	return &Sampler{table: table}
}

// NewDebug creates a Sampler that traces every resolution through log.
func NewDebug(table offsets.Table, log *logger.Logger) *Sampler {
	return &Sampler{table: table, log: log}
}

// Sample reads both values once. The bool is false when the tick produced
// nothing worth reporting: the level is not the tracked one, a chain dangles,
// or a decoded value is out of range. Errors mean the run should end -
// a broken chain is a skip, a read fault is not.
func (s *Sampler) Sample(mem process.Memory, base process.ProcessMemoryAddress) (Sample, bool, error) {
	ok, err := s.levelActive(mem, base)
	if err != nil {
		return Sample{}, false, err
	}
	if !ok {
		return Sample{}, false, nil
	}

	countdown, ok, err := s.readValue(mem, base, offsets.Countdown)
	if err != nil || !ok {
		return Sample{}, false, err
	}
	timer, ok, err := s.readValue(mem, base, offsets.Timer)
	if err != nil || !ok {
		return Sample{}, false, err
	}

	return Sample{
		Countdown:  int32(countdown),
		Timer:      uint32(timer),
		CapturedAt: time.Now(),
	}, true, nil
}

// levelActive checks the level-name probe. An empty configured name disables
// the guard.
func (s *Sampler) levelActive(mem process.Memory, base process.ProcessMemoryAddress) (bool, error) {
	probe := s.table.Level
	if probe.Name == "" {
		return true, nil
	}

	name, err := process.ReadNTS(mem, base+process.ProcessMemoryAddress(probe.Root), process.ProcessMemorySize(probe.MaxLen))
	if err != nil {
		return false, fmt.Errorf("level name: %w", err)
	}
	if !strings.EqualFold(name, probe.Name) {
		if s.log != nil {
			s.log.Debugln("level", name, "is not", probe.Name, "- skipping")
		}
		return false, nil
	}
	return true, nil
}

// readValue resolves one value's chain and decodes its terminal scalar into
// an int64 wide enough for either kind. false means skip this tick.
func (s *Sampler) readValue(mem process.Memory, base process.ProcessMemoryAddress, v offsets.Value) (int64, bool, error) {
	spec, found := s.table.Spec(v)
	if !found {
		return 0, false, fmt.Errorf("no address spec for %s", v)
	}

	addr, err := chain.Resolve(mem, base, spec)
	if err != nil {
		if errors.Is(err, chain.ErrChainBroken) {
			if s.log != nil {
				s.log.Debugln(v.String(), "chain dangling:", err)
			}
			return 0, false, nil
		}
		return 0, false, err
	}

	var decoded int64
	switch spec.Kind {
	case offsets.KindInt32:
		raw, rerr := process.ReadINT32(mem, addr)
		if rerr != nil {
			return 0, false, fmt.Errorf("%s at %s: %w", v, addr, rerr)
		}
		decoded = int64(raw)
	case offsets.KindUint32:
		raw, rerr := process.ReadUINT32(mem, addr)
		if rerr != nil {
			return 0, false, fmt.Errorf("%s at %s: %w", v, addr, rerr)
		}
		decoded = int64(raw)
	default:
		return 0, false, fmt.Errorf("%s: unknown kind %q", v, spec.Kind)
	}

	if !spec.InRange(decoded) {
		if s.log != nil {
			s.log.Debugln(v.String(), "value", decoded, "out of range - skipping")
		}
		return 0, false, nil
	}

	if s.log != nil {
		s.log.Debugln(v.String(), "resolved to", addr.String(), "=", decoded)
	}
	return decoded, true, nil
}
