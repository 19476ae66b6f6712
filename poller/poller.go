// Package poller drives the once-per-second sample loop against an attached
// target and decides when the run is over.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walkoflife/process"
	"walkoflife/sampler"

	"github.com/Moonlight-Companies/gologger/logger"
)

// Reporter receives exactly one call per successful sample, in tick order.
type Reporter interface {
	Report(sampler.Sample)
}

// Sampler reads both tracked values once. Matches *sampler.Sampler.
type Sampler interface {
	Sample(mem process.Memory, base process.ProcessMemoryAddress) (sampler.Sample, bool, error)
}

// LocateFunc attaches to the target and returns its handle and the base load
// address of its main module.
type LocateFunc func() (process.Process, process.ProcessMemoryAddress, error)

// Config holds the loop policies.
type Config struct {
	// Interval between ticks. Defaults to one second.
	Interval time.Duration

	// AttachWait keeps retrying a NotFound locate result for this long
	// before giving up. Zero means fail fast.
	AttachWait time.Duration

	// StopAfterSkips ends the run voluntarily after this many consecutive
	// skip ticks (the level was exited). Zero disables the policy.
	StopAfterSkips int
}

// Poller owns the target handle for the lifetime of one run.
type Poller struct {
	cfg      Config
	locate   LocateFunc
	sampler  Sampler
	reporter Reporter
	log      *logger.Logger
}

// New creates a Poller. log may be nil for a silent loop.
func New(cfg Config, locate LocateFunc, s Sampler, r Reporter, log *logger.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Poller{cfg: cfg, locate: locate, sampler: s, reporter: r, log: log}
}

// Run attaches and polls until the level is exited, the target disappears, or
// ctx is cancelled. A nil return is a voluntary stop. The handle is closed on
// every exit path, and once polling starts there is no path back to
// attaching: a single attachment lasts the whole run.
func (p *Poller) Run(ctx context.Context) error {
	proc, base, err := p.attach(ctx)
	if err != nil {
		return err
	}
	defer proc.Close()

	if p.log != nil {
		p.log.Infoln("Attached to pid", int(proc.PID()), "base", base.String())
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	skips := 0
	for {
		smp, ok, err := p.sampler.Sample(proc, base)
		if err != nil {
			return fmt.Errorf("target lost: %w", err)
		}
		if ok {
			p.reporter.Report(smp)
			skips = 0
		} else {
			skips++
			if p.cfg.StopAfterSkips > 0 && skips >= p.cfg.StopAfterSkips {
				if p.log != nil {
					p.log.Infoln("Level no longer active after", skips, "empty ticks, stopping")
				}
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// attach runs the locator, retrying NotFound within the configured window.
func (p *Poller) attach(ctx context.Context) (process.Process, process.ProcessMemoryAddress, error) {
	deadline := time.Now().Add(p.cfg.AttachWait)

	for {
		proc, base, err := p.locate()
		if err == nil {
			return proc, base, nil
		}
		if !errors.Is(err, process.ErrNotFound) || p.cfg.AttachWait <= 0 {
			return nil, 0, err
		}
		if time.Now().After(deadline) {
			return nil, 0, err
		}

		if p.log != nil {
			p.log.Infoln("Target not found, retrying:", err)
		}
		select {
		case <-ctx.Done():
			return nil, 0, err
		case <-time.After(p.cfg.Interval):
		}
	}
}
