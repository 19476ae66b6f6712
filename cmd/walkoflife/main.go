// Command walkoflife attaches to a running Rayman2.exe and prints the Walk
// of Life countdown and race timer once per second:
//
//	42 -> 5231
//
// Reading another process's memory needs CAP_SYS_PTRACE or a permissive
// /proc/sys/kernel/yama/ptrace_scope.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"walkoflife/offsets"
	"walkoflife/poller"
	"walkoflife/process"
	"walkoflife/process_linux"
	"walkoflife/reporter"
	"walkoflife/sampler"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Exit codes: the shell can tell a target that never appeared from one that
// died mid-run.
const (
	exitOK         = 0
	exitUsage      = 1
	exitNotFound   = 2
	exitTargetLost = 3
	exitPermission = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		procName   = flag.String("process", offsets.TargetProcess, "target process image name")
		tablePath  = flag.String("offsets", "", "JSON offsets table overriding the built-in one")
		wait       = flag.Duration("wait", 0, "keep retrying attach for this long when the target is not found (0 = fail fast)")
		interval   = flag.Duration("interval", time.Second, "time between samples")
		stopSkips  = flag.Int("stop-after-skips", 5, "stop after this many consecutive empty ticks (0 = run until the target exits)")
		debugTrace = flag.Bool("debug", false, "trace chain resolution and skip reasons")
	)
	flag.Parse()

	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "walkoflife"))

	table := offsets.Default()
	if *tablePath != "" {
		loaded, err := offsets.Load(*tablePath)
		if err != nil {
			log.Warn("Bad offsets table: ", err)
			return exitUsage
		}
		table = loaded
	}

	smp := sampler.New(table)
	if *debugTrace {
		smp = sampler.NewDebug(table, log)
	}

	locate := func() (process.Process, process.ProcessMemoryAddress, error) {
		p, err := process_linux.OpenTarget(*procName)
		if err != nil {
			return nil, 0, err
		}
		return p, p.Base(), nil
	}

	cfg := poller.Config{
		Interval:       *interval,
		AttachWait:     *wait,
		StopAfterSkips: *stopSkips,
	}

	var plog *logger.Logger
	if *debugTrace {
		plog = log
	}
	p := poller.New(cfg, locate, smp, reporter.NewLine(os.Stdout), plog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx); err != nil {
		log.Warn("Run ended: ", err)
		switch {
		case errors.Is(err, process.ErrPermissionDenied):
			fmt.Fprintln(os.Stderr, "hint: run with CAP_SYS_PTRACE or relax /proc/sys/kernel/yama/ptrace_scope")
			return exitPermission
		case errors.Is(err, process.ErrNotFound), errors.Is(err, process.ErrAmbiguousMatch):
			return exitNotFound
		default:
			return exitTargetLost
		}
	}

	return exitOK
}
