//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"walkoflife/process"
)

// ListByName returns all processes whose comm or exe basename equals name.
// The match is case-sensitive, like pidof. Our own process is skipped.
func ListByName(name string) ([]process.ProcessInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("empty process name")
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}

	selfPID := os.Getpid()
	var out []process.ProcessInfo

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		if pid == selfPID {
			continue
		}

		comm, _ := os.ReadFile(filepath.Join("/proc", e.Name(), "comm"))
		commName := strings.TrimSpace(string(comm))

		// comm is truncated to 15 chars by the kernel, so a long image name
		// like Rayman2.exe still matches but something longer would not;
		// the exe symlink below covers that case when it is readable.
		if commName == name {
			out = append(out, process.ProcessInfo{PID: process.ProcessID(pid), Name: commName})
			continue
		}

		exe, _ := os.Readlink(filepath.Join("/proc", e.Name(), "exe"))
		if exe != "" && filepath.Base(exe) == name {
			out = append(out, process.ProcessInfo{PID: process.ProcessID(pid), Name: name, Exe: exe})
		}
	}

	return out, nil
}

// OpenTarget finds the single process named name and attaches to it.
// Zero matches fail with ErrNotFound, more than one with ErrAmbiguousMatch
// (attaching to the wrong process is worse than failing loudly).
func OpenTarget(name string) (*LinuxProcess, error) {
	matches, err := ListByName(name)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w - is %s running?", process.ErrNotFound, name)
	case 1:
	default:
		pids := make([]string, len(matches))
		for i, m := range matches {
			pids[i] = strconv.Itoa(int(m.PID))
		}
		return nil, fmt.Errorf("%w: %s matches pids %s", process.ErrAmbiguousMatch, name, strings.Join(pids, ", "))
	}

	p, err := Open(matches[0].PID)
	if err != nil {
		return nil, err
	}

	// Fail at attach time rather than on the first tick if we cannot read at
	// all. A 4-byte probe at the base address is always mapped for a live
	// image.
	if _, rerr := p.ReadMemory(p.Base(), 4); rerr != nil {
		p.Close()
		if isPermission(rerr) {
			return nil, fmt.Errorf("%w (check CAP_SYS_PTRACE or /proc/sys/kernel/yama/ptrace_scope)", process.ErrPermissionDenied)
		}
		return nil, rerr
	}

	return p, nil
}

func isPermission(err error) bool {
	return err != nil && (os.IsPermission(err) || errors.Is(err, process.ErrPermissionDenied))
}
