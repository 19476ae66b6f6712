//go:build linux

// Package process_linux implements read-only access to another process's
// memory using the process_vm_readv syscall.
package process_linux

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"walkoflife/process"
	"walkoflife/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// LinuxProcess implements process.Process for Linux systems.
type LinuxProcess struct {
	pid  process.ProcessID
	exe  string
	base process.ProcessMemoryAddress
	log  *logger.Logger
	mm   []memory_map.MemoryMapItem
	mu   sync.Mutex
}

// Open attaches to the process with the given PID. There is no persistent OS
// handle on Linux; "open" means the memory map was read and the main module's
// base load address was found.
func Open(pid process.ProcessID) (*LinuxProcess, error) {
	procPath := fmt.Sprintf("/proc/%d", pid)
	if _, err := os.Stat(procPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("pid %d: %w", pid, process.ErrNotFound)
	}

	exe, err := os.Readlink(filepath.Join(procPath, "exe"))
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("pid %d exe: %w", pid, process.ErrPermissionDenied)
		}
		// Some processes have no exe link; fall back to comm for the
		// basename-based module match.
		comm, cerr := os.ReadFile(filepath.Join(procPath, "comm"))
		if cerr != nil {
			return nil, fmt.Errorf("pid %d: read exe and comm failed: %w", pid, err)
		}
		exe = string(bytesTrimSpace(comm))
	}

	p := &LinuxProcess{
		pid: pid,
		exe: exe,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))),
	}

	if err := p.UpdateMemoryMap(); err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("pid %d maps: %w", pid, process.ErrPermissionDenied)
		}
		return nil, fmt.Errorf("pid %d: initialize memory map: %w", pid, err)
	}

	base, ok := memory_map.BaseAddress(p.mm, exe)
	if !ok {
		return nil, fmt.Errorf("pid %d: main module %q not found in memory map", pid, exe)
	}
	p.base = process.ProcessMemoryAddress(base)

	p.log.Infoln("Process opened, base", p.base.String())

	return p, nil
}

// Close releases the attachment. It keeps LinuxProcess satisfying
// process.Process and leaves subsequent reads failing fast.
func (p *LinuxProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return nil
	}
	p.log.Infoln("Closing process")
	p.pid = 0
	p.mm = nil
	return nil
}

// PID returns the process ID.
func (p *LinuxProcess) PID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// Base returns the base load address of the target's main module.
func (p *LinuxProcess) Base() process.ProcessMemoryAddress {
	return p.base
}

// UpdateMemoryMap refreshes the cached memory map for the process.
func (p *LinuxProcess) UpdateMemoryMap() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pid == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := memory_map.Read(int(p.pid))
	if err != nil {
		return err
	}
	p.mm = mm
	return nil
}

// IsValidAddress checks if the given address falls in a readable region of
// the cached memory map. The map is a snapshot; reads are still allowed to
// fault on regions that have gone away since.
func (p *LinuxProcess) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if item := memory_map.FindRegion(uint64(addr), p.mm); item != nil {
		return item.IsReadable()
	}
	return false
}

func bytesTrimSpace(b []byte) []byte {
	for len(b) > 0 {
		switch b[len(b)-1] {
		case '\n', '\r', ' ', '\t':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}
