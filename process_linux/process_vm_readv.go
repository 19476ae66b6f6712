//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"walkoflife/process"

	"golang.org/x/sys/unix"
)

// process_vm_readv uses the process_vm_readv syscall to read memory from
// another process without stopping it.
func process_vm_readv(
	pid process.ProcessID,
	remoteAddr process.ProcessMemoryAddress,
	bytesToRead process.ProcessMemorySize,
) ([]byte, error) {
	localBuf := make([]byte, bytesToRead)

	localIov := unix.Iovec{
		Base: &localBuf[0],
		Len:  uint64(bytesToRead),
	}

	remoteIov := unix.RemoteIovec{
		Base: uintptr(remoteAddr),
		Len:  int(bytesToRead),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(pid),                        // Remote process PID
		uintptr(unsafe.Pointer(&localIov)),  // Local iovec
		uintptr(1),                          // Number of local iovecs
		uintptr(unsafe.Pointer(&remoteIov)), // Remote iovec
		uintptr(1),                          // Number of remote iovecs
		uintptr(0),                          // Flags (reserved for future use)
	)

	if errno != 0 {
		return nil, classifyErrno(errno)
	}

	// A short read means the range crossed into unmapped memory.
	if int(n) != int(bytesToRead) {
		return nil, fmt.Errorf("partial read: %d of %d bytes: %w", n, bytesToRead, process.ErrReadFault)
	}

	return localBuf, nil
}

// classifyErrno maps process_vm_readv errnos onto the error taxonomy.
// EPERM means our rights were insufficient or revoked; everything else
// (unmapped range, target exited) is a read fault the caller decides about.
func classifyErrno(errno unix.Errno) error {
	switch errno {
	case unix.EPERM, unix.EACCES:
		return fmt.Errorf("process_vm_readv: %s: %w", errno.Error(), process.ErrPermissionDenied)
	case unix.ESRCH:
		return fmt.Errorf("process_vm_readv: target exited: %w", process.ErrReadFault)
	default:
		return fmt.Errorf("process_vm_readv: %s (errno %d): %w", errno.Error(), int(errno), process.ErrReadFault)
	}
}

// ReadMemory reads memory from the process at the specified address. The
// cached memory map is deliberately not consulted here: the target remaps
// regions as it runs, and the syscall itself is the authority on whether an
// address is readable right now.
func (p *LinuxProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.Lock()
	pid := p.pid
	p.mu.Unlock()

	if pid == 0 {
		return nil, process.ErrProcessNotOpen
	}
	if size == 0 {
		return nil, nil
	}

	data, err := process_vm_readv(pid, addr, size)
	if err != nil {
		return nil, fmt.Errorf("read %s (%d bytes): %w", addr, size, err)
	}
	return data, nil
}
