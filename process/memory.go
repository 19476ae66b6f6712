package process

import (
	"encoding/binary"
	"fmt"
)

// Memory is the read side of an address space. It is the sole point of
// contact with whatever holds the bytes: a live process, or a snapshot image
// in tests. There is deliberately no write counterpart.
type Memory interface {
	// ReadMemory reads exactly size bytes starting at addr. A short or failed
	// read reports an error wrapping ErrReadFault.
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)
}

// Process is a Memory with an owned OS handle behind it.
type Process interface {
	Memory

	// PID returns the process ID.
	PID() ProcessID

	// Close releases the handle. Safe to call on every exit path.
	Close() error
}

// Typed reads over a Memory. All multi-byte values in the targets we care
// about are little-endian.

// ReadUINT32 reads an unsigned 32-bit integer from the specified address.
func ReadUINT32(m Memory, addr ProcessMemoryAddress) (uint32, error) {
	data, err := m.ReadMemory(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ReadINT32 reads a signed 32-bit integer from the specified address.
func ReadINT32(m Memory, addr ProcessMemoryAddress) (int32, error) {
	v, err := ReadUINT32(m, addr)
	return int32(v), err
}

// ReadUINT64 reads an unsigned 64-bit integer from the specified address.
func ReadUINT64(m Memory, addr ProcessMemoryAddress) (uint64, error) {
	data, err := m.ReadMemory(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// ReadPointer reads a pointer of the given byte width from the specified
// address. Width is 4 for 32-bit targets and 8 for 64-bit targets.
func ReadPointer(m Memory, addr ProcessMemoryAddress, width uint) (ProcessMemoryAddress, error) {
	switch width {
	case 4:
		v, err := ReadUINT32(m, addr)
		return ProcessMemoryAddress(v), err
	case 8:
		v, err := ReadUINT64(m, addr)
		return ProcessMemoryAddress(v), err
	default:
		return 0, fmt.Errorf("unsupported pointer width %d", width)
	}
}

// ReadNTS reads a null-terminated string from the specified address with a
// maximum length. If no terminator is found within maxLength bytes the whole
// buffer is returned as a string.
func ReadNTS(m Memory, addr ProcessMemoryAddress, maxLength ProcessMemorySize) (string, error) {
	if maxLength == 0 {
		return "", nil
	}
	data, err := m.ReadMemory(addr, maxLength)
	if err != nil {
		return "", err
	}
	for i, b := range data {
		if b == 0 {
			return string(data[:i]), nil
		}
	}
	return string(data), nil
}
