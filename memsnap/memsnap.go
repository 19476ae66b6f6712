// Package memsnap holds a snapshot of one contiguous address range and
// serves reads against it through the same interface as a live process. It
// exists so pointer-chain and sampling logic can be exercised against
// synthetic memory images.
package memsnap

import (
	"encoding/binary"
	"fmt"
	"sync"

	"walkoflife/process"
)

// Snapshot is an in-memory address range. Reads outside the range, or while
// faulting is forced, fail exactly like reads from a vanished process.
type Snapshot struct {
	base process.ProcessMemoryAddress
	data []byte

	mu       sync.Mutex
	faulting bool
}

var _ process.Memory = (*Snapshot)(nil)

// New creates a snapshot covering [base, base+len(data)).
func New(base process.ProcessMemoryAddress, data []byte) *Snapshot {
	return &Snapshot{base: base, data: data}
}

// NewZeroed creates a snapshot of size zero bytes at base, to be filled in
// with the Put helpers.
func NewZeroed(base process.ProcessMemoryAddress, size process.ProcessMemorySize) *Snapshot {
	return &Snapshot{base: base, data: make([]byte, size)}
}

// SetFaulting makes every subsequent read fail with a read fault, simulating
// the target process exiting under us.
func (s *Snapshot) SetFaulting(faulting bool) {
	s.mu.Lock()
	s.faulting = faulting
	s.mu.Unlock()
}

// ReadMemory reads size bytes at addr from the snapshot.
func (s *Snapshot) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	s.mu.Lock()
	faulting := s.faulting
	s.mu.Unlock()

	if faulting {
		return nil, fmt.Errorf("read %s: target gone: %w", addr, process.ErrReadFault)
	}
	if size == 0 {
		return nil, nil
	}

	end := uint64(addr) + uint64(size)
	if addr < s.base || end > uint64(s.base)+uint64(len(s.data)) {
		return nil, fmt.Errorf("read %s (%d bytes): out of range: %w", addr, size, process.ErrReadFault)
	}

	offset := uint64(addr - s.base)
	out := make([]byte, size)
	copy(out, s.data[offset:end-uint64(s.base)])
	return out, nil
}

// PutUINT32 writes v into the image at addr. Panics on out-of-range
// addresses; images are built by tests that know their own layout.
func (s *Snapshot) PutUINT32(addr process.ProcessMemoryAddress, v uint32) {
	binary.LittleEndian.PutUint32(s.slot(addr, 4), v)
}

// PutINT32 writes v into the image at addr.
func (s *Snapshot) PutINT32(addr process.ProcessMemoryAddress, v int32) {
	s.PutUINT32(addr, uint32(v))
}

// PutUINT64 writes v into the image at addr.
func (s *Snapshot) PutUINT64(addr process.ProcessMemoryAddress, v uint64) {
	binary.LittleEndian.PutUint64(s.slot(addr, 8), v)
}

// PutNTS writes str plus a null terminator into the image at addr.
func (s *Snapshot) PutNTS(addr process.ProcessMemoryAddress, str string) {
	slot := s.slot(addr, process.ProcessMemorySize(len(str)+1))
	copy(slot, str)
	slot[len(str)] = 0
}

func (s *Snapshot) slot(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) []byte {
	end := uint64(addr) + uint64(size)
	if addr < s.base || end > uint64(s.base)+uint64(len(s.data)) {
		panic(fmt.Sprintf("memsnap: put at %s (%d bytes) outside image", addr, size))
	}
	offset := uint64(addr - s.base)
	return s.data[offset : end-uint64(s.base)]
}
