package process

import "errors"

var (
	// ErrNotFound is returned when no process matches the target name.
	ErrNotFound = errors.New("target process not found")

	// ErrAmbiguousMatch is returned when more than one process matches the
	// target name. Policy: attach to none rather than guess.
	ErrAmbiguousMatch = errors.New("ambiguous target process")

	// ErrPermissionDenied is returned when the caller lacks the rights to
	// read the target's memory (CAP_SYS_PTRACE / yama ptrace_scope).
	ErrPermissionDenied = errors.New("permission denied reading target process")

	// ErrReadFault is returned when a memory range is unmapped, inaccessible,
	// or only partially readable at the moment of the call. Routine while the
	// target's layout changes; it must never crash the caller.
	ErrReadFault = errors.New("memory read fault")

	// ErrProcessNotOpen is returned when an operation requiring an open
	// process is attempted before Open or after Close.
	ErrProcessNotOpen = errors.New("process not open")
)
