//go:build linux

package process_linux

import (
	"errors"
	"testing"

	"walkoflife/process"
)

func TestOpenTargetNotFound(t *testing.T) {
	_, err := OpenTarget("walkoflife-no-such-process-7f3a")
	if err == nil {
		t.Fatal("OpenTarget() expected error for absent process")
	}
	if !errors.Is(err, process.ErrNotFound) {
		t.Errorf("OpenTarget() error = %v, want ErrNotFound", err)
	}
}

func TestListByNameEmpty(t *testing.T) {
	if _, err := ListByName(""); err == nil {
		t.Error("ListByName(\"\") expected error")
	}
}

func TestListByNameSkipsSelf(t *testing.T) {
	// The test binary's own comm would otherwise always match.
	matches, err := ListByName("walkoflife.test")
	if err != nil {
		t.Fatalf("ListByName() error: %v", err)
	}
	for _, m := range matches {
		if m.PID == 0 {
			t.Errorf("ListByName() returned zero pid: %+v", m)
		}
	}
}
