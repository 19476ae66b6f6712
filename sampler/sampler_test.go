package sampler

import (
	"errors"
	"testing"

	"walkoflife/memsnap"
	"walkoflife/offsets"
	"walkoflife/process"
)

const imageBase = process.ProcessMemoryAddress(0x400000)

func testTable() offsets.Table {
	return offsets.Table{
		PointerWidth: 4,
		Level:        offsets.LevelProbe{Root: 0x100, MaxLen: 16, Name: "ly_10"},
		Countdown: offsets.AddressSpec{
			Value: offsets.Countdown,
			Root:  0x10,
			Steps: []offsets.Step{{Width: 4, Offset: 8}, {Width: 4, Offset: 84}},
			Kind:  offsets.KindInt32,
			Min:   0,
			Max:   3600,
		},
		Timer: offsets.AddressSpec{
			Value: offsets.Timer,
			Root:  0x20,
			Steps: []offsets.Step{{Width: 4, Offset: 84}},
			Kind:  offsets.KindUint32,
			Min:   0,
			Max:   14400000,
		},
	}
}

// testImage builds an image where the countdown decodes to 42 and the timer
// to 5231 while level ly_10 is loaded.
func testImage(t *testing.T) *memsnap.Snapshot {
	t.Helper()
	img := memsnap.NewZeroed(imageBase, 0x10000)
	img.PutNTS(imageBase+0x100, "ly_10")

	// countdown: base+0x10 -> 0x402000, +8 -> 0x403000, terminal +84
	img.PutUINT32(imageBase+0x10, 0x402000)
	img.PutUINT32(0x402000+8, 0x403000)
	img.PutINT32(0x403000+84, 42)

	// timer: base+0x20 -> 0x404000, terminal +84
	img.PutUINT32(imageBase+0x20, 0x404000)
	img.PutUINT32(0x404000+84, 5231)
	return img
}

func TestSample(t *testing.T) {
	s := New(testTable())
	smp, ok, err := s.Sample(testImage(t), imageBase)
	if err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	if !ok {
		t.Fatal("Sample() skipped a valid image")
	}
	if smp.Countdown != 42 {
		t.Errorf("Countdown = %d, want 42", smp.Countdown)
	}
	if smp.Timer != 5231 {
		t.Errorf("Timer = %d, want 5231", smp.Timer)
	}
	if smp.CapturedAt.IsZero() {
		t.Error("CapturedAt not set")
	}
}

func TestSampleIdempotent(t *testing.T) {
	s := New(testTable())
	img := testImage(t)

	a, ok1, err1 := s.Sample(img, imageBase)
	b, ok2, err2 := s.Sample(img, imageBase)
	if err1 != nil || err2 != nil || !ok1 || !ok2 {
		t.Fatalf("Sample() twice: ok=%v/%v err=%v/%v", ok1, ok2, err1, err2)
	}
	if a.Countdown != b.Countdown || a.Timer != b.Timer {
		t.Errorf("unchanged image produced different samples: %+v vs %+v", a, b)
	}
}

func TestSampleSkipsWrongLevel(t *testing.T) {
	img := testImage(t)
	img.PutNTS(imageBase+0x100, "menu")

	_, ok, err := New(testTable()).Sample(img, imageBase)
	if err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	if ok {
		t.Error("Sample() emitted outside the tracked level")
	}
}

func TestSampleLevelGuardCaseInsensitive(t *testing.T) {
	img := testImage(t)
	img.PutNTS(imageBase+0x100, "LY_10")

	_, ok, err := New(testTable()).Sample(img, imageBase)
	if err != nil || !ok {
		t.Errorf("Sample() ok=%v err=%v, want case-insensitive level match", ok, err)
	}
}

func TestSampleSkipsBrokenChain(t *testing.T) {
	img := testImage(t)
	img.PutUINT32(imageBase+0x10, 0) // countdown chain dangles

	_, ok, err := New(testTable()).Sample(img, imageBase)
	if err != nil {
		t.Fatalf("Sample() error: %v, broken chain must be a skip", err)
	}
	if ok {
		t.Error("Sample() emitted despite a broken chain")
	}
}

func TestSampleSkipsNegativeCountdown(t *testing.T) {
	img := testImage(t)
	img.PutINT32(0x403000+84, -1)

	_, ok, err := New(testTable()).Sample(img, imageBase)
	if err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	if ok {
		t.Error("Sample() emitted a negative countdown")
	}
}

func TestSampleSkipsTimerOverBound(t *testing.T) {
	img := testImage(t)
	img.PutUINT32(0x404000+84, 14400001)

	_, ok, err := New(testTable()).Sample(img, imageBase)
	if err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	if ok {
		t.Error("Sample() emitted a timer past the sanity bound")
	}
}

func TestSamplePropagatesReadFault(t *testing.T) {
	img := testImage(t)
	img.SetFaulting(true)

	_, ok, err := New(testTable()).Sample(img, imageBase)
	if ok {
		t.Error("Sample() emitted from a faulting image")
	}
	if !errors.Is(err, process.ErrReadFault) {
		t.Errorf("Sample() error = %v, want ErrReadFault", err)
	}
}

func TestSampleNoLevelGuard(t *testing.T) {
	table := testTable()
	table.Level.Name = ""
	img := testImage(t)
	img.PutNTS(imageBase+0x100, "whatever")

	_, ok, err := New(table).Sample(img, imageBase)
	if err != nil || !ok {
		t.Errorf("Sample() ok=%v err=%v, want guard disabled", ok, err)
	}
}
