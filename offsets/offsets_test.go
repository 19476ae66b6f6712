package offsets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Table)
	}{
		{"bad pointer width", func(tb *Table) { tb.PointerWidth = 2 }},
		{"no steps", func(tb *Table) { tb.Countdown.Steps = nil }},
		{"bad step width", func(tb *Table) { tb.Timer.Steps[0].Width = 3 }},
		{"unknown kind", func(tb *Table) { tb.Countdown.Kind = "float64" }},
		{"inverted bounds", func(tb *Table) { tb.Timer.Min = 10; tb.Timer.Max = 1 }},
		{"level probe without length", func(tb *Table) { tb.Level.MaxLen = 0 }},
		{"swapped value tags", func(tb *Table) { tb.Countdown.Value = Timer }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := Default()
			tt.mutate(&tb)
			if err := tb.Validate(); err == nil {
				t.Error("Validate() accepted a broken table")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	const table = `{
		"pointer_width": 4,
		"level": {"root": 1049471, "max_len": 16, "name": "ly_10"},
		"countdown": {
			"value": "countdown",
			"root": 16,
			"steps": [{"width": 4, "offset": 8}, {"width": 4, "offset": 84}],
			"kind": "int32",
			"min": 0,
			"max": 3600
		},
		"timer": {
			"value": "timer",
			"root": 32,
			"steps": [{"width": 4, "offset": 84}],
			"kind": "uint32",
			"min": 0,
			"max": 14400000
		}
	}`

	path := filepath.Join(t.TempDir(), "offsets.json")
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	tb, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tb.Countdown.Root != 16 || len(tb.Countdown.Steps) != 2 {
		t.Errorf("Load() countdown spec = %+v", tb.Countdown)
	}
	if tb.Timer.Kind != KindUint32 {
		t.Errorf("Load() timer kind = %q, want uint32", tb.Timer.Kind)
	}
	if tb.Level.Name != "ly_10" {
		t.Errorf("Load() level name = %q", tb.Level.Name)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offsets.json")
	if err := os.WriteFile(path, []byte(`{"pointer_width": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted an invalid table")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load() accepted a missing file")
	}
}
