package offsets

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a complete table from a JSON file and validates it. The file
// replaces the built-in defaults wholesale; partial overrides would make it
// ambiguous which build the table describes.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("offsets table: %w", err)
	}

	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("offsets table %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Table{}, fmt.Errorf("offsets table %s: %w", path, err)
	}
	return t, nil
}
