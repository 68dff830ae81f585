package config

import (
	"fmt"
	"os"
	"strings"
)

// LoadPersona reads the channel identity file. A missing file is not an
// error; the assistant simply runs without a persona preamble.
func LoadPersona(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading persona file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
