//go:build !tinygo

package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// maxFileSize caps config and scenario files
const maxFileSize = 1 << 20

// LoadConfig parses JSON tuning, fills unset fields from Default and
// validates the result
func LoadConfig(jsonData []byte) (*Tuning, error) {
	var t Tuning
	if err := json.Unmarshal(jsonData, &t); err != nil {
		return nil, errors.Wrap(err, "parse tuning")
	}

	applyDefaults(&t)

	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid tuning")
	}
	return &t, nil
}

// Load reads a .json tuning file. An empty path returns Default.
func Load(path string) (*Tuning, error) {
	if path == "" {
		return Default(), nil
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		return nil, errors.Errorf("tuning file %s: expected .json, got %q", path, ext)
	}
	data, err := readCapped(path)
	if err != nil {
		return nil, err
	}
	t, err := LoadConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return t, nil
}

func readCapped(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if len(data) > maxFileSize {
		return nil, errors.Errorf("%s is larger than %d bytes", path, maxFileSize)
	}
	return data, nil
}
