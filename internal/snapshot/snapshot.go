package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hcsolakoglu/country-list-updated-weekly/internal/countries"
)

// WriteError is a filesystem failure while atomically replacing the
// snapshot file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write snapshot %s: %s", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Load reads the persisted snapshot, one JSON object per line. A missing
// file is not an error: it returns nil records, which is the first-run
// case.
func Load(path string) ([]countries.Record, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	defer f.Close()

	var records []countries.Record

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var record countries.Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("load snapshot %s: line %d: %w", path, line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}

	return records, nil
}

// Write serializes the records as JSONL to a temporary file in the
// target directory and renames it over the target, so readers never
// observe a partially written snapshot. Non-ASCII text is written
// literally.
func Write(path string, records []countries.Record) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".countries-*.jsonl")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetEscapeHTML(false)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			tmp.Close()
			return &WriteError{Path: path, Err: err}
		}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}
