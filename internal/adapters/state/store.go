// Package state implements the persisted resource-state and duration tables
// as two-column CSV files under the workspace internals directory.
package state

import (
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/driftbuild/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.StateStore. Every read hits storage fresh so that
// saves performed by other graph instances in the same workspace are
// observed.
type Store struct {
	statePath    string
	durationPath string
}

// New creates a Store for the given workspace layout.
func New(layout domain.Layout) *Store {
	return &Store{
		statePath:    layout.StatePath(),
		durationPath: layout.DurationPath(),
	}
}

// ResourceStates reads the resource-state table.
func (s *Store) ResourceStates() (map[string]string, error) {
	return readTable(s.statePath)
}

// Durations reads the task-duration table.
func (s *Store) Durations() (map[string]float64, error) {
	raw, err := readTable(s.durationPath)
	if err != nil {
		return nil, err
	}
	durations := make(map[string]float64, len(raw))
	for id, value := range raw {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "malformed duration entry"), "task", id)
		}
		durations[id] = seconds
	}
	return durations, nil
}

// StoredFingerprint reads the last persisted fingerprint of one resource.
func (s *Store) StoredFingerprint(name string) (string, error) {
	states, err := readTable(s.statePath)
	if err != nil {
		return "", err
	}
	return states[name], nil
}

// WriteResourceStates replaces the resource-state table in full.
func (s *Store) WriteResourceStates(states map[string]string) error {
	return writeTable(s.statePath, states)
}

// WriteDurations replaces the task-duration table in full.
func (s *Store) WriteDurations(durations map[string]float64) error {
	rows := make(map[string]string, len(durations))
	for id, seconds := range durations {
		rows[id] = strconv.FormatFloat(seconds, 'f', -1, 64)
	}
	return writeTable(s.durationPath, rows)
}

func readTable(path string) (map[string]string, error) {
	table := make(map[string]string)

	f, err := os.Open(path) //nolint:gosec // workspace-internal path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return table, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read state table"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only close

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "malformed state table"), "path", path)
	}
	for _, record := range records {
		table[record[0]] = record[1]
	}
	return table, nil
}

func writeTable(path string, table map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create state directory")
	}

	f, err := os.Create(path) //nolint:gosec // workspace-internal path
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write state table"), "path", path)
	}

	// Rows are sorted so repeated saves of the same state are byte-identical.
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	writer := csv.NewWriter(f)
	for _, k := range keys {
		if err := writer.Write([]string{k, table[k]}); err != nil {
			_ = f.Close()
			return zerr.With(zerr.Wrap(err, "failed to write state table"), "path", path)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = f.Close()
		return zerr.With(zerr.Wrap(err, "failed to write state table"), "path", path)
	}
	return f.Close()
}

var _ ports.StateStore = (*Store)(nil)
