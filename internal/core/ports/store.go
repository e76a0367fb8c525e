package ports

// StateStore persists the resource-state and task-duration tables. Reads are
// always fresh from storage, never cached: a concurrently-saved subgraph run
// may have updated the tables since this graph loaded them.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// ResourceStates reads the resource-state table. A missing table yields an
	// empty map, not an error.
	ResourceStates() (map[string]string, error)

	// Durations reads the task-duration table, parsed as floating point
	// seconds. A missing table yields an empty map.
	Durations() (map[string]float64, error)

	// StoredFingerprint reads the last persisted fingerprint for a single
	// resource, empty when none is recorded.
	StoredFingerprint(name string) (string, error)

	// WriteResourceStates replaces the resource-state table in full. Callers
	// are expected to have merged the current on-disk table first.
	WriteResourceStates(states map[string]string) error

	// WriteDurations replaces the task-duration table in full.
	WriteDurations(durations map[string]float64) error
}
