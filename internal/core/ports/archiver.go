package ports

// Archiver snapshots and restores the workspace as compressed bundles under
// the archive directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=archiver.go -destination=mocks/mock_archiver.go -package=mocks
type Archiver interface {
	// Write bundles the given workspace-relative files into a new
	// timestamp-named archive and returns its workspace-relative path.
	Write(files []string) (string, error)

	// Restore unpacks the named archive in place, overwriting existing files.
	// The name is relative to the workspace root.
	Restore(name string) error

	// List returns the available archive names relative to the workspace
	// root, sorted lexicographically.
	List() ([]string, error)
}
