package ports

// Resource is an addressable unit of state (file, directory) whose current
// fingerprint can be compared against a persisted baseline.
//
//go:generate go run go.uber.org/mock/mockgen -source=resource.go -destination=mocks/mock_resource.go -package=mocks
type Resource interface {
	Name() string

	// Fingerprint returns an opaque comparable value for the current state of
	// the resource, or the empty string when the resource does not exist.
	Fingerprint() (string, error)

	Exists() bool

	// Filenames returns the concrete filenames the resource name refers to,
	// with glob patterns expanded. A name with no matches maps to itself.
	Filenames() []string
}

// ResourceFactory instantiates resources by name, rooted at the workspace.
type ResourceFactory interface {
	New(name string) Resource
}
