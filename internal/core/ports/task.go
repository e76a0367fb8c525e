// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"time"

	"github.com/driftbuild/drift/internal/core/domain"
)

// Task is a named unit of work in the graph. The graph only ever calls this
// interface; concrete run behavior (shell commands, dry-run simulation,
// cleanup) lives in adapters.
//
//go:generate go run go.uber.org/mock/mockgen -source=task.go -destination=mocks/mock_task.go -package=mocks
type Task interface {
	// ID is the canonical task identifier, the creates value.
	ID() string
	Creates() string
	Alias() string
	CreatesList() []string
	DependsList() []string

	// SetDepends replaces the dependency identifiers after alias
	// dereferencing. The original declaration from Spec is unaffected.
	SetDepends(depends []string)

	HasTag(tag string) bool
	IsPseudotask() bool

	// Spec returns the original declaration record, retained verbatim so the
	// task can be reconstructed into a fresh graph.
	Spec() domain.TaskSpec

	// Upstream and Downstream are the graph-relative neighbor links,
	// maintained by the resolver during dependency linking.
	Upstream() []Task
	Downstream() []Task
	AddUpstream(t Task)
	AddDownstream(t Task)

	// AttachResources hands the task the resources instantiated for its
	// creates and depends declarations.
	AttachResources(creates, depends []Resource)

	// InSync reports whether the task's resources match their last persisted
	// fingerprints.
	InSync() (bool, error)

	Run(ctx context.Context) error
	MockRun()
	TimedRun(ctx context.Context) (time.Duration, error)
	Clean() error

	// Filenames returns every filename the task declares, inputs and outputs,
	// with glob patterns expanded.
	Filenames() []string
}

// TaskFactory instantiates tasks from declaration records.
type TaskFactory interface {
	New(spec domain.TaskSpec) Task
}
