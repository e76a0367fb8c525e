package shell

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/driftbuild/drift/internal/core/ports"
	"github.com/driftbuild/drift/internal/ui/style"
	"go.trai.ch/zerr"
)

// TaskFactory builds shell-backed tasks for one workspace.
type TaskFactory struct {
	executor ports.Executor
	logger   ports.Logger
	store    ports.StateStore
	root     string
}

// NewTaskFactory creates a TaskFactory rooted at the workspace directory.
func NewTaskFactory(executor ports.Executor, logger ports.Logger, store ports.StateStore, root string) *TaskFactory {
	return &TaskFactory{
		executor: executor,
		logger:   logger,
		store:    store,
		root:     root,
	}
}

// New instantiates a task from its declaration record.
func (f *TaskFactory) New(spec domain.TaskSpec) ports.Task {
	return &Task{
		spec:     spec,
		depends:  spec.DependsList(),
		executor: f.executor,
		logger:   f.logger,
		store:    f.store,
		root:     f.root,
	}
}

// Task implements ports.Task by running declared shell commands. A task
// without a command is a pseudotask, a pure grouping node.
type Task struct {
	spec    domain.TaskSpec
	depends []string

	executor ports.Executor
	logger   ports.Logger
	store    ports.StateStore
	root     string

	upstream   []ports.Task
	downstream []ports.Task

	createsResources []ports.Resource
	dependsResources []ports.Resource
}

// ID returns the canonical task identifier, the creates value.
func (t *Task) ID() string { return t.spec.Creates }

// Creates returns the declared output identifier.
func (t *Task) Creates() string { return t.spec.Creates }

// Alias returns the optional human-readable identifier.
func (t *Task) Alias() string { return t.spec.Alias }

// CreatesList returns the declared output identifiers.
func (t *Task) CreatesList() []string {
	return []string{t.spec.Creates}
}

// DependsList returns the current dependency identifiers, canonical once the
// resolver has dereferenced aliases.
func (t *Task) DependsList() []string {
	if len(t.depends) == 0 {
		return nil
	}
	out := make([]string, len(t.depends))
	copy(out, t.depends)
	return out
}

// SetDepends replaces the dependency identifiers after alias dereferencing.
func (t *Task) SetDepends(depends []string) {
	t.depends = depends
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool { return t.spec.HasTag(tag) }

// IsPseudotask reports whether the task is a grouping node with no command.
func (t *Task) IsPseudotask() bool { return t.spec.IsPseudotask() }

// Spec returns the original declaration record.
func (t *Task) Spec() domain.TaskSpec { return t.spec }

// Upstream returns the tasks this task depends on, in link order.
func (t *Task) Upstream() []ports.Task { return t.upstream }

// Downstream returns the tasks depending on this task, in link order.
func (t *Task) Downstream() []ports.Task { return t.downstream }

// AddUpstream links an upstream neighbor, ignoring duplicates.
func (t *Task) AddUpstream(other ports.Task) {
	if !containsTask(t.upstream, other) {
		t.upstream = append(t.upstream, other)
	}
}

// AddDownstream links a downstream neighbor, ignoring duplicates.
func (t *Task) AddDownstream(other ports.Task) {
	if !containsTask(t.downstream, other) {
		t.downstream = append(t.downstream, other)
	}
}

// AttachResources hands the task its instantiated resources.
func (t *Task) AttachResources(creates, depends []ports.Resource) {
	t.createsResources = creates
	t.dependsResources = depends
}

// InSync reports whether every attached resource matches its last persisted
// fingerprint. Pseudotasks are always in sync; a missing output is never in
// sync regardless of persisted state.
func (t *Task) InSync() (bool, error) {
	if t.IsPseudotask() {
		return true, nil
	}
	for _, r := range t.createsResources {
		if !r.Exists() {
			return false, nil
		}
	}
	for _, r := range t.allResources() {
		current, err := r.Fingerprint()
		if err != nil {
			return false, err
		}
		stored, err := t.store.StoredFingerprint(r.Name())
		if err != nil {
			return false, err
		}
		if current != stored || current == "" {
			return false, nil
		}
	}
	return true, nil
}

// Run executes the declared commands in order.
func (t *Task) Run(ctx context.Context) error {
	for _, command := range t.spec.Command {
		t.logger.Info(style.BoldText(command))
		if err := t.executor.Execute(ctx, t.root, command); err != nil {
			return zerr.With(err, "task", t.ID())
		}
	}
	return nil
}

// MockRun reports what would run without executing anything.
func (t *Task) MockRun() {
	for _, command := range t.spec.Command {
		t.logger.Info("|-> " + command)
	}
}

// TimedRun executes the task and returns the observed wall-clock duration.
func (t *Task) TimedRun(ctx context.Context) (time.Duration, error) {
	t.logger.Info(style.BlueText("running " + t.ID()))
	start := time.Now()
	if err := t.Run(ctx); err != nil {
		return 0, err
	}
	elapsed := time.Since(start)
	t.logger.Info(style.BlueText(t.ID() + " finished in " + domain.FormatDuration(elapsed.Seconds())))
	return elapsed, nil
}

// Clean removes the files created by the task. Pseudotasks own no files.
func (t *Task) Clean() error {
	if t.IsPseudotask() {
		return nil
	}
	for _, r := range t.createsResources {
		for _, name := range r.Filenames() {
			path := filepath.Join(t.root, name)
			if err := os.RemoveAll(path); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to remove file"), "path", path)
			}
			t.logger.Info("removed " + style.GreenText(name))
		}
	}
	return nil
}

// Filenames returns every filename the task declares, inputs and outputs,
// glob-expanded and deduplicated.
func (t *Task) Filenames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range t.allResources() {
		for _, name := range r.Filenames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func (t *Task) allResources() []ports.Resource {
	all := make([]ports.Resource, 0, len(t.createsResources)+len(t.dependsResources))
	all = append(all, t.createsResources...)
	return append(all, t.dependsResources...)
}

func containsTask(tasks []ports.Task, target ports.Task) bool {
	for _, t := range tasks {
		if t == target {
			return true
		}
	}
	return false
}

var (
	_ ports.Task        = (*Task)(nil)
	_ ports.TaskFactory = (*TaskFactory)(nil)
)
