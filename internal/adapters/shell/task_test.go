package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftbuild/drift/internal/adapters/fs"
	"github.com/driftbuild/drift/internal/adapters/shell"
	"github.com/driftbuild/drift/internal/adapters/state"
	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/driftbuild/drift/internal/core/ports"
	"github.com/driftbuild/drift/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type taskFixture struct {
	root    string
	store   *state.Store
	factory *shell.TaskFactory
	files   *fs.Factory
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	root := t.TempDir()
	layout := domain.NewLayout(filepath.Join(root, "drift.yaml"))
	require.NoError(t, layout.Ensure())

	logger := newQuietLogger(t)
	store := state.New(layout)
	return &taskFixture{
		root:    root,
		store:   store,
		factory: shell.NewTaskFactory(shell.NewExecutor(logger), logger, store, root),
		files:   fs.NewFactory(root),
	}
}

// newTask builds a task and attaches its file resources the way the graph
// resolver would.
func (f *taskFixture) newTask(spec domain.TaskSpec) ports.Task {
	task := f.factory.New(spec)

	var creates []ports.Resource
	if !spec.IsPseudotask() {
		creates = []ports.Resource{f.files.New(spec.Creates)}
	}
	depends := make([]ports.Resource, 0, len(spec.Depends))
	for _, dep := range spec.Depends {
		depends = append(depends, f.files.New(dep))
	}
	task.AttachResources(creates, depends)
	return task
}

func TestTask_RunCreatesOutput(t *testing.T) {
	f := newTaskFixture(t)
	task := f.newTask(domain.TaskSpec{
		Creates: "out.txt",
		Command: domain.StringList{"echo hello > out.txt"},
	})

	require.NoError(t, task.Run(context.Background()))
	assert.FileExists(t, filepath.Join(f.root, "out.txt"))
}

func TestTask_RunStopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	logger := newQuietLogger(t)

	factory := shell.NewTaskFactory(executor, logger, nil, t.TempDir())
	task := factory.New(domain.TaskSpec{
		Creates: "out.txt",
		Command: domain.StringList{"first", "second"},
	})

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), "first").Return(zerr.New("command failed"))

	err := task.Run(context.Background())
	require.Error(t, err)
}

func TestTask_InSyncLifecycle(t *testing.T) {
	f := newTaskFixture(t)
	task := f.newTask(domain.TaskSpec{
		Creates: "out.txt",
		Command: domain.StringList{"echo hello > out.txt"},
	})

	// Never run: output missing.
	inSync, err := task.InSync()
	require.NoError(t, err)
	assert.False(t, inSync)

	require.NoError(t, task.Run(context.Background()))

	// Output exists but no fingerprint persisted yet.
	inSync, err = task.InSync()
	require.NoError(t, err)
	assert.False(t, inSync)

	// Persist the current fingerprint, as a graph save would.
	fp, err := f.files.New("out.txt").Fingerprint()
	require.NoError(t, err)
	require.NoError(t, f.store.WriteResourceStates(map[string]string{"out.txt": fp}))

	inSync, err = task.InSync()
	require.NoError(t, err)
	assert.True(t, inSync)

	// Output drifts.
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "out.txt"), []byte("changed"), 0o600))
	inSync, err = task.InSync()
	require.NoError(t, err)
	assert.False(t, inSync)
}

func TestTask_PseudotaskAlwaysInSync(t *testing.T) {
	f := newTaskFixture(t)
	task := f.newTask(domain.TaskSpec{Creates: "all", Depends: domain.StringList{"out.txt"}})

	require.True(t, task.IsPseudotask())
	inSync, err := task.InSync()
	require.NoError(t, err)
	assert.True(t, inSync)
}

func TestTask_TimedRunReportsDuration(t *testing.T) {
	f := newTaskFixture(t)
	task := f.newTask(domain.TaskSpec{
		Creates: "out.txt",
		Command: domain.StringList{"echo hi > out.txt"},
	})

	duration, err := task.TimedRun(context.Background())
	require.NoError(t, err)
	assert.Greater(t, duration.Seconds(), 0.0)
}

func TestTask_Clean(t *testing.T) {
	f := newTaskFixture(t)
	task := f.newTask(domain.TaskSpec{
		Creates: "out.txt",
		Command: domain.StringList{"echo hi > out.txt"},
	})

	require.NoError(t, task.Run(context.Background()))
	require.NoError(t, task.Clean())
	assert.NoFileExists(t, filepath.Join(f.root, "out.txt"))
}

func TestTask_Filenames(t *testing.T) {
	f := newTaskFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "input.txt"), []byte("in"), 0o600))

	task := f.newTask(domain.TaskSpec{
		Creates: "out.txt",
		Depends: domain.StringList{"input.txt"},
		Command: domain.StringList{"cp input.txt out.txt"},
	})

	assert.Equal(t, []string{"input.txt", "out.txt"}, task.Filenames())
}

func TestTask_LinksDeduplicate(t *testing.T) {
	f := newTaskFixture(t)
	a := f.newTask(domain.TaskSpec{Creates: "a", Command: domain.StringList{"true"}})
	b := f.newTask(domain.TaskSpec{Creates: "b", Command: domain.StringList{"true"}})

	b.AddUpstream(a)
	b.AddUpstream(a)
	a.AddDownstream(b)
	a.AddDownstream(b)

	assert.Len(t, b.Upstream(), 1)
	assert.Len(t, a.Downstream(), 1)
}
