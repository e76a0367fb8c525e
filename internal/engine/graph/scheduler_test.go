package graph_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAll_ExecutesAndPersists(t *testing.T) {
	f := newFixture(t)
	g := f.build(t,
		echoTask("a.txt"),
		echoTask("b.txt", "a.txt"),
	)

	require.NoError(t, g.RunAll(context.Background(), false))

	assert.FileExists(t, filepath.Join(f.root, "a.txt"))
	assert.FileExists(t, filepath.Join(f.root, "b.txt"))

	states, err := f.store.ResourceStates()
	require.NoError(t, err)
	assert.NotEmpty(t, states["a.txt"])
	assert.NotEmpty(t, states["b.txt"])

	durations, err := f.store.Durations()
	require.NoError(t, err)
	assert.Contains(t, durations, "a.txt")
	assert.Contains(t, durations, "b.txt")

	outOfSync, err := g.OutOfSyncTasks()
	require.NoError(t, err)
	assert.Empty(t, outOfSync)
}

func TestOutOfSyncTasks_InitiallyAll(t *testing.T) {
	f := newFixture(t)
	g := f.build(t,
		echoTask("a.txt"),
		echoTask("b.txt", "a.txt"),
		pseudoTask("all", "b.txt"),
	)

	outOfSync, err := g.OutOfSyncTasks()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, taskIDs(outOfSync))
}

func TestMockRun_PersistsNothing(t *testing.T) {
	f := newFixture(t)
	g := f.build(t, echoTask("a.txt"))

	require.NoError(t, g.RunAll(context.Background(), true))

	assert.NoFileExists(t, filepath.Join(f.root, "a.txt"))
	assert.NoFileExists(t, g.Layout().StatePath())
}

// A downstream task brought back in sync by its ancestor's rerun is skipped:
// sync state is re-checked at visit time, not taken from the initial snapshot.
func TestRunAllOutOfSync_RechecksAtVisitTime(t *testing.T) {
	f := newFixture(t)
	g := f.build(t,
		echoTask("a.txt"),
		domain.TaskSpec{
			Creates: "b.txt",
			Depends: domain.StringList{"a.txt"},
			Command: domain.StringList{"echo ran >> b.txt"},
		},
	)
	ctx := context.Background()

	require.NoError(t, g.RunAllOutOfSync(ctx, false))
	content, err := os.ReadFile(filepath.Join(f.root, "b.txt"))
	require.NoError(t, err)
	require.Equal(t, "ran\n", string(content))

	// Corrupt the upstream output. Both tasks are now out of sync, but the
	// rerun of a.txt reproduces the recorded content, so b.txt is skipped.
	f.writeFile(t, "a.txt", "corrupted")
	require.NoError(t, g.RunAllOutOfSync(ctx, false))

	content, err = os.ReadFile(filepath.Join(f.root, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ran\n", string(content))

	outOfSync, err := g.OutOfSyncTasks()
	require.NoError(t, err)
	assert.Empty(t, outOfSync)
}

func TestRunAllOutOfSync_NoopWhenEverythingInSync(t *testing.T) {
	f := newFixture(t)
	g := f.build(t, domain.TaskSpec{
		Creates: "a.txt",
		Command: domain.StringList{"echo ran >> a.txt"},
	})
	ctx := context.Background()

	require.NoError(t, g.RunAllOutOfSync(ctx, false))
	require.NoError(t, g.RunAllOutOfSync(ctx, false))

	content, err := os.ReadFile(filepath.Join(f.root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ran\n", string(content))
}

func TestRunAll_FailureClearsFingerprintAndKeepsExitCode(t *testing.T) {
	f := newFixture(t)
	g := f.build(t,
		echoTask("a.txt"),
		domain.TaskSpec{
			Creates: "broken.txt",
			Depends: domain.StringList{"a.txt"},
			Command: domain.StringList{"touch broken.txt", "exit 3"},
		},
		echoTask("after.txt", "broken.txt"),
	)

	err := g.RunAll(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, 3, domain.ExitCode(err))

	// Tasks downstream of the failure never ran.
	assert.NoFileExists(t, filepath.Join(f.root, "after.txt"))

	// The in-flight task's fingerprint is cleared, so it stays out of sync.
	states, err := f.store.ResourceStates()
	require.NoError(t, err)
	assert.Equal(t, "", states["broken.txt"])
	assert.NotEmpty(t, states["a.txt"])

	outOfSync, err := g.OutOfSyncTasks()
	require.NoError(t, err)
	assert.Contains(t, taskIDs(outOfSync), "broken.txt")
}

func TestRun_CanceledContextAbortsBeforeExecuting(t *testing.T) {
	f := newFixture(t)
	g := f.build(t, echoTask("a.txt"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.RunAll(ctx, false)
	require.Error(t, err)

	assert.NoFileExists(t, filepath.Join(f.root, "a.txt"))
	states, serr := f.store.ResourceStates()
	require.NoError(t, serr)
	assert.Equal(t, "", states["a.txt"])
}

// Saving from a subgraph overlays only the subgraph's resources; entries
// belonging to other tasks survive untouched.
func TestSaveState_SubgraphPreservesForeignEntries(t *testing.T) {
	f := newFixture(t)
	g := f.build(t,
		echoTask("a.txt"),
		echoTask("b.txt"),
		echoTask("c.txt"),
	)
	require.NoError(t, g.RunAll(context.Background(), false))

	before, err := f.store.ResourceStates()
	require.NoError(t, err)
	before["ghost.txt"] = "deadbeef"
	require.NoError(t, f.store.WriteResourceStates(before))

	sub, err := g.SubgraphNeededFor([]string{"a.txt"})
	require.NoError(t, err)
	require.NoError(t, sub.SaveState(nil))

	after, err := f.store.ResourceStates()
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", after["ghost.txt"])
	assert.Equal(t, before["b.txt"], after["b.txt"])
	assert.Equal(t, before["c.txt"], after["c.txt"])
	assert.NotEmpty(t, after["a.txt"])
}
