package graph_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArchive_RoundTrip(t *testing.T) {
	f := newFixture(t)
	f.writeFile(t, "drift.yaml", "tasks: []\n")
	g := f.build(t,
		echoTask("a.txt"),
		echoTask("b.txt", "a.txt"),
	)
	ctx := context.Background()
	require.NoError(t, g.RunAll(ctx, false))

	require.NoError(t, g.WriteArchive(false))

	archives, err := g.AvailableArchives()
	require.NoError(t, err)
	require.Len(t, archives, 1)

	// Wipe the outputs, then restore the snapshot.
	require.NoError(t, g.Clean(nil, false))
	assert.NoFileExists(t, filepath.Join(f.root, "a.txt"))

	require.NoError(t, g.RestoreArchive(archives[0]))
	assert.FileExists(t, filepath.Join(f.root, "a.txt"))
	assert.FileExists(t, filepath.Join(f.root, "b.txt"))
	assert.FileExists(t, filepath.Join(f.root, "drift.yaml"))
	assert.FileExists(t, g.Layout().StatePath())
}

func TestWriteArchive_ExcludeInternals(t *testing.T) {
	f := newFixture(t)
	f.writeFile(t, "drift.yaml", "tasks: []\n")
	g := f.build(t, echoTask("a.txt"))
	require.NoError(t, g.RunAll(context.Background(), false))

	require.NoError(t, g.WriteArchive(true))

	archives, err := g.AvailableArchives()
	require.NoError(t, err)
	require.Len(t, archives, 1)

	require.NoError(t, g.Clean(nil, false))
	require.NoError(t, g.RestoreArchive(archives[0]))

	assert.FileExists(t, filepath.Join(f.root, "a.txt"))
	// The state table was not part of the bundle.
	assert.NoFileExists(t, g.Layout().StatePath())
}

func TestClean_WholeWorkflowDropsStateTable(t *testing.T) {
	f := newFixture(t)
	g := f.build(t,
		echoTask("a.txt"),
		echoTask("b.txt", "a.txt"),
	)
	require.NoError(t, g.RunAll(context.Background(), false))
	require.FileExists(t, g.Layout().StatePath())

	require.NoError(t, g.Clean(nil, false))

	assert.NoFileExists(t, filepath.Join(f.root, "a.txt"))
	assert.NoFileExists(t, filepath.Join(f.root, "b.txt"))
	assert.NoFileExists(t, g.Layout().StatePath())
	// Durations survive a plain clean.
	assert.FileExists(t, g.Layout().DurationPath())
}

func TestClean_SelectedTasksKeepStateTable(t *testing.T) {
	f := newFixture(t)
	g := f.build(t,
		echoTask("a.txt"),
		echoTask("b.txt"),
	)
	require.NoError(t, g.RunAll(context.Background(), false))

	tasks, err := g.GetTasks("b.txt")
	require.NoError(t, err)
	require.NoError(t, g.Clean(tasks, false))

	assert.FileExists(t, filepath.Join(f.root, "a.txt"))
	assert.NoFileExists(t, filepath.Join(f.root, "b.txt"))
	assert.FileExists(t, g.Layout().StatePath())
}

func TestClean_IncludeInternalsRemovesDirectory(t *testing.T) {
	f := newFixture(t)
	g := f.build(t, echoTask("a.txt"))
	require.NoError(t, g.RunAll(context.Background(), false))

	require.NoError(t, g.Clean(nil, true))

	_, err := os.Stat(g.Layout().InternalsDir())
	assert.True(t, os.IsNotExist(err))
}
