package graph

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/driftbuild/drift/internal/core/ports"
	"github.com/driftbuild/drift/internal/ui/style"
	"go.trai.ch/zerr"
)

// WriteArchive snapshots the workspace into a new archive bundle: the
// workflow file, the internal state files unless excluded, and every filename
// declared by every task. The member list is deduplicated and sorted so
// identical declarations produce an identical bundle layout.
func (g *Graph) WriteArchive(excludeInternals bool) error {
	files := map[string]bool{
		filepath.Base(g.layout.ConfigPath()): true,
	}
	if !excludeInternals {
		files[g.layout.RelStatePath()] = true
		files[g.layout.RelDurationPath()] = true
		files[g.layout.RelLogPath()] = true
	}
	for _, t := range g.taskList {
		for _, name := range t.Filenames() {
			files[name] = true
		}
	}

	sorted := make([]string, 0, len(files))
	for name := range files {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	_, err := g.builder.Archiver.Write(sorted)
	return err
}

// RestoreArchive unpacks the named archive in place. The name is relative to
// the workspace root, as returned by AvailableArchives.
func (g *Graph) RestoreArchive(name string) error {
	return g.builder.Archiver.Restore(name)
}

// AvailableArchives lists the archive bundles relative to the workspace
// root, sorted.
func (g *Graph) AvailableArchives() ([]string, error) {
	return g.builder.Archiver.List()
}

// Clean removes the files created by the given tasks, or by every task when
// none are given. Cleaning the whole workflow also drops the resource-state
// table; include internals to delete the entire internal directory.
func (g *Graph) Clean(tasks []ports.Task, includeInternals bool) error {
	if tasks == nil {
		if err := os.Remove(g.layout.StatePath()); err != nil && !os.IsNotExist(err) {
			return zerr.Wrap(err, "failed to remove state table")
		}
	}
	if includeInternals {
		if err := os.RemoveAll(g.layout.InternalsDir()); err != nil {
			return zerr.Wrap(err, "failed to remove internals")
		}
		g.builder.Logger.Info("removed " + style.GreenText(g.layout.InternalsDir()))
	}
	if tasks == nil {
		tasks = g.taskList
	}
	for _, t := range tasks {
		if err := t.Clean(); err != nil {
			return err
		}
	}
	return nil
}
