package graph

import (
	"context"

	"github.com/driftbuild/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

// OutOfSyncTasks returns the non-pseudotask tasks whose resources no longer
// match their persisted fingerprints, in downstream traversal order. This is
// the default work set for incremental runs.
func (g *Graph) OutOfSyncTasks() ([]ports.Task, error) {
	var outOfSync []ports.Task
	for _, t := range g.IterGraph(nil, Downstream) {
		if t.IsPseudotask() {
			continue
		}
		inSync, err := t.InSync()
		if err != nil {
			return nil, err
		}
		if !inSync {
			outOfSync = append(outOfSync, t)
		}
	}
	return outOfSync, nil
}

// RunAll executes every task in the workflow regardless of sync state.
func (g *Graph) RunAll(ctx context.Context, mock bool) error {
	starting := g.IterGraph(nil, Downstream)
	shouldRun := func(t ports.Task) (bool, error) {
		return !t.IsPseudotask(), nil
	}
	return g.run(ctx, starting, shouldRun, mock)
}

// RunAllOutOfSync executes the downstream closure of the currently
// out-of-sync tasks. Sync state is re-checked as each task is reached, not
// assumed from the initial snapshot: an ancestor's run can bring a task back
// in sync.
func (g *Graph) RunAllOutOfSync(ctx context.Context, mock bool) error {
	starting, err := g.OutOfSyncTasks()
	if err != nil {
		return err
	}
	shouldRun := func(t ports.Task) (bool, error) {
		if t.IsPseudotask() {
			return false, nil
		}
		inSync, err := t.InSync()
		if err != nil {
			return false, err
		}
		return !inSync, nil
	}
	return g.run(ctx, starting, shouldRun, mock)
}

// run drives one scheduling pass. On a task failure or cancellation the
// state is flushed immediately with the in-flight task's fingerprint cleared,
// so a failed task is never mistaken for up to date on the next run. Mock
// runs never persist state.
func (g *Graph) run(ctx context.Context, starting []ports.Task, shouldRun func(ports.Task) (bool, error), mock bool) error {
	g.builder.Logger.Info(g.DurationMessage(starting))

	for _, t := range g.IterGraph(starting, Downstream) {
		run, err := shouldRun(t)
		if err != nil {
			return err
		}
		if !run {
			continue
		}
		if mock {
			t.MockRun()
			continue
		}

		if err := ctx.Err(); err != nil {
			return g.abort(t, zerr.Wrap(err, "run interrupted"))
		}

		duration, err := t.TimedRun(ctx)
		if err != nil {
			return g.abort(t, err)
		}
		g.durations[t.ID()] = duration.Seconds()
	}

	if mock {
		return nil
	}
	return g.SaveState(nil)
}

// abort flushes state with the failed task's resource fingerprint cleared
// and wraps the failure for the caller. The state flush must not be lost to
// a secondary error, so a flush failure is logged rather than returned.
func (g *Graph) abort(t ports.Task, cause error) error {
	if err := g.SaveState(map[string]string{t.Creates(): ""}); err != nil {
		g.builder.Logger.Error(err)
	}
	return zerr.With(zerr.Wrap(cause, "task run failed"), "task", t.ID())
}

// SaveState persists the resource-state and duration tables. The on-disk
// resource table is re-read fresh and overlaid with this graph's current
// fingerprints before writing, so a subgraph save never erases entries
// belonging to tasks outside the subgraph. Caller overrides are applied last.
func (g *Graph) SaveState(overrides map[string]string) error {
	states, err := g.builder.Store.ResourceStates()
	if err != nil {
		return err
	}

	for name, r := range g.resources {
		fingerprint, err := r.Fingerprint()
		if err != nil {
			return err
		}
		states[name] = fingerprint
	}
	for name, fingerprint := range overrides {
		states[name] = fingerprint
	}

	if err := g.builder.Store.WriteResourceStates(states); err != nil {
		return err
	}
	return g.builder.Store.WriteDurations(g.durations)
}
