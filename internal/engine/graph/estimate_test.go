package graph_test

import (
	"testing"

	"github.com/driftbuild/drift/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationMessage_NothingToDo(t *testing.T) {
	f := newFixture(t)
	g := f.build(t, echoTask("a.txt"))

	msg := g.DurationMessage(nil)
	assert.Contains(t, msg, "No tasks are out of sync in this workflow")
	assert.Contains(t, msg, "drift.yaml")
}

func TestDurationMessage_KnownDurationExact(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.WriteDurations(map[string]float64{"a.txt": 5.0}))
	g := f.build(t, echoTask("a.txt"))

	task := f.task(t, g, "a.txt")
	msg := g.DurationMessage([]ports.Task{task})

	assert.Contains(t, msg, "The remaining 1-1 tasks need to be executed,")
	assert.Contains(t, msg, "which will take approximately 5.00 s.")
	assert.NotContains(t, msg, "unknown durations")
}

func TestDurationMessage_UnknownPlusDownstreamRange(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.WriteDurations(map[string]float64{"b.txt": 7200.0}))
	g := f.build(t,
		echoTask("a.txt"),
		echoTask("b.txt", "a.txt"),
	)

	task := f.task(t, g, "a.txt")
	msg := g.DurationMessage([]ports.Task{task})

	assert.Contains(t, msg, "1 new tasks with unknown durations.")
	assert.Contains(t, msg, "The remaining 1-2 tasks need to be executed,")
	assert.Contains(t, msg, "which will take between 0.00 s and 2.00 h.")
}

func TestDurationMessage_NeverRunIndeterminate(t *testing.T) {
	f := newFixture(t)
	g := f.build(t, echoTask("a.txt"))

	task := f.task(t, g, "a.txt")
	msg := g.DurationMessage([]ports.Task{task})

	assert.Contains(t, msg, "1 new tasks with unknown durations.")
	assert.Contains(t, msg, "which will take an indeterminate amount of time.")
}

func TestDurationMessage_PseudotasksExcludedFromCount(t *testing.T) {
	f := newFixture(t)
	g := f.build(t,
		echoTask("a.txt"),
		pseudoTask("all", "a.txt"),
	)

	task := f.task(t, g, "a.txt")
	msg := g.DurationMessage([]ports.Task{task})
	assert.Contains(t, msg, "The remaining 1-1 tasks need to be executed,")
}
