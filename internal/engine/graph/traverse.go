package graph

import "github.com/driftbuild/drift/internal/core/ports"

// Direction selects which neighbor links a traversal follows.
type Direction int

const (
	// Downstream follows successor links; used for execution ordering.
	Downstream Direction = iota
	// Upstream follows predecessor links; used for subgraph extraction.
	Upstream
)

// SourceTasks returns the tasks that depend on nothing, in declaration order.
func (g *Graph) SourceTasks() []ports.Task {
	var sources []ports.Task
	for _, t := range g.taskList {
		if len(t.Upstream()) == 0 {
			sources = append(sources, t)
		}
	}
	return sources
}

// SinkTasks returns the tasks nothing depends on, in declaration order.
func (g *Graph) SinkTasks() []ports.Task {
	var sinks []ports.Task
	for _, t := range g.taskList {
		if len(t.Downstream()) == 0 {
			sinks = append(sinks, t)
		}
	}
	return sinks
}

// IterGraph produces a breadth-first visitation order starting from the given
// tasks, or from the graph's sources (downstream) or sinks (upstream) when
// none are given. Every reachable task appears exactly once. A node is
// enqueued as soon as its first processed neighbor reaches it, so the order
// is breadth-first, not a strict topological sort.
func (g *Graph) IterGraph(start []ports.Task, dir Direction) []ports.Task {
	if len(start) == 0 {
		if dir == Downstream {
			start = g.SourceTasks()
		} else {
			start = g.SinkTasks()
		}
	}

	horizon := make([]ports.Task, len(start))
	copy(horizon, start)
	pending := make(map[ports.Task]bool, len(start))
	for _, t := range start {
		pending[t] = true
	}
	done := make(map[ports.Task]bool)

	var order []ports.Task
	for len(horizon) > 0 {
		t := horizon[0]
		horizon = horizon[1:]
		delete(pending, t)
		done[t] = true
		order = append(order, t)

		neighbors := t.Downstream()
		if dir == Upstream {
			neighbors = t.Upstream()
		}
		for _, next := range neighbors {
			if !done[next] && !pending[next] {
				horizon = append(horizon, next)
				pending[next] = true
			}
		}
	}
	return order
}
