// Package graph implements the dependency-graph task engine: construction
// and alias resolution, traversal, incremental execution, state persistence,
// duration estimation, and workspace archiving.
package graph

import (
	"os"
	"path/filepath"

	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/driftbuild/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder carries the workspace-scoped collaborators a graph needs. The same
// builder reconstructs subgraphs, so it is retained by every graph it builds.
type Builder struct {
	Store     ports.StateStore
	Tasks     ports.TaskFactory
	Resources ports.ResourceFactory
	Archiver  ports.Archiver
	Logger    ports.Logger
}

// Graph owns the full task set of one workflow together with its persisted
// resource states and duration statistics.
type Graph struct {
	builder Builder
	layout  domain.Layout

	taskList  []ports.Task
	taskDict  map[string]ports.Task
	resources map[string]ports.Resource
	durations map[string]float64

	// Successful is set once a requested run completes without error. It is
	// consumed by notification layers outside this package.
	Successful bool
}

// Build constructs a graph from declaration records: instantiate all tasks,
// dereference depends aliases, link dependencies, reject cycles, and load the
// persisted duration table. Construction fails on the first configuration
// error; a partially constructed graph is never returned.
func (b Builder) Build(configPath string, specs []domain.TaskSpec) (*Graph, error) {
	layout := domain.NewLayout(configPath)
	if err := layout.Ensure(); err != nil {
		return nil, zerr.Wrap(err, "failed to create workspace internals")
	}

	g := &Graph{
		builder:   b,
		layout:    layout,
		taskDict:  make(map[string]ports.Task),
		resources: make(map[string]ports.Resource),
		durations: make(map[string]float64),
	}

	for _, spec := range specs {
		if err := g.add(b.Tasks.New(spec)); err != nil {
			return nil, err
		}
	}

	g.dereferenceDependsAliases()
	if err := g.linkDependencies(); err != nil {
		return nil, err
	}
	if err := g.detectCycles(); err != nil {
		return nil, err
	}

	durations, err := b.Store.Durations()
	if err != nil {
		return nil, err
	}
	g.durations = durations

	return g, nil
}

// Layout returns the workspace layout the graph operates in.
func (g *Graph) Layout() domain.Layout { return g.layout }

// Tasks returns every task in declaration order.
func (g *Graph) Tasks() []ports.Task { return g.taskList }

// TaskIDs returns the canonical identifier of every task in declaration
// order.
func (g *Graph) TaskIDs() []string {
	ids := make([]string, len(g.taskList))
	for i, t := range g.taskList {
		ids[i] = t.ID()
	}
	return ids
}

// add stores the task in the task list and registers it in the lookup map,
// keyed by creates and by alias. Both keys must be unique across the graph.
func (g *Graph) add(t ports.Task) error {
	if alias := t.Alias(); alias != "" {
		if _, exists := g.taskDict[alias]; exists {
			return zerr.With(domain.ErrNonUniqueTask, "alias", alias)
		}
		g.taskDict[alias] = t
	}
	if _, exists := g.taskDict[t.Creates()]; exists {
		return zerr.With(domain.ErrNonUniqueTask, "creates", t.Creates())
	}
	g.taskDict[t.Creates()] = t
	g.taskList = append(g.taskList, t)
	return nil
}

// dereferenceDependsAliases replaces every depends entry naming another
// task's alias with that task's canonical creates identifier. Declarations
// may reference aliases in any order, so this runs over fully instantiated
// tasks, before linking. Already-canonical entries pass through unchanged.
func (g *Graph) dereferenceDependsAliases() {
	aliases := make(map[string]string)
	for _, t := range g.taskList {
		if t.Alias() != "" {
			aliases[t.Alias()] = t.Creates()
		}
	}

	for _, t := range g.taskList {
		depends := t.DependsList()
		changed := false
		for i, dep := range depends {
			if creates, ok := aliases[dep]; ok {
				depends[i] = creates
				changed = true
			}
		}
		if changed {
			t.SetDepends(depends)
		}
	}
}

// linkDependencies instantiates the resources for every creates and depends
// identifier and registers bidirectional upstream/downstream links. A depends
// identifier matching no task must name an existing file, otherwise the
// definition is invalid.
func (g *Graph) linkDependencies() error {
	for _, t := range g.taskList {
		dependsResources := g.getOrCreateResources(t.DependsList())
		createsResources := g.getOrCreateResources(t.CreatesList())

		// Pseudotasks contribute no producible resource.
		if t.IsPseudotask() {
			createsResources = nil
			delete(g.resources, t.Creates())
		}
		t.AttachResources(createsResources, dependsResources)

		for _, dep := range t.DependsList() {
			if err := g.linkDependency(t, dep); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) linkDependency(t ports.Task, dep string) error {
	upstream, ok := g.taskDict[dep]
	if !ok {
		// Not produced by any task: require a preexisting file.
		filename := filepath.Join(g.layout.RootDir(), dep)
		if _, err := os.Stat(filename); err != nil {
			wrapped := zerr.With(domain.ErrInvalidTaskDefinition, "depends", dep)
			return zerr.With(wrapped, "task", t.ID())
		}
		return nil
	}
	t.AddUpstream(upstream)
	upstream.AddDownstream(t)
	return nil
}

func (g *Graph) getOrCreateResources(names []string) []ports.Resource {
	resources := make([]ports.Resource, 0, len(names))
	for _, name := range names {
		r, ok := g.resources[name]
		if !ok {
			r = g.builder.Resources.New(name)
			g.resources[name] = r
		}
		resources = append(resources, r)
	}
	return resources
}

// detectCycles rejects cyclic declarations at construction time. Traversal
// assumes acyclicity and would otherwise silently omit tasks.
func (g *Graph) detectCycles() error {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(g.taskList))
	var path []string

	var visit func(t ports.Task) error
	visit = func(t ports.Task) error {
		state[t.ID()] = visiting
		path = append(path, t.ID())

		for _, next := range t.Downstream() {
			switch state[next.ID()] {
			case visiting:
				return zerr.With(domain.ErrCycleDetected, "cycle", cyclePath(path, next.ID()))
			case unvisited:
				if err := visit(next); err != nil {
					return err
				}
			}
		}

		state[t.ID()] = visited
		path = path[:len(path)-1]
		return nil
	}

	for _, t := range g.taskList {
		if state[t.ID()] == unvisited {
			if err := visit(t); err != nil {
				return err
			}
		}
	}
	return nil
}

func cyclePath(path []string, repeat string) string {
	start := 0
	for i, id := range path {
		if id == repeat {
			start = i
			break
		}
	}
	out := ""
	for _, id := range path[start:] {
		out += id + " -> "
	}
	return out + repeat
}

// GetTasks resolves an identifier to one or more tasks: an exact creates or
// alias match takes precedence, otherwise every task carrying the identifier
// as a tag matches.
func (g *Graph) GetTasks(idOrTag string) ([]ports.Task, error) {
	if t, ok := g.taskDict[idOrTag]; ok {
		return []ports.Task{t}, nil
	}
	var tagged []ports.Task
	for _, t := range g.taskList {
		if t.HasTag(idOrTag) {
			tagged = append(tagged, t)
		}
	}
	if len(tagged) == 0 {
		return nil, zerr.With(domain.ErrTaskNotFound, "task", idOrTag)
	}
	return tagged, nil
}

// SubgraphNeededFor constructs a fresh graph containing exactly the tasks
// needed, transitively, to produce the requested identifiers. The new graph
// is rebuilt from the retained declaration records; the receiver is left
// untouched. An empty request returns the receiver itself.
func (g *Graph) SubgraphNeededFor(idsOrTags []string) (*Graph, error) {
	if len(idsOrTags) == 0 {
		return g, nil
	}

	var start []ports.Task
	for _, id := range idsOrTags {
		tasks, err := g.GetTasks(id)
		if err != nil {
			return nil, err
		}
		start = append(start, tasks...)
	}

	var specs []domain.TaskSpec
	for _, t := range g.IterGraph(start, Upstream) {
		specs = append(specs, t.Spec())
	}
	return g.builder.Build(g.layout.ConfigPath(), specs)
}
