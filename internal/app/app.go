// Package app implements the application layer for drift.
package app

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/driftbuild/drift/internal/adapters/archive"
	"github.com/driftbuild/drift/internal/adapters/fs"
	"github.com/driftbuild/drift/internal/adapters/logger"
	"github.com/driftbuild/drift/internal/adapters/shell"
	"github.com/driftbuild/drift/internal/adapters/state"
	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/driftbuild/drift/internal/core/ports"
	"github.com/driftbuild/drift/internal/engine/graph"
	"github.com/driftbuild/drift/internal/ui/style"
	"go.trai.ch/zerr"
)

// App represents the main application logic behind the CLI commands.
type App struct {
	loader     ports.ConfigLoader
	logger     *logger.Logger
	configPath string
	stdin      io.Reader
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log *logger.Logger) *App {
	return &App{
		loader:     loader,
		logger:     log,
		configPath: domain.WorkflowFileName,
		stdin:      os.Stdin,
	}
}

// SetConfigPath sets the workflow file path, from the CLI --config flag.
func (a *App) SetConfigPath(path string) {
	a.configPath = path
}

// SetStdin replaces the confirmation input source. Used by tests.
func (a *App) SetStdin(r io.Reader) {
	a.stdin = r
}

// openGraph loads the workflow file and builds the full task graph with its
// workspace-scoped collaborators.
func (a *App) openGraph() (*graph.Graph, error) {
	specs, err := a.loader.Load(a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load workflow")
	}

	layout := domain.NewLayout(a.configPath)
	if err := layout.Ensure(); err != nil {
		return nil, zerr.Wrap(err, "failed to create workspace internals")
	}
	if err := a.logger.AttachFile(layout.LogPath()); err != nil {
		return nil, err
	}

	store := state.New(layout)
	executor := shell.NewExecutor(a.logger)
	builder := graph.Builder{
		Store:     store,
		Tasks:     shell.NewTaskFactory(executor, a.logger, store, layout.RootDir()),
		Resources: fs.NewFactory(layout.RootDir()),
		Archiver:  archive.NewManager(layout, a.logger),
		Logger:    a.logger,
	}
	return builder.Build(a.configPath, specs)
}

// RunOptions control the run command.
type RunOptions struct {
	// TaskID scopes the run to the subgraph needed for one task id, alias,
	// or tag. Empty means the whole workflow.
	TaskID string

	// Force runs every task regardless of sync state.
	Force bool

	// DryRun reports what would run without executing or persisting state.
	DryRun bool
}

// Run executes the workflow, or the subgraph needed for opts.TaskID.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	g, err := a.scopedGraph(opts.TaskID)
	if err != nil {
		return err
	}

	if opts.Force {
		err = g.RunAll(ctx, opts.DryRun)
	} else {
		err = g.RunAllOutOfSync(ctx, opts.DryRun)
	}
	if err != nil {
		return err
	}

	g.Successful = true
	return nil
}

// Status reports which tasks are out of sync and the duration estimate,
// without running anything.
func (a *App) Status(_ context.Context) error {
	g, err := a.openGraph()
	if err != nil {
		return err
	}
	tasks, err := g.OutOfSyncTasks()
	if err != nil {
		return err
	}
	for _, t := range tasks {
		a.logger.Info("out of sync: " + t.ID())
	}
	a.logger.Info(g.DurationMessage(tasks))
	return nil
}

// CleanOptions control the clean command.
type CleanOptions struct {
	TaskID           string
	ForceDelete      bool
	IncludeInternals bool
}

// Clean deletes the files created by the workflow, after confirmation unless
// forced. A declined confirmation is a no-op, not an error.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	g, err := a.scopedGraph(opts.TaskID)
	if err != nil {
		return err
	}

	var tasks []ports.Task
	if opts.TaskID != "" {
		tasks = g.Tasks()
	}

	if !opts.ForceDelete {
		confirmed, err := a.confirmClean(g, opts.IncludeInternals)
		if err != nil {
			return err
		}
		if !confirmed {
			a.logger.Info("clean aborted")
			return nil
		}
	}
	return g.Clean(tasks, opts.IncludeInternals)
}

// confirmClean lists the files about to be deleted and prompts the operator.
func (a *App) confirmClean(g *graph.Graph, includeInternals bool) (bool, error) {
	a.logger.Info(style.RedText("Please confirm that you want to delete the following files:"))
	if includeInternals {
		a.logger.Info(style.GreenText(g.Layout().InternalsDir()))
	}
	for _, t := range g.Tasks() {
		if t.IsPseudotask() {
			continue
		}
		for _, name := range t.Filenames() {
			a.logger.Info(style.GreenText(name))
		}
	}

	os.Stderr.WriteString(style.RedText("Delete aforementioned files? [Y/n] ")) //nolint:errcheck // prompt only
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes", nil
}

// ArchiveOptions control the archive command.
type ArchiveOptions struct {
	// Restore unpacks the named archive instead of listing or writing.
	Restore string

	// Write creates a new archive bundle.
	Write bool

	// ExcludeInternals leaves the state tables and log out of the bundle.
	ExcludeInternals bool
}

// Archive lists, writes, or restores workspace archives.
func (a *App) Archive(_ context.Context, opts ArchiveOptions) error {
	g, err := a.openGraph()
	if err != nil {
		return err
	}

	switch {
	case opts.Restore != "":
		return g.RestoreArchive(opts.Restore)
	case opts.Write:
		return g.WriteArchive(opts.ExcludeInternals)
	default:
		archives, err := g.AvailableArchives()
		if err != nil {
			return err
		}
		if len(archives) == 0 {
			a.logger.Info("no archives available")
			return nil
		}
		for _, name := range archives {
			a.logger.Info(name)
		}
		return nil
	}
}

func (a *App) scopedGraph(taskID string) (*graph.Graph, error) {
	g, err := a.openGraph()
	if err != nil {
		return nil, err
	}
	if taskID == "" {
		return g, nil
	}
	return g.SubgraphNeededFor([]string{taskID})
}
