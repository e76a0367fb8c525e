package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/driftbuild/drift/internal/core/ports"
	"github.com/driftbuild/drift/internal/ui/style"
)

// DurationMessage reports how long running the given tasks will take, based
// on last-observed durations. The minimum covers exactly the given tasks; the
// maximum covers their full downstream closure, with never-run tasks counted
// separately as unknown.
func (g *Graph) DurationMessage(tasks []ports.Task) string {
	if len(tasks) == 0 {
		return style.BlueText(fmt.Sprintf(
			"No tasks are out of sync in this workflow (%s)",
			g.displayConfigPath(),
		))
	}

	minDuration := 0.0
	for _, t := range tasks {
		minDuration += g.durations[t.ID()]
	}

	maxDuration, unknown, total := 0.0, 0, 0
	for _, t := range g.IterGraph(tasks, Downstream) {
		if t.IsPseudotask() {
			continue
		}
		total++
		if d, ok := g.durations[t.ID()]; ok {
			maxDuration += d
		} else {
			unknown++
		}
	}

	var msg strings.Builder
	if unknown > 0 {
		fmt.Fprintf(&msg, "%d new tasks with unknown durations.\n", unknown)
	}
	fmt.Fprintf(&msg, "The remaining %d-%d tasks need to be executed,\n", len(tasks), total)
	switch {
	case maxDuration == 0 && minDuration == 0:
		msg.WriteString("which will take an indeterminate amount of time.")
	case maxDuration == minDuration:
		fmt.Fprintf(&msg, "which will take approximately %s.", domain.FormatDuration(minDuration))
	default:
		fmt.Fprintf(&msg, "which will take between %s and %s.",
			domain.FormatDuration(minDuration), domain.FormatDuration(maxDuration))
	}
	return style.BlueText(msg.String())
}

// displayConfigPath renders the workflow path relative to the working
// directory when possible.
func (g *Graph) displayConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return g.layout.ConfigPath()
	}
	abs, err := filepath.Abs(g.layout.ConfigPath())
	if err != nil {
		return g.layout.ConfigPath()
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil {
		return g.layout.ConfigPath()
	}
	return rel
}
