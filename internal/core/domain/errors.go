package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrNonUniqueTask is returned when two tasks declare the same creates
	// identifier or the same alias.
	ErrNonUniqueTask = zerr.New("non-unique task")

	// ErrInvalidTaskDefinition is returned when a depends declaration resolves
	// to neither a known task nor an existing file.
	ErrInvalidTaskDefinition = zerr.New("invalid task definition")

	// ErrCycleDetected is returned when the task declarations form a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task id, alias, or tag does
	// not match any task in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrArchiveNotFound is returned when a requested archive does not exist.
	ErrArchiveNotFound = zerr.New("archive not found")
)

// ExitCode extracts the exit code attached to an execution error, walking
// the wrap chain. It returns 1 when no exit_code metadata is found.
func ExitCode(err error) int {
	for err != nil {
		var zErr *zerr.Error
		if !errors.As(err, &zErr) {
			break
		}
		if code, ok := zErr.Metadata()["exit_code"].(int); ok && code != 0 {
			return code
		}
		err = errors.Unwrap(zErr)
	}
	return 1
}
