package ports

import "context"

// Executor runs a shell command in a working directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command through the shell. A non-zero exit attaches
	// exit_code metadata to the returned error.
	Execute(ctx context.Context, dir string, command string) error
}
