package ports

import "github.com/driftbuild/drift/internal/core/domain"

// ConfigLoader reads a workflow configuration file into task declarations.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	Load(path string) ([]domain.TaskSpec, error)
}
