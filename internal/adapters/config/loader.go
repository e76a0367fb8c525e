// Package config provides the workflow configuration loader for drift.
package config

import (
	"os"

	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/driftbuild/drift/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Workflow represents the structure of the drift.yaml configuration file.
// The file is either a mapping with a tasks list, or a bare list of task
// declarations.
type Workflow struct {
	Version string            `yaml:"version,omitempty"`
	Tasks   []domain.TaskSpec `yaml:"tasks"`
}

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct{}

// NewLoader creates a new FileConfigLoader.
func NewLoader() *FileConfigLoader {
	return &FileConfigLoader{}
}

// Load reads the workflow file at the given path.
func (l *FileConfigLoader) Load(path string) ([]domain.TaskSpec, error) {
	return Load(path)
}

// Load reads a workflow file and returns the declared task specs in
// declaration order.
func Load(path string) ([]domain.TaskSpec, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read workflow file")
	}

	var workflow Workflow
	if err := yaml.Unmarshal(data, &workflow); err != nil {
		// Bare-list form, the original workflow.yaml layout.
		var specs []domain.TaskSpec
		if listErr := yaml.Unmarshal(data, &specs); listErr != nil {
			return nil, zerr.Wrap(err, "failed to parse workflow file")
		}
		workflow.Tasks = specs
	}

	for _, spec := range workflow.Tasks {
		if spec.Creates == "" {
			return nil, zerr.With(domain.ErrInvalidTaskDefinition, "reason", "task declaration without a creates value")
		}
	}
	return workflow.Tasks, nil
}

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)
