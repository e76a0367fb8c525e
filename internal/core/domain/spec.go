// Package domain contains the core domain models for the drift task graph.
package domain

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// StringList is a string slice that unmarshals from either a YAML scalar or a
// YAML sequence. Workflow files use both forms interchangeably for depends and
// command declarations.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return zerr.With(zerr.New("expected string or list of strings"), "line", value.Line)
	}
}

// TaskSpec is the declaration record of a single task, retained verbatim so a
// task can be reconstructed into a fresh graph (subgraph extraction).
type TaskSpec struct {
	Creates string     `yaml:"creates"`
	Alias   string     `yaml:"alias,omitempty"`
	Depends StringList `yaml:"depends,omitempty"`
	Command StringList `yaml:"command,omitempty"`
	Tags    []string   `yaml:"tags,omitempty"`
}

// IsPseudotask reports whether the declaration describes a grouping node with
// no concrete output: a task without a command.
func (s TaskSpec) IsPseudotask() bool {
	return len(s.Command) == 0
}

// DependsList returns a copy of the declared dependency identifiers.
func (s TaskSpec) DependsList() []string {
	if len(s.Depends) == 0 {
		return nil
	}
	out := make([]string, len(s.Depends))
	copy(out, s.Depends)
	return out
}

// HasTag reports whether the declaration carries the given tag.
func (s TaskSpec) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
