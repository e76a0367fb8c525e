package domain

import (
	"os"
	"path/filepath"
)

const (
	// DriftDirName is the name of the internal workspace directory.
	DriftDirName = ".drift"

	// StateFileName is the name of the resource-state table.
	StateFileName = "state.csv"

	// DurationFileName is the name of the task-duration table.
	DurationFileName = "duration.csv"

	// LogFileName is the name of the operational log file.
	LogFileName = "drift.log"

	// ArchiveDirName is the name of the archive directory.
	ArchiveDirName = "archive"

	// WorkflowFileName is the default name of the workflow configuration file.
	WorkflowFileName = "drift.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Layout resolves the storage locations of a workspace, anchored at the
// directory containing the workflow configuration file.
type Layout struct {
	configPath string
	rootDir    string
}

// NewLayout creates a Layout for the given workflow configuration path.
func NewLayout(configPath string) Layout {
	root := filepath.Dir(configPath)
	if root == "" {
		root = "."
	}
	return Layout{configPath: configPath, rootDir: root}
}

// ConfigPath returns the workflow configuration path as declared.
func (l Layout) ConfigPath() string { return l.configPath }

// RootDir returns the workspace root directory.
func (l Layout) RootDir() string { return l.rootDir }

// RelStatePath returns the resource-state table path relative to the root.
func (l Layout) RelStatePath() string {
	return filepath.Join(DriftDirName, StateFileName)
}

// RelDurationPath returns the duration table path relative to the root.
func (l Layout) RelDurationPath() string {
	return filepath.Join(DriftDirName, DurationFileName)
}

// RelLogPath returns the log file path relative to the root.
func (l Layout) RelLogPath() string {
	return filepath.Join(DriftDirName, LogFileName)
}

// RelArchiveDir returns the archive directory path relative to the root.
func (l Layout) RelArchiveDir() string {
	return filepath.Join(DriftDirName, ArchiveDirName)
}

// StatePath returns the absolute resource-state table path.
func (l Layout) StatePath() string { return filepath.Join(l.rootDir, l.RelStatePath()) }

// DurationPath returns the absolute duration table path.
func (l Layout) DurationPath() string { return filepath.Join(l.rootDir, l.RelDurationPath()) }

// LogPath returns the absolute log file path.
func (l Layout) LogPath() string { return filepath.Join(l.rootDir, l.RelLogPath()) }

// ArchiveDir returns the absolute archive directory path.
func (l Layout) ArchiveDir() string { return filepath.Join(l.rootDir, l.RelArchiveDir()) }

// InternalsDir returns the absolute internal directory path.
func (l Layout) InternalsDir() string { return filepath.Join(l.rootDir, DriftDirName) }

// Ensure creates the internal and archive directories if they do not exist.
func (l Layout) Ensure() error {
	if err := os.MkdirAll(l.InternalsDir(), DirPerm); err != nil {
		return err
	}
	return os.MkdirAll(l.ArchiveDir(), DirPerm)
}
