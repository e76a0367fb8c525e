// Package archive implements workspace snapshots as timestamped tar.gz
// bundles under the archive directory.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/driftbuild/drift/internal/core/domain"
	"github.com/driftbuild/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

// Extension is the archive bundle suffix.
const Extension = ".tar.gz"

// timestampLayout names bundles with second resolution so the lexicographic
// listing order is also chronological.
const timestampLayout = "20060102150405"

// Manager implements ports.Archiver for one workspace.
type Manager struct {
	layout domain.Layout
	logger ports.Logger

	// now is replaceable for deterministic bundle names in tests.
	now func() time.Time
}

// NewManager creates an archive Manager for the given workspace layout.
func NewManager(layout domain.Layout, logger ports.Logger) *Manager {
	return &Manager{
		layout: layout,
		logger: logger,
		now:    time.Now,
	}
}

// Write bundles the given workspace-relative files into a new archive and
// returns its workspace-relative path. Files are stored sorted so identical
// inputs produce an identical member list. Listed files that do not exist are
// skipped with a warning; a fresh workspace has no state tables yet.
func (m *Manager) Write(files []string) (string, error) {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	name := m.now().Format(timestampLayout) + Extension
	path := filepath.Join(m.layout.ArchiveDir(), name)

	f, err := os.Create(path) //nolint:gosec // workspace-internal path
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create archive"), "path", path)
	}

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for _, rel := range sorted {
		if err := m.addFile(tw, rel); err != nil {
			_ = tw.Close()
			_ = gz.Close()
			_ = f.Close()
			return "", err
		}
	}

	if err := tw.Close(); err != nil {
		_ = gz.Close()
		_ = f.Close()
		return "", zerr.Wrap(err, "failed to finalize archive")
	}
	if err := gz.Close(); err != nil {
		_ = f.Close()
		return "", zerr.Wrap(err, "failed to finalize archive")
	}
	if err := f.Close(); err != nil {
		return "", zerr.Wrap(err, "failed to finalize archive")
	}

	relPath := filepath.Join(m.layout.RelArchiveDir(), name)
	m.logger.Info("wrote archive " + relPath)
	return relPath, nil
}

func (m *Manager) addFile(tw *tar.Writer, rel string) error {
	abs := filepath.Join(m.layout.RootDir(), rel)
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("skipping missing file " + rel)
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to stat archive member"), "path", abs)
	}
	if info.IsDir() {
		return nil
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to build archive header"), "path", abs)
	}
	header.Name = filepath.ToSlash(rel)

	if err := tw.WriteHeader(header); err != nil {
		return zerr.Wrap(err, "failed to write archive header")
	}

	src, err := os.Open(abs) //nolint:gosec // workspace-relative path
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive member"), "path", abs)
	}
	defer src.Close() //nolint:errcheck // read-only close

	if _, err := io.Copy(tw, src); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write archive member"), "path", abs)
	}
	return nil
}

// Restore unpacks the named archive in place, overwriting existing files.
func (m *Manager) Restore(name string) error {
	path := filepath.Join(m.layout.RootDir(), name)
	f, err := os.Open(path) //nolint:gosec // workspace-relative path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(domain.ErrArchiveNotFound, "archive", name)
		}
		return zerr.With(zerr.Wrap(err, "failed to open archive"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only close

	gz, err := gzip.NewReader(f)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "malformed archive"), "path", path)
	}
	defer gz.Close() //nolint:errcheck // read-only close

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, "malformed archive"), "path", path)
		}
		if err := m.restoreMember(tr, header); err != nil {
			return err
		}
	}

	m.logger.Info("restored archive " + name)
	return nil
}

func (m *Manager) restoreMember(tr *tar.Reader, header *tar.Header) error {
	rel := filepath.FromSlash(header.Name)
	if !filepath.IsLocal(rel) {
		return zerr.With(zerr.New("archive member escapes workspace"), "member", header.Name)
	}
	if header.Typeflag != tar.TypeReg {
		return nil
	}

	dst := filepath.Join(m.layout.RootDir(), rel)
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory")
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)) //nolint:gosec // member path verified local
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to restore file"), "path", dst)
	}

	if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // archive created by this tool
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to restore file"), "path", dst)
	}
	return out.Close()
}

// List returns the available archives relative to the workspace root, sorted
// lexicographically (equivalently chronologically).
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.layout.ArchiveDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to list archives")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, filepath.Join(m.layout.RelArchiveDir(), entry.Name()))
		}
	}
	sort.Strings(names)
	return names, nil
}

var _ ports.Archiver = (*Manager)(nil)
