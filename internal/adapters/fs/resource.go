// Package fs implements file-backed resources with content fingerprints.
package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/driftbuild/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

// Factory creates file resources rooted at the workspace directory.
type Factory struct {
	root string
}

// NewFactory creates a resource factory for the given workspace root.
func NewFactory(root string) *Factory {
	return &Factory{root: root}
}

// New creates a resource for the given name. The name is interpreted as a
// path relative to the workspace root.
func (f *Factory) New(name string) ports.Resource {
	return &FileResource{
		name: name,
		path: filepath.Join(f.root, name),
		root: f.root,
	}
}

// FileResource implements ports.Resource for a file or directory.
type FileResource struct {
	name string
	path string
	root string
}

// Name returns the resource name as declared.
func (r *FileResource) Name() string { return r.name }

// Exists reports whether the resource is present on disk.
func (r *FileResource) Exists() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// Fingerprint computes the xxhash64 of the resource content, empty when the
// resource does not exist. Directories hash their contained files in sorted
// order so the fingerprint is deterministic.
func (r *FileResource) Fingerprint() (string, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", zerr.With(zerr.Wrap(err, "failed to stat resource"), "path", r.path)
	}

	digest := xxhash.New()
	if info.IsDir() {
		if err := hashDir(r.path, digest); err != nil {
			return "", err
		}
	} else if err := hashFile(r.path, digest); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

// Filenames expands the resource name as a glob pattern relative to the
// workspace root. A name without matches maps to itself.
func (r *FileResource) Filenames() []string {
	matches, err := doublestar.Glob(os.DirFS(r.root), filepath.ToSlash(r.name))
	if err != nil || len(matches) == 0 {
		return []string{r.name}
	}
	sort.Strings(matches)
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = filepath.FromSlash(m)
	}
	return names
}

func hashDir(dir string, digest *xxhash.Digest) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to walk resource directory"), "path", dir)
	}

	sort.Strings(files)
	for _, file := range files {
		_, _ = digest.WriteString(file)
		_, _ = digest.Write([]byte{0})
		if err := hashFile(file, digest); err != nil {
			return err
		}
	}
	return nil
}

func hashFile(path string, digest *xxhash.Digest) error {
	f, err := os.Open(path) //nolint:gosec // path is workspace-relative
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open resource"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only close

	content := xxhash.New()
	if _, err := io.Copy(content, f); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to hash resource content"), "path", path)
	}
	return binary.Write(digest, binary.LittleEndian, content.Sum64())
}

var (
	_ ports.Resource        = (*FileResource)(nil)
	_ ports.ResourceFactory = (*Factory)(nil)
)
