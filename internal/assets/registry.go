package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Registry lists the files served from a static directory.
type Registry struct {
	root string
}

// NewRegistry returns a registry rooted at dir.
func NewRegistry(dir string) *Registry {
	return &Registry{root: dir}
}

// Root returns the static directory.
func (r *Registry) Root() string {
	return r.root
}

// Files returns the sorted, slash-separated paths of every regular file under
// the root. Hidden files and directories are skipped.
func (r *Registry) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(r.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if p != r.root && strings.HasPrefix(name, ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("static directory %s: %w", r.root, err)
		}
		return nil, fmt.Errorf("list static directory: %w", err)
	}
	slices.Sort(files)
	return files, nil
}

// Path returns the filesystem path for a registry identifier. Absolute
// identifiers name a file directly, the same way the prober treats absolute
// asset references; anything else resolves under the root.
func (r *Registry) Path(id string) string {
	if filepath.IsAbs(id) {
		return filepath.Clean(id)
	}
	return filepath.Join(r.root, filepath.FromSlash(Normalize(id)))
}

// Has reports whether id names a regular file that Files would list, or a
// regular file at an absolute path. Stat errors count as absent.
func (r *Registry) Has(id string) bool {
	if !filepath.IsAbs(id) {
		rel := Normalize(id)
		if rel == "" {
			return false
		}
		for _, segment := range strings.Split(rel, "/") {
			if strings.HasPrefix(segment, ".") {
				return false
			}
		}
	}
	info, err := os.Stat(r.Path(id))
	return err == nil && info.Mode().IsRegular()
}

// Stat returns file info for a registry identifier.
func (r *Registry) Stat(id string) (os.FileInfo, error) {
	return os.Stat(r.Path(id))
}

// Exists reports whether id is among files. It is a pure lookup used only to
// choose between captions and the fallback overlay.
func Exists(files []string, id string) bool {
	target := Normalize(id)
	if target == "" {
		return false
	}
	for _, f := range files {
		if Normalize(f) == target {
			return true
		}
	}
	return false
}
