// Package fsys is the file-access seam between the metric sources and the
// kernel pseudo-filesystems (/proc, /sys). Sources take an FS so tests can
// substitute a MapFS with canned file contents.
package fsys

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// FS reads whole files by absolute path.
type FS interface {
	// ReadFile returns the file contents as text. A missing or unreadable
	// path fails with an error matching ErrNotExist.
	ReadFile(path string) (string, error)

	// Exists reports whether the path is present and readable.
	Exists(path string) bool

	// ReadDir returns the entry names of a directory, unsorted.
	ReadDir(path string) ([]string, error)
}

// OS returns the FS backed by the host filesystem.
func OS() FS { return osFS{} }

type osFS struct{}

func (osFS) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return "", fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return "", err
	}
	return string(b), nil
}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) ReadDir(path string) ([]string, error) {
	ents, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		names = append(names, e.Name())
	}
	return names, nil
}

// MapFS is an in-memory FS for tests: absolute path -> file contents.
// Directories are implied by the stored paths.
type MapFS map[string]string

func (m MapFS) ReadFile(path string) (string, error) {
	if s, ok := m[path]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotExist, path)
}

func (m MapFS) Exists(path string) bool {
	if _, ok := m[path]; ok {
		return true
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range m {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// ReadDir synthesizes a directory listing from the stored paths.
func (m MapFS) ReadDir(path string) ([]string, error) {
	prefix := strings.TrimSuffix(path, "/") + "/"
	seen := make(map[string]struct{})
	for p := range m {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		seen[rest] = struct{}{}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
