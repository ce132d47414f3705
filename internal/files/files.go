// Package files collects, deletes and compresses files under the
// application storage directory.
package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitgitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/klauspost/compress/gzip"
)

// ErrInvalidPath is returned for paths that do not exist.
var ErrInvalidPath = errors.New("path is invalid")

// Store works on files below a storage root.
type Store struct {
	root string
	keep gitgitignore.Matcher
}

// New creates a store rooted at root. Files matching a keep pattern
// (gitignore syntax, relative to root) are never collected.
func New(root string, keep []string) *Store {
	patterns := make([]gitgitignore.Pattern, 0, len(keep))
	for _, line := range keep {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitgitignore.ParsePattern(line, nil))
	}
	s := &Store{root: root}
	if len(patterns) > 0 {
		s.keep = gitgitignore.NewMatcher(patterns)
	}
	return s
}

// Root returns the storage root.
func (s *Store) Root() string { return s.root }

// Collect returns the regular files matching the glob pattern below root,
// sorted, without kept files.
func (s *Store) Collect(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		st, err := os.Stat(m)
		if err != nil || !st.Mode().IsRegular() {
			continue
		}
		if s.kept(m) {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) kept(path string) bool {
	if s.keep == nil {
		return false
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	comps := strings.Split(filepath.ToSlash(rel), "/")
	return s.keep.Match(comps, false)
}

// Delete removes the file at path.
func Delete(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s: %w", path, ErrInvalidPath)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Compress writes path.gz next to path and removes the original. It returns
// the path of the compressed file. An existing path.gz is replaced.
func Compress(path string) (string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidPath)
	}
	dst := path + ".gz"
	if err := gzipFile(path, dst, st); err != nil {
		return "", fmt.Errorf("failed to compress %s: %w", filepath.Base(path), err)
	}
	if err := Delete(path); err != nil {
		return dst, err
	}
	return dst, nil
}

func gzipFile(src, dst string, st os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	zw, err := gzip.NewWriterLevel(tmp, gzip.BestCompression)
	if err != nil {
		return err
	}
	zw.Name = filepath.Base(src)
	zw.ModTime = st.ModTime()
	if _, err := io.Copy(zw, in); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	if err := tmp.Chmod(st.Mode().Perm()); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// Replaces an archive left by an earlier run.
	if err := os.Rename(tmpName, dst); err != nil {
		return err
	}
	ok = true
	return nil
}
