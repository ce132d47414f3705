// Package testutil builds throwaway project layouts for command tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteTree creates files below root. Keys are slash-separated relative
// paths.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// ListTree returns the slash-separated relative paths of regular files
// below root, sorted.
func ListTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	sort.Strings(out)
	return out
}

// Project is a temporary application directory with a helper.cue config.
type Project struct {
	Dir         string
	Storage     string
	CommandsDir string
	ConfigPath  string
}

// NewProject writes a config whose storage and commands directories live
// inside a fresh temp dir. Progress and colors are off.
func NewProject(t *testing.T) Project {
	t.Helper()
	dir := t.TempDir()
	p := Project{
		Dir:         dir,
		Storage:     filepath.Join(dir, "storage"),
		CommandsDir: filepath.Join(dir, ".helper", "commands"),
		ConfigPath:  filepath.Join(dir, "helper.cue"),
	}
	cfg := fmt.Sprintf(`configVersion: "1"
framework: {
	workingDir: %q
}
storage: {
	root: "storage"
}
commands: {
	dir: %q
}
ui: {
	progress: false
	color:    false
}
`, dir, p.CommandsDir)
	if err := os.WriteFile(p.ConfigPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.MkdirAll(p.Storage, 0o755); err != nil {
		t.Fatalf("mkdir storage: %v", err)
	}
	return p
}
