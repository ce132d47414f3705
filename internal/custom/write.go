package custom

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Marshal returns the YAML document for d with a short header comment.
func Marshal(d Definition) ([]byte, error) {
	doc := &yaml.Node{}
	if err := doc.Encode(d); err != nil {
		return nil, err
	}
	doc.HeadComment = "Custom helper command. Each step calls one framework command;\n" +
		"`when` is an optional Lua expression over `options` and `arguments`."

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

// Path returns the definition file for name inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+Ext)
}

// Write stores d in dir, creating it when needed. Existing files are kept
// unless force is set.
func Write(dir string, d Definition, force bool) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	p := Path(dir, d.Name)
	if _, err := os.Stat(p); err == nil && !force {
		return p, fmt.Errorf("%s %w", d.Name, ErrExists)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return p, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return p, err
	}
	b, err := Marshal(d)
	if err != nil {
		return p, err
	}
	return p, os.WriteFile(p, b, 0o644)
}
