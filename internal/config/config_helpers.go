package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

func decodeString(parent cue.Value, section, name string, dst *string) error {
	f := parent.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s.%s (expected string)", section, name)
	}
	return f.Decode(dst)
}

func decodeBool(parent cue.Value, section, name string, dst *bool) error {
	f := parent.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil
	}
	if f.Kind() != cue.BoolKind {
		return fmt.Errorf("invalid type for field: %s.%s (expected bool)", section, name)
	}
	return f.Decode(dst)
}

func decodeNonNegativeInt(parent cue.Value, section, name string, dst *int) error {
	f := parent.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil
	}
	if f.Kind() != cue.IntKind {
		return fmt.Errorf("invalid type for field: %s.%s (expected int)", section, name)
	}
	var n int
	if err := f.Decode(&n); err != nil {
		return fmt.Errorf("invalid value for %s.%s: %v", section, name, err)
	}
	if n < 0 {
		return fmt.Errorf("invalid %s.%s: must be >= 0", section, name)
	}
	*dst = n
	return nil
}

func decodeStringList(parent cue.Value, section, name string, dst *[]string) error {
	f := parent.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil
	}
	if f.Kind() != cue.ListKind {
		return fmt.Errorf("invalid type for field: %s.%s (expected list of strings)", section, name)
	}
	var out []string
	if err := f.Decode(&out); err != nil {
		return fmt.Errorf("invalid value for %s.%s: %v", section, name, err)
	}
	*dst = out
	return nil
}
