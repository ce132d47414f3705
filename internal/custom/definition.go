// Package custom loads user-defined helper commands from YAML definitions
// and runs them through the same accounting as the built-in commands.
package custom

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flarebyte/artisan-helper/internal/accountant"
	"github.com/flarebyte/artisan-helper/internal/config"
)

// Ext is the file extension of custom command definitions.
const Ext = ".yaml"

var validName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// reserved flags belong to the root command.
var (
	reservedNames  = map[string]bool{"help": true, "quiet": true, "verbose": true, "config": true, "env": true, "no-ansi": true, "no-progress": true}
	reservedShorts = map[string]bool{"h": true, "q": true, "v": true}
)

// ErrExists is returned by Write when the definition file is present.
var ErrExists = errors.New("already exists")

// Definition describes one custom command.
type Definition struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Units       *int              `yaml:"units,omitempty"`
	Options     []config.ItemSpec `yaml:"options"`
	Arguments   []config.ItemSpec `yaml:"arguments,omitempty"`
	Steps       []Step            `yaml:"steps"`
}

// Step is one framework call of a custom command.
type Step struct {
	Name string   `yaml:"name"`
	Call string   `yaml:"call"`
	Args []string `yaml:"args,omitempty"`
	// When is a Lua expression over the options and arguments tables.
	// Empty means: run when the option named like the step is enabled.
	When string `yaml:"when,omitempty"`
}

// Signature returns the declared signature.
func (d Definition) Signature() (accountant.Signature, error) {
	spec := config.SignatureSpec{Usage: d.Description, Options: d.Options, Arguments: d.Arguments}
	return spec.Signature(d.Name)
}

// Validate checks the definition is usable.
func (d Definition) Validate() error {
	if !validName.MatchString(d.Name) {
		return fmt.Errorf("invalid command name %q", d.Name)
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("%s: no steps", d.Name)
	}
	for i, s := range d.Steps {
		if s.Name == "" {
			return fmt.Errorf("%s: step %d: missing name", d.Name, i+1)
		}
		if s.Call == "" {
			return fmt.Errorf("%s: step %s: missing call", d.Name, s.Name)
		}
	}
	for _, o := range d.Options {
		if reservedNames[o.Name] || reservedShorts[o.Short] {
			return fmt.Errorf("%s: option %q conflicts with a global flag", d.Name, o.Name)
		}
	}
	if d.Units != nil && *d.Units < 0 {
		return fmt.Errorf("%s: units must be >= 0", d.Name)
	}
	_, err := d.Signature()
	return err
}

// Parse decodes and validates a definition.
func Parse(b []byte) (Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Definition{}, fmt.Errorf("invalid definition: %v", err)
	}
	if err := d.Validate(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

// LoadDir reads every definition in dir, sorted by name. A missing
// directory yields no definitions.
func LoadDir(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read commands dir: %w", err)
	}
	var out []Definition
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		p := filepath.Join(dir, e.Name())
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		d, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if want := strings.TrimSuffix(e.Name(), Ext); d.Name != want {
			return nil, fmt.Errorf("%s: name %q does not match file name", p, d.Name)
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Stub returns the definition written by `helper make <name>`.
func Stub(name string) Definition {
	return Definition{
		Name:        name,
		Description: "Runs " + name + " maintenance. Runs `-a` flag by default.",
		Options: []config.ItemSpec{
			{Name: "cache", Short: "c", Usage: "Clears the application cache"},
			{Name: "views", Short: "w", Usage: "Recompiles the views"},
			{Name: "all", Short: "a", Usage: "Runs every step"},
		},
		Steps: []Step{
			{Name: "cache", Call: "cache:clear"},
			{Name: "views", Call: "view:cache"},
		},
	}
}
