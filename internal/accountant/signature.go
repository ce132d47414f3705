package accountant

import "fmt"

// Item declares one named option or positional argument.
type Item struct {
	Name     string
	Short    string
	Usage    string
	Kind     Kind
	Default  Value
	Optional bool
}

// Signature is the declared option and argument schema of a command.
// Order is preserved for help output and positional binding.
type Signature struct {
	Name      string
	Usage     string
	Options   []Item
	Arguments []Item
}

// Validate checks names are present and unique and defaults match kinds.
func (s Signature) Validate() error {
	seen := map[string]bool{}
	check := func(section string, items []Item) error {
		for _, it := range items {
			if it.Name == "" {
				return fmt.Errorf("%s %s: missing name", s.Name, section)
			}
			key := section + ":" + it.Name
			if seen[key] {
				return fmt.Errorf("%s %s: duplicate name %q", s.Name, section, it.Name)
			}
			seen[key] = true
			if !it.Default.IsNull() && it.Default.Kind() != it.Kind {
				return fmt.Errorf("%s %s %q: default %s does not match kind %s", s.Name, section, it.Name, it.Default, it.Kind)
			}
		}
		return nil
	}
	if err := check("option", s.Options); err != nil {
		return err
	}
	return check("argument", s.Arguments)
}

// ResolvedSet maps a declared name to its effective value.
type ResolvedSet map[string]Value

// Defaults builds the set of declared defaults for items.
func Defaults(items []Item) ResolvedSet {
	out := make(ResolvedSet, len(items))
	for _, it := range items {
		out[it.Name] = it.Default
	}
	return out
}

// Clone returns an independent copy.
func (r ResolvedSet) Clone() ResolvedSet {
	out := make(ResolvedSet, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Plain converts the set to a map of plain Go values.
func (r ResolvedSet) Plain() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v.Any()
	}
	return out
}

// AnyTrue reports whether any boolean entry is true. Non-boolean entries
// never count.
func (r ResolvedSet) AnyTrue() bool {
	for _, v := range r {
		if v.IsTrue() {
			return true
		}
	}
	return false
}
