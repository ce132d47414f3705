package config

import (
	_ "embed"
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/flarebyte/artisan-helper/internal/accountant"
)

//go:embed signatures.cue
var builtinSignatures []byte

// ItemSpec is the structured declaration of one option or argument, shared
// by the built-in CUE signatures and YAML custom commands.
type ItemSpec struct {
	Name     string `json:"name" yaml:"name"`
	Short    string `json:"short,omitempty" yaml:"short,omitempty"`
	Usage    string `json:"usage,omitempty" yaml:"usage,omitempty"`
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Default  any    `json:"default,omitempty" yaml:"default,omitempty"`
	Optional *bool  `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// SignatureSpec is the structured declaration of a command signature.
type SignatureSpec struct {
	Usage     string     `json:"usage" yaml:"usage"`
	Options   []ItemSpec `json:"options" yaml:"options"`
	Arguments []ItemSpec `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// Signature converts s into a validated accountant signature named name.
func (s SignatureSpec) Signature(name string) (accountant.Signature, error) {
	sig := accountant.Signature{Name: name, Usage: s.Usage}
	for _, it := range s.Options {
		item, err := it.item(accountant.KindBool, false)
		if err != nil {
			return accountant.Signature{}, fmt.Errorf("%s option %q: %w", name, it.Name, err)
		}
		sig.Options = append(sig.Options, item)
	}
	for _, it := range s.Arguments {
		item, err := it.item(accountant.KindString, true)
		if err != nil {
			return accountant.Signature{}, fmt.Errorf("%s argument %q: %w", name, it.Name, err)
		}
		sig.Arguments = append(sig.Arguments, item)
	}
	if err := sig.Validate(); err != nil {
		return accountant.Signature{}, err
	}
	return sig, nil
}

func (it ItemSpec) item(defaultKind accountant.Kind, defaultOptional bool) (accountant.Item, error) {
	kind := defaultKind
	switch it.Kind {
	case "":
	case "bool":
		kind = accountant.KindBool
	case "string":
		kind = accountant.KindString
	default:
		return accountant.Item{}, fmt.Errorf("unknown kind %q", it.Kind)
	}
	def, err := accountant.FromAny(it.Default)
	if err != nil {
		return accountant.Item{}, err
	}
	if def.IsNull() && kind == accountant.KindBool {
		def = accountant.Bool(false)
	}
	optional := defaultOptional
	if it.Optional != nil {
		optional = *it.Optional
	}
	return accountant.Item{
		Name:     it.Name,
		Short:    it.Short,
		Usage:    it.Usage,
		Kind:     kind,
		Default:  def,
		Optional: optional,
	}, nil
}

// BuiltinSignatures returns the signatures of the built-in commands.
func BuiltinSignatures() (map[string]accountant.Signature, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(builtinSignatures)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("invalid built-in signatures: %v", err)
	}
	cv := v.LookupPath(cue.ParsePath("commands"))
	if err := cv.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("invalid built-in signatures: %v", err)
	}
	var specs map[string]SignatureSpec
	if err := cv.Decode(&specs); err != nil {
		return nil, fmt.Errorf("invalid built-in signatures: %v", err)
	}
	names := make([]string, 0, len(specs))
	for n := range specs {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make(map[string]accountant.Signature, len(specs))
	for _, n := range names {
		sig, err := specs[n].Signature(n)
		if err != nil {
			return nil, err
		}
		out[n] = sig
	}
	return out, nil
}

// BuiltinSignature returns the signature of one built-in command.
func BuiltinSignature(name string) (accountant.Signature, error) {
	all, err := BuiltinSignatures()
	if err != nil {
		return accountant.Signature{}, err
	}
	sig, ok := all[name]
	if !ok {
		return accountant.Signature{}, fmt.Errorf("unknown command signature: %s", name)
	}
	return sig, nil
}

// MustBuiltinSignature is BuiltinSignature for command constructors; the
// built-in schema is embedded, so a failure is a programming error.
func MustBuiltinSignature(name string) accountant.Signature {
	sig, err := BuiltinSignature(name)
	if err != nil {
		panic(err)
	}
	return sig
}
