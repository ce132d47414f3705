// Package accountant resolves a command's options and arguments against its
// declared signature and counts the units of work implied by them. The count
// sizes a progress indicator owned by the caller.
package accountant

// AllKey is the option name that turns on every boolean option.
const AllKey = "all"

// Stepper is the progress indicator the accountant pushes its total into.
type Stepper interface {
	SetMaxSteps(n int)
}

// ResolveOptions keeps the raw values of declared options. Declared options
// missing from raw keep their default. If an "all" option is declared and
// either it is true or no option is true, every boolean option becomes true.
func ResolveOptions(declared []Item, raw map[string]Value) ResolvedSet {
	opts := hydrate(declared, raw)
	all, hasAll := opts[AllKey]
	if hasAll && (all.IsTrue() || !opts.AnyTrue()) {
		for _, it := range declared {
			if it.Kind == KindBool {
				opts[it.Name] = Bool(true)
			}
		}
	}
	return opts
}

// ResolveArguments keeps the raw values of declared arguments.
func ResolveArguments(declared []Item, raw map[string]Value) ResolvedSet {
	return hydrate(declared, raw)
}

func hydrate(declared []Item, raw map[string]Value) ResolvedSet {
	out := make(ResolvedSet, len(declared))
	for _, it := range declared {
		if v, ok := raw[it.Name]; ok {
			out[it.Name] = v
			continue
		}
		out[it.Name] = it.Default
	}
	return out
}

// CountOptionUnits counts work units for a resolved option set. When nothing
// is true, or "all" is true, every option except "all" is one unit.
// Otherwise only options that differ from their default count.
func CountOptionUnits(resolved, defaults ResolvedSet) int {
	minusAll := 0
	all, hasAll := resolved[AllKey]
	if hasAll {
		minusAll = 1
	}
	if !resolved.AnyTrue() || (hasAll && all.IsTrue()) {
		return len(resolved) - minusAll
	}
	return countChanged(resolved, defaults)
}

// CountArgumentUnits counts arguments supplied away from their default.
func CountArgumentUnits(resolved, defaults ResolvedSet) int {
	return countChanged(resolved, defaults)
}

func countChanged(resolved, defaults ResolvedSet) int {
	n := 0
	for k, v := range resolved {
		if d, ok := defaults[k]; !ok || d != v {
			n++
		}
	}
	return n
}

// Accountant holds one invocation's resolved values and work-unit total.
// It is created per invocation and never shared.
type Accountant struct {
	sig         Signature
	opts        ResolvedSet
	optDefaults ResolvedSet
	args        ResolvedSet
	argDefaults ResolvedSet
	units       int
	stepper     Stepper
}

// New resolves rawOptions and rawArguments against sig and computes the
// initial work-unit count.
func New(sig Signature, rawOptions, rawArguments map[string]Value) *Accountant {
	a := &Accountant{
		sig:         sig,
		optDefaults: Defaults(sig.Options),
		argDefaults: Defaults(sig.Arguments),
	}
	a.opts = ResolveOptions(sig.Options, rawOptions)
	a.args = ResolveArguments(sig.Arguments, rawArguments)
	a.Recount()
	return a
}

// Signature returns the signature the accountant was built from.
func (a *Accountant) Signature() Signature { return a.sig }

// Recount recomputes the total from the resolved sets.
func (a *Accountant) Recount() {
	a.units = CountOptionUnits(a.opts, a.optDefaults) + CountArgumentUnits(a.args, a.argDefaults)
}

// Override replaces the computed total with n.
func (a *Accountant) Override(n int) { a.units = n }

// Units returns the current work-unit total.
func (a *Accountant) Units() int { return a.units }

// Bind attaches the progress indicator that Adjust propagates to.
func (a *Accountant) Bind(s Stepper) { a.stepper = s }

// Adjust adds delta to the total and pushes it into the bound indicator.
func (a *Accountant) Adjust(delta int) {
	a.units += delta
	if a.stepper != nil {
		a.stepper.SetMaxSteps(a.units)
	}
}

// Options returns a copy of the resolved options.
func (a *Accountant) Options() ResolvedSet { return a.opts.Clone() }

// Arguments returns a copy of the resolved arguments.
func (a *Accountant) Arguments() ResolvedSet { return a.args.Clone() }

// Option returns the named option or fallback when it is not declared.
func (a *Accountant) Option(name string, fallback Value) Value {
	if v, ok := a.opts[name]; ok {
		return v
	}
	return fallback
}

// Argument returns the named argument or fallback when it is not declared.
func (a *Accountant) Argument(name string, fallback Value) Value {
	if v, ok := a.args[name]; ok {
		return v
	}
	return fallback
}

// Enabled reports whether the named option resolved to true.
func (a *Accountant) Enabled(name string) bool {
	return a.Option(name, Null()).IsTrue()
}

// Supplied reports whether the named argument holds a non-null value.
func (a *Accountant) Supplied(name string) bool {
	return !a.Argument(name, Null()).IsNull()
}
