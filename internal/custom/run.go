package custom

import (
	"context"

	"github.com/flarebyte/artisan-helper/internal/accountant"
	"github.com/flarebyte/artisan-helper/internal/app"
	"github.com/flarebyte/artisan-helper/internal/invocation"
)

// Runner executes a custom definition against a resolved invocation.
type Runner struct {
	env  *app.Env
	eval *Evaluator
}

// NewRunner creates a runner using env's framework runner and Lua limits.
func NewRunner(env *app.Env) *Runner {
	return &Runner{env: env, eval: NewEvaluator(env.Config.Lua)}
}

// Plan returns the steps enabled for inv, in declaration order.
func (r *Runner) Plan(ctx context.Context, d Definition, inv *invocation.Invocation) ([]Step, error) {
	acct := inv.Accountant()
	opts := acct.Options().Plain()
	args := acct.Arguments().Plain()
	var out []Step
	for _, s := range d.Steps {
		if s.When == "" {
			if _, declared := opts[s.Name]; declared && !acct.Option(s.Name, accountant.Null()).Truthy() {
				continue
			}
			out = append(out, s)
			continue
		}
		ok, err := r.eval.Eval(ctx, s.When, opts, args)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Run executes d. Work units come from the accountant unless the definition
// fixes `units` explicitly. Enabled steps are counted instead when a step
// uses a `when` condition or no step is bound to a declared option.
func (r *Runner) Run(ctx context.Context, d Definition, inv *invocation.Invocation) error {
	steps, err := r.Plan(ctx, d, inv)
	if err != nil {
		return err
	}
	switch {
	case d.Units != nil:
		inv.SetUnits(*d.Units)
		inv.Adjust(0)
	case hasConditions(d) || !bindsOptions(d):
		inv.SetUnits(len(steps))
		inv.Adjust(0)
	}
	if inv.Units() == 0 || len(steps) == 0 {
		return nil
	}

	out := inv.Out()
	out.Info("Start %s:", d.Name)
	out.Line("")
	batch := r.env.NewBatch(ctx)
	for _, s := range steps {
		if batch.Canceled() {
			break
		}
		out.Line("Start %s", s.Name)
		batch.Call(s.Call, s.Args...)
		out.Info("Finished %s", s.Name)
		out.Line("")
		inv.Advance()
	}
	inv.FinishLine()
	out.Info("Finished %s", d.Name)
	return batch.Err()
}

func hasConditions(d Definition) bool {
	for _, s := range d.Steps {
		if s.When != "" {
			return true
		}
	}
	return false
}

func bindsOptions(d Definition) bool {
	for _, s := range d.Steps {
		for _, o := range d.Options {
			if o.Name == s.Name {
				return true
			}
		}
	}
	return false
}
