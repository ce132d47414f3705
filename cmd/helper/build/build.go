// Package build implements `helper build`, which rebuilds the framework
// caches used in production.
package build

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/internal/app"
	"github.com/flarebyte/artisan-helper/internal/config"
	"github.com/flarebyte/artisan-helper/internal/invocation"
)

type step struct {
	option  string
	title   string
	command string
}

var steps = []step{
	{option: "cache", title: "caches", command: "config:cache"},
	{option: "route", title: "routes", command: "route:cache"},
	{option: "bootstrap", title: "bootstrap", command: "optimize"},
}

// NewCmd creates the build command.
func NewCmd(env *app.Env) *cobra.Command {
	sig := config.MustBuiltinSignature("build")
	cmd := &cobra.Command{
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := env.Invocation(cmd, args, sig)
			if err != nil {
				return err
			}
			return Run(cmd.Context(), env, inv)
		},
	}
	invocation.BindFlags(cmd, sig)
	return cmd
}

// Run builds every enabled cache, one work unit each.
func Run(ctx context.Context, env *app.Env, inv *invocation.Invocation) error {
	if inv.Units() == 0 {
		return nil
	}
	out := inv.Out()
	out.Info("Start building files:")
	out.Line("")

	batch := env.NewBatch(ctx)
	for _, s := range steps {
		if !inv.Enabled(s.option) || batch.Canceled() {
			continue
		}
		out.Line("Start building %s", s.title)
		batch.Call(s.command)
		out.Info("Finished building %s", s.title)
		out.Line("")
		inv.Advance()
	}

	inv.FinishLine()
	out.Info("Finished building files")
	return batch.Err()
}
