// Package refresh implements `helper refresh`: clear followed by build.
package refresh

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/cmd/helper/build"
	"github.com/flarebyte/artisan-helper/cmd/helper/clearcmd"
	"github.com/flarebyte/artisan-helper/internal/app"
	"github.com/flarebyte/artisan-helper/internal/config"
	"github.com/flarebyte/artisan-helper/internal/invocation"
)

// NewCmd creates the refresh command.
func NewCmd(env *app.Env) *cobra.Command {
	sig := config.MustBuiltinSignature("refresh")
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

// Run clears and then builds, each as a nested command with default flags.
func Run(ctx context.Context, env *app.Env, inv *invocation.Invocation) error {
	if inv.Units() == 0 {
		return nil
	}
	out := inv.Out()
	out.Info("Start running optimizations:")
	out.Line("")

	var errs []error
	if inv.Enabled("clear") && ctx.Err() == nil {
		out.Line("Start clearing optimizations")
		errs = append(errs, nested(ctx, clearcmd.NewCmd(env)))
		out.Info("Finished clearing optimizations")
		out.Line("")
		inv.Advance()
	}
	if inv.Enabled("build") && ctx.Err() == nil {
		out.Line("Start building optimizations")
		errs = append(errs, nested(ctx, build.NewCmd(env)))
		out.Info("Finished building optimizations")
		out.Line("")
		inv.Advance()
	}

	inv.FinishLine()
	out.Info("Finish running optimizations")
	return errors.Join(errs...)
}

// nested executes cmd on its own, without flags.
func nested(ctx context.Context, cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{})
	return cmd.ExecuteContext(ctx)
}
