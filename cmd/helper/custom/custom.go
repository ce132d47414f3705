// Package custom turns custom command definitions into subcommands.
package custom

import (
	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/internal/app"
	definitions "github.com/flarebyte/artisan-helper/internal/custom"
	"github.com/flarebyte/artisan-helper/internal/invocation"
)

// NewCmd creates the subcommand for d.
func NewCmd(env *app.Env, d definitions.Definition) (*cobra.Command, error) {
	sig, err := d.Signature()
	if err != nil {
		return nil, err
	}
	cmd := &cobra.Command{
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := env.Invocation(cmd, args, sig)
			if err != nil {
				return err
			}
			return definitions.NewRunner(env).Run(cmd.Context(), d, inv)
		},
	}
	invocation.BindFlags(cmd, sig)
	return cmd, nil
}
