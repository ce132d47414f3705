// Package makecmd implements `helper make`, which scaffolds a custom command
// definition.
package makecmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/internal/accountant"
	"github.com/flarebyte/artisan-helper/internal/app"
	"github.com/flarebyte/artisan-helper/internal/config"
	"github.com/flarebyte/artisan-helper/internal/custom"
	"github.com/flarebyte/artisan-helper/internal/invocation"
)

// NewCmd creates the make command.
func NewCmd(env *app.Env) *cobra.Command {
	sig := config.MustBuiltinSignature("make")
	cmd := &cobra.Command{
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := env.Invocation(cmd, args, sig)
			if err != nil {
				return err
			}
			return Run(env, inv)
		},
	}
	invocation.BindFlags(cmd, sig)
	return cmd
}

// Run writes the stub for the requested name into the commands directory.
// An existing definition is kept unless --force is given. Built-in command
// names are refused.
func Run(env *app.Env, inv *invocation.Invocation) error {
	out := inv.Out()
	name := inv.Argument("name", accountant.Null()).Str()
	if env.Builtins[name] {
		return fmt.Errorf("%s is a built-in command", name)
	}
	p, err := custom.Write(env.Config.Commands.Dir, custom.Stub(name), inv.Enabled("force"))
	if err != nil {
		return err
	}
	inv.Advance()
	out.Info("Custom command created successfully.")
	out.Comment("Definition: %s", filepath.ToSlash(p))
	return nil
}
