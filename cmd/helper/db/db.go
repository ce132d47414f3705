// Package db implements `helper db`, a shortcut for common migration and
// seeding sequences.
package db

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/internal/app"
	"github.com/flarebyte/artisan-helper/internal/config"
	"github.com/flarebyte/artisan-helper/internal/invocation"
)

// Block is one database operation selected by the flags.
type Block struct {
	Action  string
	Command string
}

// NewCmd creates the db command.
func NewCmd(env *app.Env) *cobra.Command {
	sig := config.MustBuiltinSignature("db")
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

// Blocks returns the operations selected by the flags as supplied, in
// execution order. Refresh takes precedence over fresh.
func Blocks(inv *invocation.Invocation) []Block {
	all := inv.RawEnabled("all")
	var out []Block
	if inv.RawEnabled("wipe") {
		out = append(out, Block{Action: "Wiping", Command: "db:wipe"})
	}
	switch {
	case all || inv.RawEnabled("refresh"):
		out = append(out, Block{Action: "Refreshing", Command: "migrate:refresh"})
	case inv.RawEnabled("fresh"):
		out = append(out, Block{Action: "Fresh", Command: "migrate:fresh"})
	}
	if all || inv.RawEnabled("seed") {
		out = append(out, Block{Action: "Seeding", Command: "db:seed"})
	}
	return out
}

// Run executes the selected blocks. Without any flag nothing runs.
func Run(ctx context.Context, env *app.Env, inv *invocation.Invocation) error {
	out := inv.Out()
	if !inv.AnyFlagSupplied() {
		out.Warn("Specific parameters must be passed in order to use this tool")
		return nil
	}
	out.Info("Start Modifying database:")
	out.Line("")

	blocks := Blocks(inv)
	inv.SetUnits(len(blocks))
	inv.Adjust(0)

	batch := env.NewBatch(ctx)
	for _, b := range blocks {
		if batch.Canceled() {
			break
		}
		out.Line("%s database started", b.Action)
		batch.Call(b.Command)
		inv.Advance()
		out.Line("")
		out.Line("%s database finished", b.Action)
	}

	inv.FinishLine()
	out.Info("Finished Modifying database")
	return batch.Err()
}
