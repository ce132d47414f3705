// Package clearcmd implements `helper clear`, which drops framework caches
// and compresses or deletes logs and sessions.
package clearcmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/internal/app"
	"github.com/flarebyte/artisan-helper/internal/config"
	"github.com/flarebyte/artisan-helper/internal/files"
	"github.com/flarebyte/artisan-helper/internal/invocation"
)

// Storage globs, relative to the storage root.
const (
	logPattern      = "logs/*.log"
	allLogsPattern  = "logs/*"
	sessionPattern  = "framework/sessions/*"
	debuggerPattern = "debugbar/*"
)

var cacheCommands = []struct {
	title   string
	command string
}{
	{"Cache:", "cache:clear"},
	{"Config:", "config:clear"},
	{"Compiled:", "clear-compiled"},
	{"Route:", "route:clear"},
	{"Views:", "view:clear"},
}

// NewCmd creates the clear command.
func NewCmd(env *app.Env) *cobra.Command {
	sig := config.MustBuiltinSignature("clear")
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

// Run clears every enabled target. The compress flag and the delete
// argument change how files are handled and are not work units.
func Run(ctx context.Context, env *app.Env, inv *invocation.Invocation) error {
	if inv.Enabled("compress") {
		inv.Adjust(-1)
	}
	deleting := inv.Supplied("delete")
	if deleting {
		inv.Adjust(-1)
	}
	if inv.Units() == 0 {
		return nil
	}

	c := &clearer{env: env, inv: inv, batch: env.NewBatch(ctx), deleting: deleting}
	out := inv.Out()
	out.Line("")
	out.Info("Start clearing files:")
	out.Line("")

	targets := []struct {
		option string
		run    func()
	}{
		{"cache", c.caches},
		{"debugger", c.debugger},
		{"log", c.logs},
		{"session", c.sessions},
		{"bootstrap", c.bootstrap},
	}
	for _, t := range targets {
		if !inv.Enabled(t.option) || c.batch.Canceled() {
			continue
		}
		t.run()
		out.Line("")
		inv.Advance()
	}

	inv.FinishLine()
	out.Info("Finished clearing files")
	return c.batch.Err()
}

type clearer struct {
	env      *app.Env
	inv      *invocation.Invocation
	batch    *app.Batch
	deleting bool
}

func (c *clearer) caches() {
	out := c.inv.Out()
	out.Line("Clearing caches:")
	for _, cc := range cacheCommands {
		out.Comment(cc.title)
		c.batch.Call(cc.command)
	}
	out.Info("Finished clearing caches")
}

func (c *clearer) debugger() {
	out := c.inv.Out()
	out.Line("Start clearing debugger")
	c.remove("debugger", debuggerPattern)
	out.Info("Finished clearing debugger")
}

func (c *clearer) logs() {
	out := c.inv.Out()
	out.Line("Start clearing logs")
	if c.deleting {
		c.remove("logs", allLogsPattern)
	} else {
		c.compress("logs", logPattern)
	}
	out.Info("Finished clearing logs")
}

func (c *clearer) sessions() {
	out := c.inv.Out()
	out.Line("Start clearing sessions")
	if c.deleting {
		c.remove("sessions", sessionPattern)
	} else {
		c.compress("sessions", sessionPattern)
	}
	out.Info("Finished clearing sessions")
}

func (c *clearer) bootstrap() {
	out := c.inv.Out()
	out.Line("Clearing bootstrap:")
	c.batch.Call("optimize:clear")
	c.batch.Call("view:clear")
	out.Info("Finished clearing bootstrap")
}

func (c *clearer) collect(kind, pattern string) []string {
	paths, err := c.env.Store.Collect(pattern)
	if err != nil {
		c.inv.Out().Logger().Debug("collect failed", "kind", kind, "error", err)
		return nil
	}
	return paths
}

func (c *clearer) remove(kind, pattern string) {
	out := c.inv.Out()
	paths := c.collect(kind, pattern)
	if len(paths) == 0 {
		out.Warn("No %s to remove", kind)
		return
	}
	for _, p := range paths {
		base := filepath.Base(p)
		out.Comment("Deleting file: %s", base)
		if err := files.Delete(p); err != nil {
			out.Logger().Debug("delete failed", "path", p, "error", err)
			out.Warn("Could not delete: %s", base)
			continue
		}
		out.Comment("Deleted: %s", base)
	}
}

func (c *clearer) compress(kind, pattern string) {
	out := c.inv.Out()
	var paths []string
	for _, p := range c.collect(kind, pattern) {
		if !strings.HasSuffix(p, ".gz") {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		out.Warn("No %s to compress", kind)
		return
	}
	for _, p := range paths {
		base := filepath.Base(p)
		out.Comment("Compressing file: %s", base)
		if _, err := files.Compress(p); err != nil {
			out.Logger().Debug("compress failed", "path", p, "error", err)
			out.Warn("Could not compress: %s", base)
			continue
		}
		out.Comment("Compressed: %s", base)
	}
}
