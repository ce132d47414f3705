package root

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/cmd/helper/build"
	"github.com/flarebyte/artisan-helper/cmd/helper/clearcmd"
	"github.com/flarebyte/artisan-helper/cmd/helper/custom"
	"github.com/flarebyte/artisan-helper/cmd/helper/db"
	"github.com/flarebyte/artisan-helper/cmd/helper/makecmd"
	"github.com/flarebyte/artisan-helper/cmd/helper/refresh"
	"github.com/flarebyte/artisan-helper/cmd/helper/version"
	"github.com/flarebyte/artisan-helper/internal/app"
	"github.com/flarebyte/artisan-helper/internal/config"
	"github.com/flarebyte/artisan-helper/internal/console"
	definitions "github.com/flarebyte/artisan-helper/internal/custom"
	"github.com/flarebyte/artisan-helper/internal/files"
	"github.com/flarebyte/artisan-helper/internal/framework"
	"github.com/flarebyte/artisan-helper/internal/invocation"
)

// Options configures the root command.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// Runner replaces the exec runner when set.
	Runner framework.Runner
	// Args are scanned for --config so custom commands can be registered
	// before cobra parses them.
	Args []string
	// Invocation options applied to every command run.
	Invocation []invocation.Option
}

type globalFlags struct {
	config     string
	quiet      bool
	verbose    int
	noANSI     bool
	noProgress bool
	appEnv     string
}

// NewRootCmd creates the root command for helper.
func NewRootCmd(opts Options) *cobra.Command {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	env := &app.Env{Options: opts.Invocation}
	var gf globalFlags

	cmd := &cobra.Command{
		Use:   "helper",
		Short: "CLI: Maintenance shortcuts around the framework command runner",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&gf.config, "config", "", "Path to the project config (default helper.cue when present)")
	pf.BoolVarP(&gf.quiet, "quiet", "q", false, "Do not output any message")
	pf.CountVarP(&gf.verbose, "verbose", "v", "Increase diagnostic output (-vv for trace)")
	pf.BoolVar(&gf.noANSI, "no-ansi", false, "Disable ANSI colors")
	pf.BoolVar(&gf.noProgress, "no-progress", false, "Do not render the progress bar")
	pf.StringVar(&gf.appEnv, "env", "", "Environment the framework commands should run under")

	// Subcommands
	cmd.AddCommand(version.NewCmd())
	cmd.AddCommand(build.NewCmd(env))
	cmd.AddCommand(clearcmd.NewCmd(env))
	cmd.AddCommand(db.NewCmd(env))
	cmd.AddCommand(refresh.NewCmd(env))
	cmd.AddCommand(makecmd.NewCmd(env))
	env.Builtins = builtinNames(cmd)
	customErr := registerCustom(cmd, env, opts.Args)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if customErr != nil {
			return customErr
		}
		cfg, err := config.Load(gf.config)
		if err != nil {
			return err
		}
		out := console.New(console.Options{
			Out:     stdout,
			Err:     stderr,
			Quiet:   gf.quiet,
			Verbose: gf.verbose,
			NoColor: gf.noANSI || !cfg.UI.Color,
		})
		env.Config = cfg
		env.Console = out
		env.Runner = opts.Runner
		if env.Runner == nil {
			env.Runner = framework.NewExecRunner(cfg.Framework, framework.ExecOptions{
				AppEnv: gf.appEnv,
				Stdout: out.Out(),
				Stderr: stderr,
				Logger: out.Logger(),
			})
		}
		env.Store = files.New(storageRoot(cfg), cfg.Storage.Keep)
		env.Progress = cfg.UI.Progress && !gf.noProgress && !gf.quiet
		out.Logger().Debug("config loaded", "path", cfg.Path, "program", cfg.Framework.Program, "storage", env.Store.Root())
		return nil
	}

	return cmd
}

// registerCustom adds one subcommand per custom definition. A config that
// fails to load is reported later by PersistentPreRunE.
func registerCustom(root *cobra.Command, env *app.Env, args []string) error {
	cfg, err := config.Load(configFlag(args))
	if err != nil {
		return nil
	}
	defs, err := definitions.LoadDir(cfg.Commands.Dir)
	if err != nil {
		return err
	}
	for _, d := range defs {
		if env.Builtins[d.Name] {
			return fmt.Errorf("custom command %q clashes with a built-in command", d.Name)
		}
		c, err := custom.NewCmd(env, d)
		if err != nil {
			return err
		}
		root.AddCommand(c)
	}
	return nil
}

// builtinNames lists the subcommands of root plus the ones cobra adds on
// demand.
func builtinNames(root *cobra.Command) map[string]bool {
	names := map[string]bool{"help": true, "completion": true}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	return names
}

// configFlag extracts --config from raw args.
func configFlag(args []string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func storageRoot(cfg config.Config) string {
	if filepath.IsAbs(cfg.Storage.Root) {
		return cfg.Storage.Root
	}
	return filepath.Join(cfg.Framework.WorkingDir, cfg.Storage.Root)
}

// Execute runs the root command with provided args. SIGINT and SIGTERM
// cancel the running framework command.
func Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd := NewRootCmd(Options{Args: args})
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
