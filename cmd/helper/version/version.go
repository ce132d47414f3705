package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/internal/buildinfo"
)

// NewCmd creates the version command. It needs no project config.
func NewCmd() *cobra.Command {
	var short, asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if short || !asJSON {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "helper %s\n", buildinfo.Summary())
				return err
			}
			// JSON goes to stdout, a human friendly line to stderr.
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "helper version: %s\n", buildinfo.Summary())
			return encodeJSON(cmd.OutOrStdout(), info(time.Now()))
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version string")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print detailed JSON version info")
	return cmd
}

func info(now time.Time) map[string]any {
	return map[string]any{
		"version":   buildinfo.Resolved(),
		"commit":    buildinfo.Commit,
		"date":      buildinfo.BuildDate(),
		"built_by":  buildinfo.BuiltBy,
		"go":        runtime.Version(),
		"go_os":     runtime.GOOS,
		"go_arch":   runtime.GOARCH,
		"timestamp": now.UTC().Format(time.RFC3339Nano),
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
