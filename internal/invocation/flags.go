package invocation

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flarebyte/artisan-helper/internal/accountant"
)

// BindFlags declares sig's options as flags on cmd and sets its positional
// argument rules and usage line.
func BindFlags(cmd *cobra.Command, sig accountant.Signature) {
	fs := cmd.Flags()
	for _, it := range sig.Options {
		switch it.Kind {
		case accountant.KindString:
			fs.StringP(it.Name, it.Short, it.Default.Str(), it.Usage)
		default:
			fs.BoolP(it.Name, it.Short, it.Default.BoolVal(), it.Usage)
		}
	}
	cmd.Args = positionalArgs(sig)
	cmd.Use = useLine(sig)
	if cmd.Short == "" {
		cmd.Short = sig.Usage
	}
}

func useLine(sig accountant.Signature) string {
	use := sig.Name
	for _, it := range sig.Arguments {
		if it.Optional {
			use += " [" + it.Name + "]"
		} else {
			use += " <" + it.Name + ">"
		}
	}
	return use
}

func positionalArgs(sig accountant.Signature) cobra.PositionalArgs {
	required := 0
	for _, it := range sig.Arguments {
		if !it.Optional {
			required++
		}
	}
	total := len(sig.Arguments)
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < required {
			return fmt.Errorf("%s: missing required argument: %s", sig.Name, sig.Arguments[len(args)].Name)
		}
		if len(args) > total {
			return fmt.Errorf("%s: accepts at most %d argument(s), received %d", sig.Name, total, len(args))
		}
		return nil
	}
}

// rawOptions reads the declared options from cmd's flags. String options
// that were not set and have no default stay null.
func rawOptions(cmd *cobra.Command, sig accountant.Signature) (map[string]accountant.Value, error) {
	fs := cmd.Flags()
	out := make(map[string]accountant.Value, len(sig.Options))
	for _, it := range sig.Options {
		switch it.Kind {
		case accountant.KindString:
			s, err := fs.GetString(it.Name)
			if err != nil {
				return nil, err
			}
			if !fs.Changed(it.Name) && it.Default.IsNull() {
				out[it.Name] = accountant.Null()
				continue
			}
			out[it.Name] = accountant.String(s)
		default:
			b, err := fs.GetBool(it.Name)
			if err != nil {
				return nil, err
			}
			out[it.Name] = accountant.Bool(b)
		}
	}
	return out, nil
}

// rawArguments binds positional args to declared arguments in order.
func rawArguments(args []string, sig accountant.Signature) map[string]accountant.Value {
	out := make(map[string]accountant.Value, len(sig.Arguments))
	for i, it := range sig.Arguments {
		if i >= len(args) {
			break
		}
		if it.Kind == accountant.KindBool {
			out[it.Name] = accountant.Bool(args[i] == "true" || args[i] == "1")
			continue
		}
		out[it.Name] = accountant.String(args[i])
	}
	return out
}
