package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dawoe/modelforge/internal/fingerprint"
)

// NewStatusCommand creates the status command: reports whether the
// persisted generation matches the current schema and source inputs,
// without building anything.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show generation staleness",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			fragments, err := env.dir.ReadFragments()
			if err != nil {
				return err
			}
			types, err := env.provider.GetAll()
			if err != nil {
				return err
			}
			current, err := fingerprint.Compute(fragments, types)
			if err != nil {
				return err
			}

			meta, persisted := env.store.ReadMeta(context.Background())
			state := "missing"
			if persisted {
				if meta.Fingerprint == current {
					state = "current"
				} else {
					state = "stale"
				}
			}

			if opts.Format == "json" {
				out := map[string]any{
					"state":       state,
					"workDir":     env.cfg.WorkDir,
					"fragments":   len(fragments),
					"types":       len(types),
					"fingerprint": string(current),
				}
				if persisted {
					out["persistedFingerprint"] = string(meta.Fingerprint)
					out["builtAt"] = meta.BuiltAt
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "working directory: %s\n", env.cfg.WorkDir)
			fmt.Fprintf(w, "schema directory:  %s\n", env.cfg.SchemaDir)
			fmt.Fprintf(w, "inputs:            %d types, %d fragments\n", len(types), len(fragments))
			fmt.Fprintf(w, "fingerprint:       %s\n", shortFingerprint(string(current)))

			switch state {
			case "current":
				fmt.Fprintf(w, "persisted:         %s (built %s)\n",
					color.New(color.FgGreen).Sprint("OK"), meta.BuiltAt.Format("2006-01-02 15:04:05"))
			case "stale":
				fmt.Fprintf(w, "persisted:         %s (fingerprint %s)\n",
					color.New(color.FgYellow).Sprint("STALE"), shortFingerprint(string(meta.Fingerprint)))
			default:
				fmt.Fprintf(w, "persisted:         %s\n", color.New(color.FgRed).Sprint("MISSING"))
			}
			return nil
		},
	}
}
