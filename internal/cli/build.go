package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewBuildCommand creates the build command: a one-shot rebuild of
// the model generation.
func NewBuildCommand(opts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the model generation",
		Long:  "Ensures the model generation is built, reusing the persisted artifact when the fingerprint matches. --force invalidates first, which skips artifact reuse.",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if force {
				env.cache.Invalidate()
			}

			gen, err := env.cache.EnsureModels()
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"models":      gen.Len(),
					"fingerprint": string(gen.Fingerprint()),
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s built %d models (fingerprint %s)\n",
				color.New(color.FgGreen).Sprint("OK"), gen.Len(), shortFingerprint(string(gen.Fingerprint())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "invalidate before building, forcing recompilation")
	return cmd
}

// shortFingerprint abbreviates a fingerprint for human output.
func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
