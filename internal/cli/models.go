package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewModelsCommand creates the models command: lists the aliases
// bound in the current generation, building it first if needed.
func NewModelsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List bound model aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnv(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			gen, err := env.cache.EnsureModels()
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"fingerprint": string(gen.Fingerprint()),
					"aliases":     gen.Aliases(),
				})
			}

			for _, alias := range gen.Aliases() {
				fmt.Fprintln(cmd.OutOrStdout(), alias)
			}
			return nil
		},
	}
}
