package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dawoe/modelforge/internal/fingerprint"
)

// NewFingerprintCommand creates the fingerprint command: computes and
// prints the content hash of the current inputs.
func NewFingerprintCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Compute the current input fingerprint",
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
			fp, err := fingerprint.Compute(fragments, types)
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"fingerprint": string(fp),
					"fragments":   len(fragments),
					"types":       len(types),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(fp))
			return nil
		},
	}
}
