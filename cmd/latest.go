package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLatestCmd creates the latest subcommand: print the tag carrying the
// highest semantic version in the repository.
func newLatestCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "latest [path]",
		Short: "Print the highest semantic version tag",
		Long: `latest scans every tag in the repository, parses each as a semantic
version (a leading "v" is tolerated), and prints the tag with the highest
precedence. Useful for locating the previous release before a bump.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := setupCommand(cmd, args, deps)
			if err != nil {
				return err
			}

			name, found, err := cc.query.LatestRelease(cc.ctx)
			if err != nil {
				cc.log.Error(cc.ctx, "failed to find latest release tag", err, nil)
				return mapDomainError(err)
			}
			if !found {
				return fmt.Errorf("no tag parses as a semantic version")
			}

			writer, err := newWriter(deps, "plain")
			if err != nil {
				return err
			}
			if err := writer.WriteTags([]string{name}); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			return nil
		},
	}
}
