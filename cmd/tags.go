package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var baseTag string

// newTagsCmd creates the tags subcommand: list tags of the form
// <base>.<N>, ordered by the base-tag precedence rules.
func newTagsCmd(deps *Dependencies) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags [path]",
		Short: "List release-point tags for a base version line",
		Long: `tags lists the repository tags named <base>.<N> for the given base,
ordered by target commit recency with the numeric suffix breaking ties.
The base is matched literally, so "1.2" finds 1.2.0, 1.2.1 and so on.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := setupCommand(cmd, args, deps)
			if err != nil {
				return err
			}

			names, err := cc.query.BaseTags(cc.ctx, baseTag)
			if err != nil {
				cc.log.Error(cc.ctx, "failed to list base tags", err, map[string]interface{}{
					"base": baseTag,
				})
				return mapDomainError(err)
			}

			writer, err := newWriter(deps, "plain")
			if err != nil {
				return err
			}
			if err := writer.WriteTags(names); err != nil {
				return fmt.Errorf("output error: %w", err)
			}

			cc.log.Debug(cc.ctx, "listed base tags", map[string]interface{}{
				"base":  baseTag,
				"count": len(names),
			})
			return nil
		},
	}

	tagsCmd.Flags().StringVarP(&baseTag, "base", "b", "",
		"Base version line, e.g. 1.2 (required)")
	_ = tagsCmd.MarkFlagRequired("base")

	return tagsCmd
}
