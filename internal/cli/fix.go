package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

func newFixCmd(opts *options) *cobra.Command {
	var (
		issueID string
		write   bool
		passes  int
	)
	cmd := &cobra.Command{
		Use:   "fix <trip.json>",
		Short: "Apply one quick fix, or every fix when --issue is omitted",
		Long: `fix applies the quick fix of the given issue, or resolves issues most
severe first until none is left to try. The file is only rewritten with
--write and only when a fix was applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passes > 0 {
				opts.cfg.Engine.MaxFixPasses = passes
			}
			svc, repo, err := newService(opts, args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			trip, err := repo.LoadTrip(ctx, uuid.Nil)
			if err != nil {
				return err
			}

			var result *types.FixResult
			switch {
			case write && issueID != "":
				result, err = svc.ApplyFix(ctx, trip.ID, issueID)
			case write:
				result, err = svc.FixAll(ctx, trip.ID)
			case issueID != "":
				result, err = svc.ApplyFixTo(ctx, trip, issueID)
			default:
				result, err = svc.FixAllOn(ctx, trip)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&issueID, "issue", "", "ID of the issue to fix")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Save the fixed trip back to the file")
	cmd.Flags().IntVar(&passes, "max-passes", 0, "Maximum number of fixes attempted by fix-all")
	return cmd
}
