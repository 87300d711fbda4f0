package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "analyze <trip.json>",
		Short: "Print the health report of a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, repo, err := newService(opts, args[0])
			if err != nil {
				return err
			}
			trip, err := repo.LoadTrip(cmd.Context(), uuid.Nil)
			if err != nil {
				return err
			}
			report, err := svc.Check(cmd.Context(), trip)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if strict && !report.Healthy {
				return fmt.Errorf("trip is not healthy: score %d (%s)", report.Score, report.Verdict)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when the trip is not healthy")
	return cmd
}
