package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pawpal/app"
	"github.com/kilianp07/pawpal/core/history"
	"github.com/kilianp07/pawpal/core/model"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var from, to, task string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously generated plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := history.Query{TaskName: task}
			var err error
			if q.Start, err = parseDay("--from", from); err != nil {
				return err
			}
			if q.End, err = parseDay("--to", to); err != nil {
				return err
			}
			return root.withService(func(svc *app.Service) error {
				recs, err := svc.History(cmd.Context(), q)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(recs) == 0 {
					fmt.Fprintln(out, "No plans recorded.")
					return nil
				}
				for _, r := range recs {
					feasible := "feasible"
					if !r.Feasible {
						feasible = "over budget"
					}
					fmt.Fprintf(out, "%s  %s  %d scheduled, %d skipped, %.2fh of %.2fh, %s  [%s]\n",
						r.Date.Format(model.DateLayout), r.Pet, len(r.Scheduled), len(r.Skipped),
						r.ScheduledHours, r.AvailableHours, feasible, r.ID)
				}
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&from, "from", "", "first plan date (YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "last plan date (YYYY-MM-DD)")
	f.StringVar(&task, "task", "", "only plans that scheduled or skipped this task")
	return cmd
}

func parseDay(flag, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(model.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD: %w", flag, err)
	}
	return d, nil
}
