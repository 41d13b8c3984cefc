package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pawpal/app"
	"github.com/kilianp07/pawpal/core/model"
	"github.com/kilianp07/pawpal/pkg/export"
)

func newPlanCmd(root *rootOptions) *cobra.Command {
	var (
		date             string
		includeCompleted bool
		format           string
		explain          bool
		publish          bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate the daily plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := app.PlanRequest{IncludeCompleted: includeCompleted, Publish: publish}
			if date != "" {
				d, err := time.Parse(model.DateLayout, date)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				req.Date = d
			}
			switch format {
			case "text", "json", "csv":
			default:
				return fmt.Errorf("--format must be text, json or csv, got %q", format)
			}
			return root.withService(func(svc *app.Service) error {
				plan, err := svc.Plan(cmd.Context(), req)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch format {
				case "json":
					return export.WriteJSON(out, plan, explain)
				case "csv":
					return export.WriteCSV(out, plan)
				}
				fmt.Fprint(out, plan.DisplayScheduleText())
				if skipped := plan.Skipped(); len(skipped) > 0 {
					fmt.Fprintln(out, "Skipped:")
					for _, t := range skipped {
						fmt.Fprintf(out, "  - %s\n", t)
					}
				}
				for _, c := range plan.Conflicts() {
					fmt.Fprintln(out, c)
				}
				if explain {
					fmt.Fprintln(out)
					fmt.Fprintln(out, plan.Explanation())
				}
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&date, "date", "", "day to plan (YYYY-MM-DD, default today)")
	f.BoolVar(&includeCompleted, "include-completed", false, "consider completed tasks too")
	f.StringVarP(&format, "format", "f", "text", "output format: text, json or csv")
	f.BoolVar(&explain, "explain", false, "print the reasoning trace")
	f.BoolVar(&publish, "publish", false, "publish the plan to the MQTT broker")
	return cmd
}
