package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pawpal/app"
)

func newConflictsCmd(root *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Check the task list for overloaded time periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return root.withService(func(svc *app.Service) error {
				out := cmd.OutOrStdout()
				conflicts := svc.Conflicts(all)
				if len(conflicts) == 0 {
					fmt.Fprintln(out, "No conflicts detected.")
					return nil
				}
				for _, c := range conflicts {
					fmt.Fprintln(out, c)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include completed tasks")
	return cmd
}
