package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pawpal/app"
	"github.com/kilianp07/pawpal/core/model"
)

func newCompleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <task name>",
		Short: "Mark a task done and schedule its next occurrence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return root.withService(func(svc *app.Service) error {
				task, next, err := svc.Complete(cmd.Context(), name)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Completed %s\n", task.Name)
				if next != nil {
					fmt.Fprintf(out, "Next %s occurrence due %s\n", next.Frequency, next.DueDate.Format(model.DateLayout))
				}
				return nil
			})
		},
	}
}
