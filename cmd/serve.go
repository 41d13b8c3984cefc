package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pawpal/app"
)

func newServeMetricsCmd(root *rootOptions) *cobra.Command {
	var every time.Duration
	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Expose Prometheus metrics until interrupted",
		Long: "serve-metrics serves /metrics on metrics.prometheus_addr. With --replan-every the " +
			"plan for the current day is regenerated on that interval so the gauges stay current.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return root.withService(func(svc *app.Service) error {
				return svc.ServeMetrics(ctx, every)
			})
		},
	}
	cmd.Flags().DurationVar(&every, "replan-every", 0, "regenerate today's plan on this interval (0 disables)")
	return cmd
}
