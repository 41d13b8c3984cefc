package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pawpal/app"
	"github.com/kilianp07/pawpal/config"
	coremon "github.com/kilianp07/pawpal/core/monitoring"
	"github.com/kilianp07/pawpal/infra/logger"
	"github.com/kilianp07/pawpal/infra/monitoring"
)

type rootOptions struct {
	cfgPath string
}

// NewRootCmd builds the pawpal command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "pawpal",
		Short:         "Daily pet care planner",
		Long:          "pawpal turns a list of pet care tasks into a prioritised daily plan that fits the owner's available time.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "pawpal.yaml", "configuration file (yaml or json)")
	root.AddCommand(
		newPlanCmd(opts),
		newConflictsCmd(opts),
		newCompleteCmd(opts),
		newHistoryCmd(opts),
		newServeMetricsCmd(opts),
	)
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }

// withService loads the configuration, sets up error monitoring, builds the
// service, runs fn and closes the service.
func (o *rootOptions) withService(fn func(*app.Service) error) error {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Monitoring)
	if err != nil {
		logger.New("main").Warnf("error monitoring disabled: %v", err)
	} else {
		coremon.Init(mon)
	}
	defer coremon.Flush(2 * time.Second)
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return fn(svc)
}
