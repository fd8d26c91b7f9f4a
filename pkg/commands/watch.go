package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/commands/options"
	"tableflip.dev/timeline/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint statistics whenever the timeline changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			days, err := wo.Days()
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, svc *app.Service) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()
				s := watch.Watch{Service: svc, Days: days}
				return s.Do(ctx)
			})
		},
	}

	options.AddWindowArgs(cmd, wo)
	topLevel.AddCommand(cmd)
}
