package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/commands/options"
	"tableflip.dev/timeline/pkg/runner/stats"
)

func addStats(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}
	to := &options.TrackOptions{}

	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"report"},
		Short:   "Show streak, per-track counts and heatmaps",
		Example: `
timeline stats
timeline stats --window 2w
timeline stats --track Gym
`,
		Args:              cobra.NoArgs,
		ValidArgsFunction: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			days, err := wo.Days()
			if err != nil {
				return oo.HandleError(err)
			}
			return run(func(ctx context.Context, svc *app.Service) error {
				s := stats.Stats{
					Service: svc,
					Days:    days,
					Track:   to.Track,
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddWindowArgs(cmd, wo)
	options.AddTrackArgs(cmd, to, "Only show the heatmap of this track.")
	_ = cmd.RegisterFlagCompletionFunc("track", trackCompletions)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
