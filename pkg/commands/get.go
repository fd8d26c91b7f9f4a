package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/commands/options"
	"tableflip.dev/timeline/pkg/runner/get"
	"tableflip.dev/timeline/pkg/stats"
)

func addGet(topLevel *cobra.Command) {
	to := &options.TrackOptions{}
	on := &options.OnOptions{}
	io := &options.IDOptions{}
	search := ""

	cmd := &cobra.Command{
		Use:     "get",
		Aliases: []string{"ls", "log"},
		Short:   "Show the timeline, newest day first",
		Example: `
timeline get
timeline get --track Gym
timeline get --search "leg day" --show-id
timeline get --on 2025-02-28
`,
		Args:              cobra.NoArgs,
		ValidArgsFunction: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			date, err := on.Date()
			if err != nil {
				return oo.HandleError(err)
			}
			return run(func(ctx context.Context, svc *app.Service) error {
				s := get.Get{
					Service: svc,
					ShowID:  io.ShowID,
					Filter: stats.Filter{
						Track:  to.Selector(),
						Search: search,
						Date:   date,
					},
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddTrackArgs(cmd, to, "Only show entries of this track.")
	_ = cmd.RegisterFlagCompletionFunc("track", trackCompletions)
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show entries whose text contains this, ignoring case.")
	options.AddOnArgs(cmd, on)
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addRm(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <entry id>",
		Aliases: []string{"delete"},
		Short:   "Delete an entry",
		Example: `
timeline get --show-id
timeline rm lx2k1qz3f9a8b7c6d5
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, svc *app.Service) error {
				return svc.DeleteEntry(ctx, args[0])
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
