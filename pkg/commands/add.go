package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/commands/options"
	"tableflip.dev/timeline/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	ao := &options.AddOptions{}
	to := &options.TrackOptions{}
	on := &options.OnOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add an entry to a track",
		Example: `
timeline add --track Gym leg day
timeline add --track Garden --image ~/Pictures/tomatoes.jpg first harvest
timeline add --track Reading --on 2025-02-28 finished Dune
`,
		Args: func(cmd *cobra.Command, args []string) error {
			ao.Content = strings.Join(args, " ")
			return nil
		},
		ValidArgsFunction: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			day, err := on.GetOn()
			if err != nil {
				return oo.HandleError(err)
			}
			return run(func(ctx context.Context, svc *app.Service) error {
				s := add.Add{
					Service: svc,
					Track:   to.Track,
					Content: ao.Content,
					Image:   ao.Image,
					On:      day,
					ShowID:  io.ShowID,
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddTrackArgs(cmd, to, "Track to file the entry under.")
	_ = cmd.RegisterFlagCompletionFunc("track", trackCompletions)
	options.AddEntryArgs(cmd, ao)
	options.AddOnArgs(cmd, on)
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
