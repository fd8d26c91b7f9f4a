package commands

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/commands/options"
	"tableflip.dev/timeline/pkg/runner/track"
)

func addTrack(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "track",
		Aliases: []string{"tracks"},
		Short:   "Manage tracks, the categories entries are filed under",
		Example: `
timeline track add Gym --color "#EF4444"
timeline track rename Gym Fitness
timeline track ls
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runTrack(io, func(ctx context.Context, t *track.Track) error {
				return t.List(ctx)
			})
		},
	}

	color := ""
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runTrack(io, func(ctx context.Context, t *track.Track) error {
				return t.Add(ctx, args[0], color)
			})
		},
	}
	add.Flags().StringVar(&color, "color", "", "Hex color, example: --color=#10B981. Picked at random when empty.")

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tracks with their entry counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runTrack(io, func(ctx context.Context, t *track.Track) error {
				return t.List(ctx)
			})
		},
	}

	rename := &cobra.Command{
		Use:               "rename <name> <new name>",
		Short:             "Rename a track and every entry filed under it",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: firstArgTrack,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runTrack(io, func(ctx context.Context, t *track.Track) error {
				return t.Rename(ctx, args[0], args[1])
			})
		},
	}

	recolor := &cobra.Command{
		Use:               "color <name> <hex>",
		Short:             "Change a track color; existing entries keep theirs",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: firstArgTrack,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runTrack(io, func(ctx context.Context, t *track.Track) error {
				return t.Recolor(ctx, args[0], args[1])
			})
		},
	}

	rm := &cobra.Command{
		Use:               "rm <name>",
		Aliases:           []string{"delete"},
		Short:             "Delete a track and every entry filed under it",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: firstArgTrack,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runTrack(io, func(ctx context.Context, t *track.Track) error {
				return t.Remove(ctx, args[0])
			})
		},
	}

	clr := &cobra.Command{
		Use:   "clear",
		Short: "Delete every track; entries are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runTrack(io, func(ctx context.Context, t *track.Track) error {
				return t.Clear(ctx)
			})
		},
	}

	for _, sub := range []*cobra.Command{add, ls, rename, recolor, rm, clr} {
		base.AddOutputArg(sub, oo)
		cmd.AddCommand(sub)
	}
	cmd.PersistentFlags().BoolVarP(&io.ShowID, "show-id", "k", false,
		"Show the ID of each track.")
	topLevel.AddCommand(cmd)
}

func runTrack(io *options.IDOptions, fn func(ctx context.Context, t *track.Track) error) error {
	return run(func(ctx context.Context, svc *app.Service) error {
		t := &track.Track{Service: svc, ShowID: io.ShowID}
		return fn(ctx, t)
	})
}

func trackNames(toComplete string) []string {
	svc, _, err := open(context.Background())
	if err != nil {
		return nil
	}
	defer svc.Close()
	var names []string
	for _, t := range svc.Tracks.Tracks() {
		if !strings.HasPrefix(strings.ToLower(t.Name), strings.ToLower(toComplete)) {
			continue
		}
		names = append(names, strconv.Quote(t.Name))
	}
	return names
}

func trackCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return trackNames(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func firstArgTrack(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return trackNames(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func noArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveNoFileComp
}
