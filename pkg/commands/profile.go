package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/commands/options"
	"tableflip.dev/timeline/pkg/runner/profile"
)

func addProfile(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	runProfile := func(fn func(ctx context.Context, p *profile.Profile) error) error {
		return run(func(ctx context.Context, svc *app.Service) error {
			return fn(ctx, &profile.Profile{Service: svc, ShowID: io.ShowID})
		})
	}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
		Example: `
timeline profile
timeline profile set "Ada Lovelace" ada
timeline profile avatar ~/Pictures/me.jpg
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runProfile(func(ctx context.Context, p *profile.Profile) error {
				return p.Show(ctx)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runProfile(func(ctx context.Context, p *profile.Profile) error {
				return p.Show(ctx)
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <name> <username>",
		Short: base.Wrap80("Set your name and username. Usernames are 3 to 20 letters, numbers or underscores and are stored lowercase."),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runProfile(func(ctx context.Context, p *profile.Profile) error {
				return p.Set(ctx, args[0], args[1])
			})
		},
	}

	avatar := &cobra.Command{
		Use:   "avatar [image]",
		Short: "Set your avatar image, or clear it when no image is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runProfile(func(ctx context.Context, p *profile.Profile) error {
				return p.Avatar(ctx, path)
			})
		},
	}

	for _, sub := range []*cobra.Command{show, set, avatar} {
		base.AddOutputArg(sub, oo)
		cmd.AddCommand(sub)
	}
	cmd.PersistentFlags().BoolVarP(&io.ShowID, "show-id", "k", false,
		"Show the profile ID.")
	topLevel.AddCommand(cmd)
}
