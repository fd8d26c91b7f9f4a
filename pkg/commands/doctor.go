package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/runner/doctor"
	"tableflip.dev/timeline/pkg/runner/reset"
)

func addDoctor(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Find entries whose track or image is gone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, svc *app.Service) error {
				s := doctor.Doctor{Service: svc}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addReset(topLevel *cobra.Command) {
	yes := false

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every entry and track and reset the profile",
		Example: `
timeline export > backup.json
timeline reset --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if !yes {
				return oo.HandleError(reset.ErrNotConfirmed)
			}
			return run(func(ctx context.Context, svc *app.Service) error {
				s := reset.Reset{Service: svc, Confirmed: yes, Out: cmd.OutOrStdout()}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset.")
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
