package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/runner/compare"
)

func addCompare(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "compare <entry id> <entry id>",
		Short: "Show two entries side by side",
		Example: `
timeline get --show-id
timeline compare lx2k1qz3f9a8b7c6d5 lx9p0c1d2e3f4a5b6c
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, svc *app.Service) error {
				s := compare.Compare{Service: svc, A: args[0], B: args[1]}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
