package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/timeline/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the config and where data is stored.",
		Example: `
timeline info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, cfg, err := open(ctx)
			if err != nil && cfg == nil {
				return oo.HandleError(err)
			}
			if svc != nil {
				defer svc.Close()
			}
			s := info.Info{
				Config:  cfg,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			err = s.Do(ctx)
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
