package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/commands/options"
	"tableflip.dev/timeline/pkg/runner/backup"
)

func addExport(topLevel *cobra.Command) {
	fo := &options.FormatOptions{}
	file := ""

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every entry, track and the profile as JSON or YAML",
		Example: `
timeline export > backup.json
timeline export -o yaml --file backup.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			format, err := fo.Get()
			if err != nil {
				return oo.HandleError(err)
			}
			return run(func(ctx context.Context, svc *app.Service) error {
				s := backup.Export{Service: svc, Format: format, Path: file, Out: cmd.OutOrStdout()}
				return s.Do(ctx)
			})
		},
	}

	options.AddFormatArgs(cmd, fo)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout.")
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: base.Wrap80("Merge a backup written by export. Existing tracks and entries are kept."),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(func(ctx context.Context, svc *app.Service) error {
				s := backup.Import{Service: svc, Path: args[0], Out: cmd.OutOrStdout()}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
