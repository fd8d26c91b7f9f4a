package options

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/timeline/pkg/app"
)

// FormatOptions picks an export encoding.
type FormatOptions struct {
	Format string
}

func AddFormatArgs(cmd *cobra.Command, o *FormatOptions) {
	cmd.Flags().StringVarP(&o.Format, "output", "o", string(app.FormatJSON),
		"Output format. One of 'json' or 'yaml'.")
}

func (o *FormatOptions) Get() (app.Format, error) {
	switch f := app.Format(o.Format); f {
	case app.FormatJSON, app.FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", o.Format)
	}
}
