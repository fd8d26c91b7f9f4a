package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/timeline/pkg/timeutil"
)

// WindowOptions sets the stats window.
type WindowOptions struct {
	Window string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVarP(&o.Window, "window", "w", "",
		`Days to cover, example: --window=60d, --window=2w. Defaults to the configured heatmap-days.`)
}

// Days returns the window in days, zero when unset.
func (o *WindowOptions) Days() (int, error) {
	if o.Window == "" {
		return 0, nil
	}
	days, _, err := timeutil.ParseWindow(o.Window)
	return days, err
}
