package options

import (
	"github.com/spf13/cobra"
)

// AddOptions
type AddOptions struct {
	Content string
	Image   string
}

func AddEntryArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringVar(&o.Image, "image", "",
		`Attach an image; it is copied into the timeline image directory.`)
}
