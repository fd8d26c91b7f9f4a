// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/timeline/pkg/stats"
)

// TrackOptions selects a track by name.
type TrackOptions struct {
	Track string
}

// AddTrackArgs wires the --track flag on the provided command.
func AddTrackArgs(cmd *cobra.Command, o *TrackOptions, usage string) {
	cmd.Flags().StringVarP(&o.Track, "track", "t", "", usage)
}

// Selector turns the flag into a stats selector; unset means every track.
func (o *TrackOptions) Selector() stats.TrackSelector {
	if o.Track == "" {
		return stats.AnyTrack
	}
	return stats.OnlyTrack(o.Track)
}
