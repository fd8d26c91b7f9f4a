// Package stats prints the statistics view: summary, per-track counts and
// heatmaps.
package stats

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/printers"
	"tableflip.dev/timeline/pkg/track"
)

type Stats struct {
	Service *app.Service
	// Days is the heatmap window; zero uses the configured default.
	Days int
	// Track limits the heatmaps to one track.
	Track string

	Printer *printers.PrettyPrint
}

func (n *Stats) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no service")
	}
	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}

	r := n.Service.Report(n.Days)
	pp.NewLine()
	pp.Title("Statistics")
	pp.Summary(r.Summary)

	shown := 0
	for _, tr := range r.Tracks {
		if n.Track != "" && !track.SameName(tr.Name, n.Track) {
			continue
		}
		pp.Heatmap(tr.TrackStats, tr.Cells)
		shown++
	}
	if n.Track != "" && shown == 0 {
		return fmt.Errorf("no track named %q", n.Track)
	}
	return nil
}
