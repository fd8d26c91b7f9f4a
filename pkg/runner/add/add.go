package add

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/printers"
	"tableflip.dev/timeline/pkg/stats"
)

// Add records one entry and prints it.
type Add struct {
	Service *app.Service
	Track   string
	Content string
	Image   string
	On      *time.Time
	ShowID  bool

	Printer *printers.PrettyPrint
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	track := stats.AnyTrack
	if n.Track != "" {
		track = stats.OnlyTrack(n.Track)
	}
	e, err := n.Service.AddEntry(ctx, app.NewEntry{
		Track:     track,
		Content:   n.Content,
		ImagePath: n.Image,
		On:        n.On,
	})
	if err != nil {
		return err
	}

	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{ShowID: n.ShowID}
	}
	pp.NewLine()
	pp.Title(stats.RelativeLabel(e.Date, n.Service.Now()))
	pp.Entries(e)
	return nil
}
