package get

import (
	"context"
	"errors"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/printers"
	"tableflip.dev/timeline/pkg/stats"
)

// Get prints the timeline grouped by day.
type Get struct {
	Service *app.Service
	Filter  stats.Filter
	ShowID  bool

	Printer *printers.PrettyPrint
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}
	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{ShowID: n.ShowID}
	}
	pp.NewLine()
	pp.Groups(n.Service.Groups(n.Filter), n.Service.Now())
	return nil
}
