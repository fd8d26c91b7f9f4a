package doctor

import (
	"context"
	"errors"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/printers"
)

// ErrUnhealthy is returned when problems were printed, so scripts can
// check the exit code.
var ErrUnhealthy = errors.New("problems found")

type Doctor struct {
	Service *app.Service

	Printer *printers.PrettyPrint
}

func (n *Doctor) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not inspect, no service")
	}
	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	d := n.Service.Doctor()
	pp.Problems("entries without a track", d.Orphans)
	pp.Problems("entries with a missing image", d.MissingImages)
	if !d.Healthy() {
		return ErrUnhealthy
	}
	return nil
}
