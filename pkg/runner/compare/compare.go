package compare

import (
	"context"
	"errors"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/printers"
)

// Compare prints two entries side by side.
type Compare struct {
	Service *app.Service
	A, B    string

	Printer *printers.PrettyPrint
}

func (n *Compare) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not compare, no service")
	}
	c, err := n.Service.Compare(n.A, n.B)
	if err != nil {
		return err
	}
	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.NewLine()
	pp.Comparison(c)
	return nil
}
