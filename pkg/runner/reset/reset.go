package reset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tableflip.dev/timeline/pkg/app"
)

// ErrNotConfirmed is returned when Reset runs without Confirmed.
var ErrNotConfirmed = errors.New("reset deletes every entry, track and the profile; pass --yes to confirm")

type Reset struct {
	Service   *app.Service
	Confirmed bool
	Out       io.Writer
}

func (n *Reset) Do(ctx context.Context) error {
	if !n.Confirmed {
		return ErrNotConfirmed
	}
	if n.Service == nil {
		return errors.New("can not reset, no service")
	}
	if err := n.Service.ResetAll(ctx); err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintln(out, "All data cleared.")
	return nil
}
