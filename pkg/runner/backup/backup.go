// Package backup exports and imports the user's data.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tableflip.dev/timeline/pkg/app"
)

type Export struct {
	Service *app.Service
	Format  app.Format
	// Path is the destination file; empty writes to Out.
	Path string
	Out  io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not export, no service")
	}
	if n.Path == "" {
		out := n.Out
		if out == nil {
			out = os.Stdout
		}
		return n.Service.Export(out, n.Format)
	}
	f, err := os.Create(n.Path)
	if err != nil {
		return err
	}
	if err := n.Service.Export(f, n.Format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

type Import struct {
	Service *app.Service
	Path    string
	Out     io.Writer
}

func (n *Import) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not import, no service")
	}
	f, err := os.Open(n.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := app.DecodeBackup(f)
	if err != nil {
		return err
	}
	res, err := n.Service.Import(ctx, b)
	if err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintf(out, "Imported %d tracks and %d entries, skipped %d existing.\n", res.Tracks, res.Entries, res.Skipped)
	return nil
}
