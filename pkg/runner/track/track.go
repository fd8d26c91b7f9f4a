// Package track provides runners that manage tracks.
package track

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/printers"
	"tableflip.dev/timeline/pkg/stats"
	"tableflip.dev/timeline/pkg/store"
)

// Track runs the track subcommands against a service.
type Track struct {
	Service *app.Service
	ShowID  bool

	Printer *printers.PrettyPrint
}

func (n *Track) printer() *printers.PrettyPrint {
	if n.Printer == nil {
		n.Printer = &printers.PrettyPrint{ShowID: n.ShowID}
	}
	return n.Printer
}

func (n *Track) check() error {
	if n.Service == nil {
		return errors.New("can not manage tracks, no service")
	}
	return nil
}

// List prints every track with its counts.
func (n *Track) List(ctx context.Context) error {
	if err := n.check(); err != nil {
		return err
	}
	tracks := n.Service.Tracks.Tracks()
	counts := stats.PerTrack(n.Service.Timeline.Items(), tracks, n.Service.Now())
	n.printer().Tracks(tracks, counts)
	return nil
}

// Add creates a track and reprints the list.
func (n *Track) Add(ctx context.Context, name, color string) error {
	if err := n.check(); err != nil {
		return err
	}
	if _, err := n.Service.Tracks.Add(ctx, name, color); err != nil {
		return err
	}
	return n.List(ctx)
}

// Rename moves a track, and all of its entries, to a new name.
func (n *Track) Rename(ctx context.Context, from, to string) error {
	t, err := n.lookup(from)
	if err != nil {
		return err
	}
	if _, err := n.Service.Tracks.Update(ctx, t, store.Patch{Name: &to}); err != nil {
		return err
	}
	return n.List(ctx)
}

// Recolor changes a track color. Existing entries keep their color.
func (n *Track) Recolor(ctx context.Context, name, color string) error {
	t, err := n.lookup(name)
	if err != nil {
		return err
	}
	if _, err := n.Service.Tracks.Update(ctx, t, store.Patch{Color: &color}); err != nil {
		return err
	}
	return n.List(ctx)
}

// Remove deletes a track and every entry filed under it.
func (n *Track) Remove(ctx context.Context, name string) error {
	id, err := n.lookup(name)
	if err != nil {
		return err
	}
	count := n.Service.Tracks.StatsFor(ctx, id)
	if err := n.Service.Tracks.Remove(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(n.printer().Writer(), "Removed %s and %d entries.\n", name, count)
	return nil
}

// Clear drops every track. Entries stay.
func (n *Track) Clear(ctx context.Context) error {
	if err := n.check(); err != nil {
		return err
	}
	return n.Service.Tracks.Clear(ctx)
}

func (n *Track) lookup(name string) (string, error) {
	if err := n.check(); err != nil {
		return "", err
	}
	t, ok := n.Service.Tracks.GetByName(name)
	if !ok {
		return "", fmt.Errorf("track %q: %w", name, store.ErrNotFound)
	}
	return t.ID, nil
}
