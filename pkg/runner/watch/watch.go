// Package watch reprints statistics whenever another process writes the
// store.
package watch

import (
	"context"
	"errors"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/runner/stats"
)

type Watch struct {
	Service *app.Service
	Days    int
}

// Do prints once, then again after every change until ctx is done.
func (n *Watch) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not watch, no service")
	}
	events, err := n.Service.Watch(ctx)
	if err != nil {
		return err
	}
	s := stats.Stats{Service: n.Service, Days: n.Days}
	if err := s.Do(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			n.Service.Log.Debug(ctx, "store changed", "key", ev.Key)
			n.Service.Load(ctx)
			if err := s.Do(ctx); err != nil {
				return err
			}
		}
	}
}
