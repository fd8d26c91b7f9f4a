package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/config"
)

// Info reports where data lives and how much there is.
type Info struct {
	Config  config.Config
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = os.Stdout
	}

	if override := os.Getenv(config.EnvConfigPath); override != "" {
		_, _ = fmt.Fprintf(out, "%s found on env, using %s\n", config.EnvConfigPath, override)
	} else {
		_, _ = fmt.Fprintf(out, "%s env var not set\n", config.EnvConfigPath)
	}

	if n.Config == nil {
		var err error
		n.Config, err = config.Load()
		if err != nil {
			return err
		}
	}
	if f := n.Config.File(); f != "" {
		_, _ = fmt.Fprintln(out, "Config.file:", f)
	}
	_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.backend:", n.Config.Backend())
	_, _ = fmt.Fprintln(out, "Config.images:", n.Config.ImagesPath())

	if n.Service == nil {
		return fmt.Errorf("failed to open the store")
	}
	_, _ = fmt.Fprintf(out, "Tracks: %d\n", len(n.Service.Tracks.Tracks()))
	_, _ = fmt.Fprintf(out, "Entries: %d\n", n.Service.Timeline.Len())
	_, _ = fmt.Fprintf(out, "Setup done: %t\n", n.Service.Setup.Done(ctx))
	return nil
}
