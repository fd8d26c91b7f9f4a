package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/config"
	"tableflip.dev/timeline/pkg/logging"
	"tableflip.dev/timeline/pkg/printers"
	"tableflip.dev/timeline/pkg/store"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: base.Wrap80("Track habits and moments on a timeline from the command line."),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			printers.ConfigureColor(os.Stdout)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addGet(topLevel)
	addRm(topLevel)
	addTrack(topLevel)
	addStats(topLevel)
	addProfile(topLevel)
	addCompare(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addDoctor(topLevel)
	addReset(topLevel)
	addWatch(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// open loads config and every store. Callers must Close the service.
func open(ctx context.Context) (*app.Service, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logging.New(os.Stderr, cfg.LogLevel())
	svc, err := app.Open(ctx, cfg, log)
	if err != nil {
		return nil, cfg, err
	}
	return svc, cfg, nil
}

// run opens the service, hands it to fn and closes it again.
func run(fn func(ctx context.Context, svc *app.Service) error) error {
	ctx := context.Background()
	svc, _, err := open(ctx)
	if err != nil {
		return oo.HandleError(err)
	}
	defer svc.Close()
	return oo.HandleError(friendly(fn(ctx, svc)))
}

// friendly keeps validation and not-found messages as they are and tells
// the user plainly when a write did not stick.
func friendly(err error) error {
	if err == nil || !store.IsStorage(err) {
		return err
	}
	return fmt.Errorf("failed to save, try again: %w", err)
}
