package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/eduspark/internal/app"
	"github.com/abhisek/eduspark/internal/generator"
	"github.com/abhisek/eduspark/internal/screens"
)

// runApp wires the services and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	svc := &screens.Services{
		Tracker: rt.tracker(ctx),
		Events:  rt.store.EventRepo(),
		Logger:  rt.log,
	}

	gen, err := rt.generator(ctx)
	if err != nil {
		// The app still opens so progress and history stay reachable.
		rt.log.Warn("study pack generation unavailable", zap.Error(err))
		svc.SetupHint = setupHint
	} else {
		svc.Controller = generator.NewController(gen)
	}

	return app.Run(svc)
}
