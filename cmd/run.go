package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/app"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screen"
)

// runApp opens the dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d, err := openDeps(cmd, false)
	if err != nil {
		return err
	}
	defer d.Close()

	d.logger.Info().Msg("starting quiz")
	env := &screen.Env{
		Ctx:         ctx,
		Machine:     d.machine(),
		Generator:   d.generator(ctx),
		Leads:       d.ledger,
		NewExporter: d.exporterFactory(),
		Logger:      d.logger,
	}
	return app.Run(env)
}
