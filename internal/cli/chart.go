package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/domain/chart"
	"ledger_dashboard/internal/sheets"

	"github.com/spf13/cobra"
)

type chartOptions struct {
	month  int
	year   int
	export bool
}

func newChartCommand(rt *runtime) *cobra.Command {
	var opts chartOptions

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show the server balance for a month",
		Long: `Show the total balance and number of tracked players across the
server for a month. Only 2022 has history.

Examples:
  ledger chart
  ledger chart --month 5 --export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd.Context(), rt, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.month, "month", chart.DefaultMonth, "Month (1-12)")
	cmd.Flags().IntVar(&opts.year, "year", chart.SupportedYear, "Year")
	cmd.Flags().BoolVar(&opts.export, "export", false, "Write the samples to the spreadsheet")

	return cmd
}

func runChart(ctx context.Context, rt *runtime, out io.Writer, opts chartOptions) error {
	controller, err := chart.NewController(rt.session, rt.ledger)
	if errors.Is(err, app.ErrUnauthorized) {
		fmt.Fprintln(out, app.UnauthorizedMessage)
		return nil
	}
	if err != nil {
		return err
	}

	if err := controller.SetYear(opts.year); err != nil {
		return err
	}
	if err := controller.SetMonth(opts.month); err != nil {
		return err
	}

	samples, err := controller.Search(ctx)
	if err != nil {
		renderFailure(out, err)
		return err
	}

	renderServerChart(out, opts.year, controller.Month(), samples)

	if opts.export && len(samples) > 0 {
		exporter, err := rt.exporter(ctx)
		if err != nil {
			return err
		}
		sheetName := sheets.ChartSheetName(opts.year, controller.Month())
		if err := exporter.ExportServerChart(ctx, sheetName, samples); err != nil {
			return fmt.Errorf("failed to export server chart: %w", err)
		}
		fmt.Fprintf(out, "Exported %d samples to %q\n", len(samples), sheetName)
	}
	return nil
}
