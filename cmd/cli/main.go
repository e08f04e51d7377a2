package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"greenpulse/app"
	"greenpulse/internal"
	"greenpulse/internal/config"
	"greenpulse/internal/dashboard"
	"greenpulse/internal/report"
	"greenpulse/ui"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "greenpulse",
		Short:         "NDVI by income group: derived chart views from a small tabular dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSummaryCmd(),
		newResolveCmd(),
		newTooltipCmd(),
		newReportCmd(),
		newServeCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// startService loads configuration and performs the first load
func startService(ctx context.Context) (*app.DashboardService, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	svc, err := app.NewDashboardService(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if _, err := svc.Start(ctx); err != nil {
		svc.Close()
		return nil, nil, err
	}
	return svc, cfg, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the ingest report, baseline and year extent",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			d := svc.Dashboard()
			start, end := d.BaselineWindow()
			return printJSON(map[string]interface{}{
				"load_id":        d.LoadID().String(),
				"ingest":         d.Report(),
				"baseline_start": start,
				"baseline_end":   end,
				"baseline":       d.Views().Baseline,
				"years":          d.Views().YearExtent,
				"values":         d.Views().ValueExtent,
				"trends":         d.Views().Trends,
			})
		},
	}
}

func newResolveCmd() *cobra.Command {
	var year int
	var hidden []string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the visible categories' percent change at a year",
		Long: `Resolve the value of every visible category at one year.

Example: greenpulse resolve --year 2010 --hide "High income"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			d := svc.Dashboard()
			hideCategories(d, hidden)
			return printJSON(map[string]interface{}{
				"year":   year,
				"values": d.ResolveAtYear(year),
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year to resolve")
	cmd.Flags().StringSliceVar(&hidden, "hide", nil, "Categories to hide")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func newTooltipCmd() *cobra.Command {
	var x float64
	var hidden []string

	cmd := &cobra.Command{
		Use:   "tooltip",
		Short: "Print the tooltip rows for a pointer position in year units",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			d := svc.Dashboard()
			hideCategories(d, hidden)
			tip, ok := d.TooltipAt(x)
			if !ok {
				fmt.Println("no data")
				return nil
			}
			fmt.Printf("%d\n", tip.Year)
			for _, row := range tip.Rows {
				fmt.Printf("  %-22s %s\n", row.Category, row.Label)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "Pointer position in year units")
	cmd.Flags().StringSliceVar(&hidden, "hide", nil, "Categories to hide")
	_ = cmd.MarkFlagRequired("x")

	return cmd
}

func hideCategories(d *dashboard.Dashboard, labels []string) {
	for _, label := range labels {
		if c, ok := d.Categories().Resolve(label); ok && d.State().Visible(c) {
			d.Toggle(c)
		}
	}
}

func newReportCmd() *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the load report as markdown or HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := startService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			s := report.FromDashboard(svc.Dashboard())
			md := report.Markdown(s)
			if asHTML {
				_, err = os.Stdout.Write(report.Page(s.Title, md))
				return err
			}
			_, err = os.Stdout.Write(md)
			return err
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML instead of markdown")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and the report page",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, cfg, err := startService(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			gin.SetMode(cfg.Server.GinMode)
			logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
			server := ui.NewServer(svc.Dashboard(), svc.Reload, logger)
			reportApp := server.ReportApp()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Start(gctx, cfg.Server.Port)
			})
			g.Go(func() error {
				return reportApp.Start(gctx, ui.Config{Port: cfg.Server.UIPort})
			})
			return g.Wait()
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Normalize DATA_FILE and replace the Postgres table with it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

			n, err := app.Import(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d records into %s\n", n, cfg.Database.Table)
			return nil
		},
	}
}
