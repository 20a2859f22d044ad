// Command stockwatch runs the watchlist bot outside Lambda: once, on a local
// cron schedule, or to inspect recorded runs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/andrew-pixel/Stock-Alerts/pkg/app"
	"github.com/andrew-pixel/Stock-Alerts/pkg/config"
	"github.com/andrew-pixel/Stock-Alerts/pkg/logger"
	"github.com/andrew-pixel/Stock-Alerts/pkg/recorder"
	"github.com/andrew-pixel/Stock-Alerts/pkg/scheduler"
	"github.com/andrew-pixel/Stock-Alerts/pkg/stocks"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stockwatch",
		Short:         "Watchlist price moves and target-price alerts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newScheduleCmd(), newHistoryCmd())
	return root
}

// setup loads and validates config and builds the logger
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newRunCmd() *cobra.Command {
	var (
		eventType string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the watchlist and alerts once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			bot, cleanup, err := app.BuildWithClient(ctx, cfg, log, localHTTPClient())
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := recorder.Open(cfg.Recorder.SQLitePath)
			if err != nil {
				return err
			}
			defer rec.Close()

			report, runErr := bot.Run(ctx, stocks.Event{EventType: eventType})
			if report != nil {
				if err := rec.RecordReport(ctx, report); err != nil {
					log.Error("failed to record report", zap.Error(err))
				}
				if err := printReport(cmd, report, asJSON); err != nil {
					return err
				}
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&eventType, "event", "", `event type, "close" refreshes every baseline`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func newScheduleCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run on the intraday and close cron schedules until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bot, cleanup, err := app.BuildWithClient(ctx, cfg, log, localHTTPClient())
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := recorder.Open(cfg.Recorder.SQLitePath)
			if err != nil {
				return err
			}
			defer rec.Close()

			s, err := scheduler.NewScheduler(ctx, cfg.Schedule.Timezone, bot, rec, log)
			if err != nil {
				return err
			}
			if err := s.RegisterAll(cfg.Schedule); err != nil {
				return err
			}
			if runOnStart {
				s.RunNow("")
			}

			s.Start()
			<-ctx.Done()
			s.Stop()
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run once immediately before waiting for the schedule")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Recorder.SQLitePath == "" {
				return fmt.Errorf("recorder.sqlite_path is not set")
			}
			rec, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
			if err != nil {
				return err
			}
			defer rec.Close()

			runs, err := rec.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tEVENT\tOK\tSKIPPED\tFAILED\tWARNINGS\tRUN ID")
			for _, r := range runs {
				event := r.EventType
				if event == "" {
					event = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					r.StartedAt.Format("2006-01-02 15:04:05"), event, r.Succeeded, r.Skipped, r.Failed, r.Warnings, r.RunID)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}

func printReport(cmd *cobra.Command, report *stocks.Report, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	_, err := fmt.Fprintln(out, report.Summary())
	return err
}

// localHTTPClient bounds each call, since local runs have no invocation deadline
func localHTTPClient() *http.Client {
	return &http.Client{Timeout: app.LocalHTTPTimeout}
}
