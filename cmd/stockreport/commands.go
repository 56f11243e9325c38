package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"stockreport/internal/model"
	"stockreport/internal/scheduler"
)

func newRunCmd(app *App) *cobra.Command {
	var eventPath string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and email the report once",
		Long: `Generate and email the report once.

The optional event payload overrides the configured ticker table:

  tickers:
    AAPL: Apple Inc. - Technology company
    MSFT: Microsoft Corporation - Software company

JSON is accepted too. Pass "-" to read it from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := readEvent(eventPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			inv := model.DefaultInvocation()
			inv.RemainingTime = timeout

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res := app.Orchestrator.Run(ctx, inv, ev)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&eventPath, "event", "e", "", "Event payload file (YAML or JSON), - for stdin")
	cmd.Flags().StringVarP(&app.OutPath, "out", "o", "", "Also write the HTML report to this file")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the run after this long (0 = no limit)")
	return cmd
}

func newScheduleCmd(app *App) *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the report on the configured cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, app.Orchestrator)
			if err := sched.Register(app.Config.Schedule.Cron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if runNow || os.Getenv("RUN_ON_START") == "true" {
				log.Info().Msg("running report now")
				go sched.RunNow()
			}

			log.Info().Str("cron", app.Config.Schedule.Cron).Msg("stockreport is running, press Ctrl+C to stop")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Info().Msg("shutdown signal received, stopping")
			cancel()
			return nil
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "Run once immediately after starting")
	return cmd
}

// readEvent loads the invocation payload. An empty path yields the zero event.
func readEvent(path string, stdin io.Reader) (model.Event, error) {
	var ev model.Event
	if path == "" {
		return ev, nil
	}
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return ev, fmt.Errorf("read event: %w", err)
	}
	if err := yaml.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("parse event: %w", err)
	}
	return ev, nil
}
