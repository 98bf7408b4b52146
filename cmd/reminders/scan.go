package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/antoniostano/reminders/internal/app"
	"github.com/antoniostano/reminders/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one due-reminder scan and print what is due today",
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	notifier := scanner.NotifierFunc(func(_ context.Context, ev scanner.DueEvent) error {
		_, err := fmt.Fprintf(out, "Reminder Today! [%s] - %s\n", ev.Category, ev.Description)
		return err
	})

	built, err := app.Build(cmd.Context(), cfg, app.Options{
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Notifier: notifier,
	})
	if err != nil {
		return err
	}
	defer built.Cleanup()

	events, err := built.Scanner.ScanOnce(cmd.Context())
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "Nothing due today.")
	}
	return nil
}
