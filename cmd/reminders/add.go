package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/antoniostano/reminders/internal/app"
	"github.com/antoniostano/reminders/internal/intake"
)

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a reminder from free text",
	Example: `  reminders add Mom birthday July 4
  reminders add "Pay rent by next Friday"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	built, err := app.Build(cmd.Context(), cfg, app.Options{Logger: logger, Registry: prometheus.NewRegistry()})
	if err != nil {
		return err
	}
	defer built.Cleanup()

	rem, err := built.Intake.AddReminder(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), intake.ConfirmationMessage(rem))
	return nil
}
