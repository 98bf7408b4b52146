package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/antoniostano/reminders/internal/app"
	"github.com/antoniostano/reminders/internal/reminders"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reminders in creation order",
	RunE:  runList,
}

func init() {
	listCmd.Flags().Bool("json", false, "print the reminders as a JSON array")
}

func runList(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	built, err := app.Build(cmd.Context(), cfg, app.Options{Logger: logger, Registry: prometheus.NewRegistry()})
	if err != nil {
		return err
	}
	defer built.Cleanup()

	all, err := built.Intake.ListReminders(cmd.Context())
	if err != nil {
		return err
	}
	return formatReminders(cmd, all, jsonOutput)
}

func formatReminders(cmd *cobra.Command, all []reminders.Reminder, jsonOutput bool) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		if all == nil {
			all = []reminders.Reminder{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}
	if len(all) == 0 {
		fmt.Fprintln(out, "No reminders.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tDESCRIPTION")
	for _, r := range all {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Date, r.Category, r.Description)
	}
	return tw.Flush()
}
