// Command reminders runs the reminder service and its maintenance commands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/antoniostano/reminders/internal/config"
	"github.com/antoniostano/reminders/internal/logging"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Natural-language reminder service",
	Long: `reminders turns free text such as "Mom birthday July 4" into dated,
categorized reminders, stores them, and flags the ones due today.

Without a subcommand it runs the HTTP service with the due-reminder scanner.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		cfg = loaded
		logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, addCmd, listCmd, scanCmd)
}

// loadEnvFile applies a dotenv file without overriding variables already set.
// A missing default file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
