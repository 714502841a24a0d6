// Command workmain is a personal work-management assistant: free-text
// notes with routing tags, time tracking with Clockify sync, and
// AI-generated daily and weekly reports.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhagen/workmain/internal/model"
)

var Version = "dev"

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "workmain",
		Short:         "Work notes, time tracking, and AI-generated reports",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", model.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (overrides config)")

	rootCmd.AddCommand(noteCmd(a))
	rootCmd.AddCommand(trackCmd(a))
	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(clientCmd(a))
	rootCmd.AddCommand(meetingsCmd(a))
	rootCmd.AddCommand(syncCmd(a))
	rootCmd.AddCommand(authCmd(a))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}
