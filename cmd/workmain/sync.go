package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhagen/workmain/internal/clockify"
	"github.com/mhagen/workmain/internal/credential"
)

func syncCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push local data to external services",
	}
	cmd.AddCommand(syncClockifyCmd(a))
	return cmd
}

func syncClockifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clockify",
		Short: "Push unsynced time entries to Clockify",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			if a.cfg.Clockify.WorkspaceID == "" {
				return fmt.Errorf("no Clockify workspace configured; set clockify.workspace_id in %s", a.configPath)
			}
			apiKey, err := credential.Get(credential.KeyClockify)
			if err != nil {
				return fmt.Errorf("clockify api key: %w (run: workmain auth set clockify)", err)
			}

			client := clockify.NewClient(apiKey, a.cfg.Clockify.WorkspaceID, a.cfg.Clockify.BaseURL)
			result, err := clockify.NewSyncer(a.store, client).Push(cmd.Context())
			if err != nil {
				return err
			}

			for _, e := range result.Errs {
				fmt.Println(warnLine(e.Error()))
			}
			fmt.Println(successLine(fmt.Sprintf("pushed %d entries, %d failed", result.Created, result.Failed)))
			return nil
		},
	}
}
