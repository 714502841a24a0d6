package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhagen/workmain/internal/calendar"
	"github.com/mhagen/workmain/internal/credential"
	"github.com/mhagen/workmain/internal/theme"
)

func meetingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "Mirror calendar invites and list meetings",
	}
	cmd.AddCommand(meetingsSyncCmd(a))
	cmd.AddCommand(meetingsListCmd(a))
	return cmd
}

func meetingsSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull meeting invites from the configured IMAP mailbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			if a.cfg.Calendar.IMAPHost == "" {
				return fmt.Errorf("no IMAP host configured; set calendar.imap_host in %s", a.configPath)
			}
			password, err := credential.Get(credential.KeyIMAPPassword)
			if err != nil {
				return fmt.Errorf("imap password: %w (run: workmain auth set imap)", err)
			}

			fetcher := calendar.NewIMAPFetcher(a.cfg.Calendar, password)
			n, err := calendar.NewIngestor(a.store, fetcher).Sync(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(successLine(fmt.Sprintf("synced %d meeting(s)", n)))
			return nil
		},
	}
}

func meetingsListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			meetings, err := a.store.GetRecentMeetings(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(meetings) == 0 {
				fmt.Println(theme.SubtleStyle.Render("no meetings; run: workmain meetings sync"))
				return nil
			}

			for _, m := range meetings {
				markers := ""
				if m.Recurring() {
					markers += " ↻"
				}
				if m.NotesCaptured {
					markers += " " + theme.SuccessStyle.Render("[notes]")
				}
				fmt.Printf("%s  %s%s\n",
					theme.SubtleStyle.Render(m.StartTime.Format("2006-01-02 15:04")),
					m.Title, markers)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum meetings")
	return cmd
}
