package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/store"
	"github.com/mhagen/workmain/internal/theme"
)

func trackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Track and summarize work time",
	}
	cmd.AddCommand(trackAddCmd(a))
	cmd.AddCommand(trackListCmd(a))
	cmd.AddCommand(trackSummaryCmd(a))
	return cmd
}

func trackAddCmd(a *app) *cobra.Command {
	var (
		category    string
		projectName string
		dateFlag    string
	)

	cmd := &cobra.Command{
		Use:   "add [description] [duration]",
		Short: "Add a time entry",
		Long: `Add a tracked block of work time. Duration accepts "2h",
"1.5h", "90m", "45min", or a bare decimal meaning hours.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			hours, err := model.ParseDuration(args[1])
			if err != nil {
				return err
			}

			date, err := parseDate(dateFlag)
			if err != nil {
				return err
			}

			projectID, err := a.resolveProject(ctx, projectName)
			if err != nil {
				return err
			}

			entry, err := a.store.CreateTimeEntry(ctx, model.TimeEntry{
				Description:   args[0],
				DurationHours: hours,
				Category:      category,
				ProjectID:     projectID,
				EntryDate:     date,
			})
			if err != nil {
				return err
			}

			fmt.Println(successLine(fmt.Sprintf("tracked %s for %q (%s)",
				model.FormatHours(entry.DurationHours), entry.Description, entry.Category)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "development", "work category")
	cmd.Flags().StringVarP(&projectName, "project", "p", "", "attach to a project by name")
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "entry date (YYYY-MM-DD, default today)")

	return cmd
}

func trackListCmd(a *app) *cobra.Command {
	var (
		sinceDays int
		unsynced  bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent time entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			filter := store.TimeEntryFilter{Unsynced: unsynced, Limit: limit}
			if sinceDays > 0 {
				filter.From = store.DayStart(time.Now().UTC()).AddDate(0, 0, -sinceDays)
			}

			entries, err := a.store.GetTimeEntries(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(theme.SubtleStyle.Render("no time entries"))
				return nil
			}

			var total float64
			for _, e := range entries {
				marker := " "
				if e.Synced() {
					marker = theme.SuccessStyle.Render("*")
				}
				fmt.Printf("%s %s  %-6s %-12s %s\n",
					marker,
					theme.SubtleStyle.Render(e.EntryDate.Format("2006-01-02")),
					model.FormatHours(e.DurationHours),
					e.Category,
					e.Description)
				total += e.DurationHours
			}
			fmt.Println(theme.SubtleStyle.Render(fmt.Sprintf("total: %s (* = synced)", model.FormatHours(total))))
			return nil
		},
	}

	cmd.Flags().IntVar(&sinceDays, "since", 7, "only entries from the last N days (0 = all)")
	cmd.Flags().BoolVarP(&unsynced, "unsynced", "u", false, "only entries not yet pushed to Clockify")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum entries")

	return cmd
}

func trackSummaryCmd(a *app) *cobra.Command {
	var (
		dateFlag string
		weekly   bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show time totals per project and category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			date, err := parseDate(dateFlag)
			if err != nil {
				return err
			}

			var from, to time.Time
			if weekly {
				from = store.WeekStart(date)
				to = from.AddDate(0, 0, 7)
			} else {
				from = store.DayStart(date)
				to = from.AddDate(0, 0, 1)
			}

			totals, err := a.store.GetCategoryTotals(cmd.Context(), store.TimeEntryFilter{From: from, To: to})
			if err != nil {
				return err
			}

			label := from.Format("2006-01-02")
			if weekly {
				label += " to " + to.AddDate(0, 0, -1).Format("2006-01-02")
			}
			fmt.Println(theme.HeaderStyle.Render("Time Totals " + label))

			if len(totals) == 0 {
				fmt.Println(theme.SubtleStyle.Render("no tracked time"))
				return nil
			}

			var total float64
			for _, t := range totals {
				name := t.ProjectName
				if name == "" {
					name = "(no project)"
				}
				fmt.Printf("  %-20s %-12s %s\n", name, t.Category, model.FormatHours(t.Hours))
				total += t.Hours
			}
			fmt.Println(theme.SubtleStyle.Render("  total: " + model.FormatHours(total)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "day to summarize (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVarP(&weekly, "week", "w", false, "summarize the whole Monday-Sunday week")

	return cmd
}
