package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhagen/workmain/internal/credential"
	"github.com/mhagen/workmain/internal/delivery"
	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/theme"
)

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate daily and weekly reports",
	}
	cmd.AddCommand(reportGenerateCmd(a, "daily", model.ReportDailyInternal, model.ReportDailyClient))
	cmd.AddCommand(reportGenerateCmd(a, "weekly", model.ReportWeeklyInternal, model.ReportWeeklyClient))
	return cmd
}

func reportGenerateCmd(a *app, name string, internalType, clientType model.ReportType) *cobra.Command {
	var (
		clientFacing bool
		clientName   string
		dateFlag     string
		send         []string
	)

	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Generate a %s report", name),
		Long: fmt.Sprintf(`Generate a %s report from the window's notes and time
entries. Regenerating for the same date adds a new report; earlier
generations are kept. Client-facing reports (--client-facing) include
only client-report notes and need a client, either --client or the
active one set with "workmain client use".`, name),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			reportType := internalType
			var client *model.Client
			if clientFacing || clientName != "" {
				reportType = clientType
				var err error
				if client, err = a.resolveClient(ctx, clientName); err != nil {
					return err
				}
				if client == nil {
					return fmt.Errorf("client-facing report needs a client: pass --client or run: workmain client use <name>")
				}
			}

			date, err := parseDate(dateFlag)
			if err != nil {
				return err
			}

			assembler, err := a.assembler()
			if err != nil {
				return err
			}

			run, err := assembler.Generate(ctx, reportType, date, client)
			if err != nil {
				return err
			}

			if run.Warning != nil {
				fmt.Println(warnLine("report persisted but failed validation: " + run.Warning.Error()))
			}

			header := fmt.Sprintf("%s (%s, %dms)", run.Report.Type, run.Report.Provider, run.Report.GenerationMS)
			fmt.Println(theme.HeaderStyle.Render(header))
			fmt.Println(theme.ReportBodyStyle.Render(run.Report.Content))

			// Delivery is best-effort: the report is already persisted,
			// so a failed send is a warning, not a command failure.
			for _, channel := range send {
				if err := a.deliver(cmd, run.Report, channel); err != nil {
					fmt.Println(warnLine(err.Error()))
				} else {
					fmt.Println(successLine("delivered via " + channel))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clientFacing, "client-facing", false, "generate the client-facing variant")
	cmd.Flags().StringVarP(&clientName, "client", "c", "", "client to scope the report to (implies --client-facing)")
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "date inside the report window (YYYY-MM-DD, default today)")
	cmd.Flags().StringSliceVar(&send, "send", nil, "deliver after generation (email, chat)")

	return cmd
}

func (a *app) deliver(cmd *cobra.Command, report *model.Report, channel string) error {
	var deliverer delivery.Deliverer
	switch channel {
	case delivery.ChannelEmail:
		password, err := credential.Get(credential.KeySMTPPassword)
		if err != nil {
			return fmt.Errorf("smtp password: %w (run: workmain auth set smtp)", err)
		}
		deliverer = delivery.NewEmail(a.cfg.Delivery, password)
	case delivery.ChannelChat:
		deliverer = delivery.NewSlack(a.cfg.Delivery.SlackWebhook)
	default:
		return fmt.Errorf("unknown delivery channel %q (valid: email, chat)", channel)
	}

	dispatcher := delivery.NewDispatcher(a.store, deliverer)
	_, err := dispatcher.Send(cmd.Context(), report, channel)
	return err
}
