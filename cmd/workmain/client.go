package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhagen/workmain/internal/model"
	"github.com/mhagen/workmain/internal/store"
	"github.com/mhagen/workmain/internal/theme"
)

func clientCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients and the active-client default",
	}
	cmd.AddCommand(clientUseCmd(a))
	cmd.AddCommand(clientShowCmd(a))
	cmd.AddCommand(clientClearCmd(a))
	cmd.AddCommand(clientListCmd(a))
	cmd.AddCommand(clientAddCmd(a))
	cmd.AddCommand(projectAddCmd(a))
	return cmd
}

func clientAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Register a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			client, err := a.store.CreateClient(cmd.Context(), model.Client{Name: args[0], Active: true})
			if err != nil {
				return err
			}
			fmt.Println(successLine("client " + client.Name + " created"))
			return nil
		},
	}
}

func projectAddCmd(a *app) *cobra.Command {
	var clientName string

	cmd := &cobra.Command{
		Use:   "add-project [name]",
		Short: "Register a project, optionally under a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			project := model.Project{Name: args[0], Active: true}
			if clientName != "" {
				client, err := a.store.GetClientByName(ctx, clientName)
				if err != nil {
					return fmt.Errorf("client %q: %w", clientName, err)
				}
				project.ClientID = &client.ID
			}

			created, err := a.store.CreateProject(ctx, project)
			if err != nil {
				return err
			}
			fmt.Println(successLine("project " + created.Name + " created"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&clientName, "client", "c", "", "owning client name")
	return cmd
}

func clientUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use [name]",
		Short: "Set the active client for client-scoped commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			client, err := a.store.GetClientByName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("client %q: %w", args[0], err)
			}
			if err := a.store.SetState(ctx, store.StateActiveClient, client.Name); err != nil {
				return err
			}
			fmt.Println(successLine("active client: " + client.Name))
			return nil
		},
	}
}

func clientShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active client",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			name, err := a.store.GetState(cmd.Context(), store.StateActiveClient)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					fmt.Println(theme.SubtleStyle.Render("no active client"))
					return nil
				}
				return err
			}
			fmt.Println(name)
			return nil
		},
	}
}

func clientClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the active client",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			if err := a.store.ClearState(cmd.Context(), store.StateActiveClient); err != nil {
				return err
			}
			fmt.Println(successLine("active client cleared"))
			return nil
		},
	}
}

func clientListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List clients and their projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			clients, err := a.store.GetClients(ctx)
			if err != nil {
				return err
			}
			projects, err := a.store.GetProjects(ctx)
			if err != nil {
				return err
			}

			byClient := make(map[string][]string)
			var unowned []string
			for _, p := range projects {
				if p.ClientID != nil {
					byClient[*p.ClientID] = append(byClient[*p.ClientID], p.Name)
				} else {
					unowned = append(unowned, p.Name)
				}
			}

			for _, c := range clients {
				fmt.Println(c.Name)
				for _, p := range byClient[c.ID] {
					fmt.Println(theme.SubtleStyle.Render("  " + p))
				}
			}
			if len(unowned) > 0 {
				fmt.Println(theme.SubtleStyle.Render("(no client)"))
				for _, p := range unowned {
					fmt.Println(theme.SubtleStyle.Render("  " + p))
				}
			}
			if len(clients) == 0 && len(projects) == 0 {
				fmt.Println(theme.SubtleStyle.Render("no clients or projects"))
			}
			return nil
		},
	}
}
