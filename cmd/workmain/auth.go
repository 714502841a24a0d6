package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mhagen/workmain/internal/credential"
)

// credentialKeys maps CLI names to keyring entries.
var credentialKeys = map[string]string{
	"anthropic": credential.KeyAnthropic,
	"openai":    credential.KeyOpenAI,
	"clockify":  credential.KeyClockify,
	"imap":      credential.KeyIMAPPassword,
	"smtp":      credential.KeySMTPPassword,
}

func credentialNames() string {
	names := make([]string, 0, len(credentialKeys))
	for name := range credentialKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func authCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API keys and passwords in the system keyring",
	}
	cmd.AddCommand(authSetCmd())
	cmd.AddCommand(authDeleteCmd())
	return cmd
}

func authSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [name]",
		Short: "Store a credential (" + credentialNames() + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := credentialKeys[args[0]]
			if !ok {
				return fmt.Errorf("unknown credential %q (valid: %s)", args[0], credentialNames())
			}

			var secret string
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("Enter the " + args[0] + " secret:").
					EchoMode(huh.EchoModePassword).
					Value(&secret),
			))
			if err := form.Run(); err != nil {
				return err
			}
			if strings.TrimSpace(secret) == "" {
				return fmt.Errorf("empty secret; nothing stored")
			}

			if err := credential.Set(key, secret); err != nil {
				return err
			}
			fmt.Println(successLine(args[0] + " credential stored"))
			return nil
		},
	}
}

func authDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Remove a credential from the keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := credentialKeys[args[0]]
			if !ok {
				return fmt.Errorf("unknown credential %q (valid: %s)", args[0], credentialNames())
			}
			if err := credential.Delete(key); err != nil {
				return err
			}
			fmt.Println(successLine(args[0] + " credential removed"))
			return nil
		},
	}
}
