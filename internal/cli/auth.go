package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/julianvz/mailterm/internal/provider/gmail"
	"github.com/julianvz/mailterm/internal/store"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Gmail via OAuth",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := resolveGmailCredentials(cfg); err != nil {
				return err
			}

			p := gmail.New(store.NewKeyringTokenStore())

			fmt.Println("Starting Gmail OAuth flow...")
			if err := p.Authenticate(cmd.Context()); err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "auth"})
			}

			fmt.Println("Authenticated. Token stored in the OS keyring.")
			return nil
		},
	}
}
