package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var labelFlag string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync mail into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := resolveGmailCredentials(cfg); err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			engine := buildEngine(db, cfg)

			var labels []string
			if labelFlag != "" {
				labels = append(labels, labelFlag)
			}

			if !jsonFlag {
				fmt.Println("Syncing...")
			}
			if err := engine.SyncNow(cmd.Context(), labels...); err != nil {
				return fmt.Errorf("failed to sync: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "sync"})
			}

			fmt.Println("Sync complete.")
			return nil
		},
	}

	cmd.Flags().StringVar(&labelFlag, "label", "", "sync a single label instead of the priority set")
	return cmd
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive [message-id]",
		Short: "Archive a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := resolveGmailCredentials(cfg); err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			engine := buildEngine(db, cfg)
			if err := engine.ArchiveNow(cmd.Context(), args[0]); err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "archive", MessageID: args[0]})
			}

			fmt.Printf("Archived %s\n", args[0])
			return nil
		},
	}
}

func newTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trash [message-id]",
		Short: "Move a message to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := resolveGmailCredentials(cfg); err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			engine := buildEngine(db, cfg)
			if err := engine.DeleteNow(cmd.Context(), args[0]); err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "trash", MessageID: args[0]})
			}

			fmt.Printf("Moved %s to trash\n", args[0])
			return nil
		},
	}
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove cached messages older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			removed, err := db.CleanupOlderThan(cmd.Context(), cfg.Retention())
			if err != nil {
				return fmt.Errorf("failed to clean up cache: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "cleanup", Removed: removed})
			}

			fmt.Printf("Removed %d cached messages\n", removed)
			return nil
		},
	}
}
