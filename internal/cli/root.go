package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/julianvz/mailterm/internal/app"
	"github.com/julianvz/mailterm/internal/config"
	"github.com/julianvz/mailterm/internal/provider/gmail"
	"github.com/julianvz/mailterm/internal/store"
	"github.com/julianvz/mailterm/internal/store/sqlite"
	"github.com/julianvz/mailterm/internal/tui"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool
)

func NewRootCmd() *cobra.Command {
	var clearKeyring bool

	root := &cobra.Command{
		Use:     "mailterm",
		Short:   "Terminal Gmail client",
		Long:    "A cache-first terminal Gmail client. Reads are served from a local store; refreshes run in the background.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shell, _ := cmd.Flags().GetString("generate-completion"); shell != "" {
				switch shell {
				case "bash":
					return cmd.Root().GenBashCompletion(os.Stdout)
				case "zsh":
					return cmd.Root().GenZshCompletion(os.Stdout)
				case "fish":
					return cmd.Root().GenFishCompletion(os.Stdout, true)
				default:
					return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
				}
			}

			// Clearing the keyring always exits zero so scripts can run
			// it unconditionally; a failure is reported on stderr.
			if clearKeyring {
				tokenStore := store.NewKeyringTokenStore()
				if err := tokenStore.DeleteToken(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not clear keyring: %v\n", err)
				} else {
					fmt.Println("Stored credentials cleared.")
				}
				return nil
			}

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
			return tui.Run(engine, cfg.PollInterval())
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("mailterm %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().String("generate-completion", "", "Generate shell completion (bash, zsh, fish)")
	root.Flags().MarkHidden("generate-completion")
	root.Flags().BoolVar(&clearKeyring, "clear-keyring", false, "remove stored OAuth credentials and exit")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.AddCommand(newAuthCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newLabelsCmd())
	root.AddCommand(newArchiveCmd())
	root.AddCommand(newTrashCmd())
	root.AddCommand(newCleanupCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB creates the data directory and opens the SQLite cache.
func openDB() (*sqlite.DB, error) {
	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "mailterm.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildEngine wires the sync engine over the cache and the Gmail
// provider with the configured tunables.
func buildEngine(db *sqlite.DB, cfg *config.Config) *app.Engine {
	tokenStore := store.NewKeyringTokenStore()
	p := gmail.New(tokenStore)
	return app.NewEngine(db, p, app.NewFetchCoordinator(), app.Config{
		StaleAfter: cfg.StaleAfter(),
		PageSize:   cfg.Sync.PageSize,
	})
}

// resolveGmailCredentials sets Gmail OAuth credentials using the first
// available source: config file, then environment variables.
func resolveGmailCredentials(cfg *config.Config) error {
	if cfg.Gmail.ClientID != "" && cfg.Gmail.ClientSecret != "" {
		gmail.SetCredentials(cfg.Gmail.ClientID, cfg.Gmail.ClientSecret)
		return nil
	}

	clientID := os.Getenv("GMAIL_CLIENT_ID")
	clientSecret := os.Getenv("GMAIL_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		gmail.SetCredentials(clientID, clientSecret)
		return nil
	}

	return gmail.EnsureCredentials()
}
