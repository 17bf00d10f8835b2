package main

import (
	"fmt"
	"os"
	"strings"

	mimal "github.com/unowned-ai/mimal/pkg"
	"github.com/unowned-ai/mimal/pkg/config"
	pkgdb "github.com/unowned-ai/mimal/pkg/db"
	"github.com/unowned-ai/mimal/pkg/kv"
	"github.com/unowned-ai/mimal/pkg/logger"
	"github.com/unowned-ai/mimal/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	backend     string
	dbPath      string
	walMode     bool
	syncMode    string
	postgresDSN string
	redisURL    string
	keyPrefix   string
	logLevel    string
	logFormat   string
	timeZone    string

	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:     "mimal",
	Short:   "Voice notes grouped by day and rich-text documents, stored locally.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", mimal.Version),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logLevel, logFormat)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for mimal.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(mimal completion bash)

  Bash (persist):
    $ mimal completion bash > /etc/bash_completion.d/mimal

  Zsh:
    $ mimal completion zsh > "${fpath[1]}/_mimal"

  Fish:
    $ mimal completion fish | source
    $ mimal completion fish > ~/.config/fish/completions/mimal.fish

  PowerShell:
    PS> mimal completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mimal",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), mimal.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the mimal SQLite database",
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the SQLite schema to the latest version for the notesdb component",
	Long: `Opens the SQLite database at --db (or the system default location) and applies any
schema migrations the notesdb component needs. A missing or uninitialized database is
created with the latest schema. Other backends create their storage on first use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if backend != "" && backend != kv.BackendSQLite {
			return fmt.Errorf("db upgrade applies to the sqlite backend, not %q", backend)
		}

		path, err := utils.ResolveAndEnsureDBPath(dbPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Upgrading notesdb component in database at: %s (WAL: %t, Sync: %s)\n", path, walMode, syncMode)

		dbConn, err := pkgdb.OpenDBConnection(path, walMode, syncMode)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(cmd.Context(), dbConn, path, pkgdb.TargetSchemaVersion, log)
	},
}

func initCmd() {
	cfg := config.Load()

	rootCmd.PersistentFlags().StringVar(&backend, "backend", cfg.Backend, "Storage backend (sqlite, postgres, redis, memory)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "Path to the SQLite database file (uses a system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", cfg.WAL, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", cfg.SyncMode, "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	rootCmd.PersistentFlags().StringVar(&postgresDSN, "postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string for the postgres backend")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis-url", cfg.RedisURL, "Redis URL for the redis backend (redis://host:port/db)")
	rootCmd.PersistentFlags().StringVar(&keyPrefix, "key-prefix", cfg.KeyPrefix, "Prefix for the recordings and editor-notes keys")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&timeZone, "tz", cfg.TimeZone, "IANA time zone deciding which day a recording belongs to (default: local)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initRecordingsCmd()
	initDocumentsCmd()
	initTransferCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, recordCmd, recordingsCmd, docsCmd, exportCmd, importCmd, mcpCmd)
}

func main() {
	initCmd()

	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
