package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/config"
	"ledger_dashboard/internal/ledger"
	"ledger_dashboard/internal/processing"
	"ledger_dashboard/internal/sheets"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runtime carries the dependencies shared by every subcommand
type runtime struct {
	loadConfig    func() (*app.Config, error)
	connectLedger func(cfg *app.Config, tracker *processing.APICallTracker) processing.LedgerClientInterface
	connectSheets func(ctx context.Context, cfg *app.Config) (sheets.SheetsAPI, error)
	now           func() time.Time

	// Global flag overrides
	playerID    string
	permissions string

	config  *app.Config
	session app.Session
	tracker *processing.APICallTracker
	ledger  processing.LedgerClientInterface
}

func defaultRuntime() *runtime {
	return &runtime{
		loadConfig: app.LoadConfig,
		connectLedger: func(cfg *app.Config, tracker *processing.APICallTracker) processing.LedgerClientInterface {
			return ledger.NewClient(cfg.APIBaseURL, cfg.APIToken, config.DefaultTransportConfig).WithRecorder(tracker)
		},
		connectSheets: func(ctx context.Context, cfg *app.Config) (sheets.SheetsAPI, error) {
			return sheets.NewClient(ctx, cfg.CredentialsFile)
		},
		now: time.Now,
	}
}

// setup loads configuration and builds the session and ledger client
func (rt *runtime) setup(cmd *cobra.Command) error {
	cfg, err := rt.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("player-id") {
		cfg.PlayerID = rt.playerID
	}
	if cmd.Flags().Changed("permissions") {
		cfg.Permissions = app.ParseCapabilities(rt.permissions)
	}

	rt.config = cfg
	rt.session = cfg.Session()
	rt.tracker = processing.NewAPICallTracker()
	rt.ledger = rt.connectLedger(cfg, rt.tracker)

	log.Debug().
		Str("player_id", rt.session.PlayerID()).
		Strs("capabilities", rt.session.Capabilities()).
		Str("api_base_url", cfg.APIBaseURL).
		Msg("Session ready")
	return nil
}

// exporter connects to Sheets on demand
func (rt *runtime) exporter(ctx context.Context) (*sheets.Exporter, error) {
	if rt.config.SpreadsheetID == "" {
		return nil, fmt.Errorf("--export requires SPREADSHEET_ID")
	}
	api, err := rt.connectSheets(ctx, rt.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return sheets.NewExporter(api, rt.config.SpreadsheetID), nil
}

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultRuntime())
}

func newRootCommand(rt *runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger dashboard - browse player transactions and server balance",
		Long: `Ledger dashboard reads the game ledger backend.

Transactions are fetched one page at a time for the current filter
(player, Before/After a point in time). The server chart shows the
total balance across tracked players for a month.

Examples:
  ledger transactions
  ledger transactions --player AP --sort after --at 2022-04-01 --pages 3
  ledger transactions --player 1234 --export
  ledger chart --month 5
  ledger players`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.tracker != nil {
				rt.tracker.LogSessionSummary()
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&rt.playerID, "player-id", "",
		"Act as this player (overrides LEDGER_PLAYER_ID)")
	rootCmd.PersistentFlags().StringVar(&rt.permissions, "permissions", "",
		"Comma separated capabilities (overrides LEDGER_PERMISSIONS)")

	rootCmd.AddCommand(newTransactionsCommand(rt))
	rootCmd.AddCommand(newChartCommand(rt))
	rootCmd.AddCommand(newPlayersCommand(rt))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
