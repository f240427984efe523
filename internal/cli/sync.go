package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncList bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync [account-id]",
	Short: "Snapshot an account's stakeholders and divisions locally",
	Long: `Sync fetches the account, its stakeholders and its divisions from the
backend and stores them in the local database, so 'scout review' can dedupe
detected people and subsidiaries without network access.

Example:
  scout sync acc_123
  scout sync --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if syncList {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncList, "list", false, "list stored snapshots instead of syncing")
}

func runSync(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if syncList {
		accounts, err := st.ListAccounts(ctx)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, accounts)
	}

	accountID := args[0]
	snap, err := newBackend().Snapshot(ctx, accountID)
	if err != nil {
		return err
	}
	if err := st.SaveSnapshot(ctx, *snap); err != nil {
		return err
	}

	logger.Info("account synced",
		zap.String("account", accountID),
		zap.Int("stakeholders", len(snap.Stakeholders)),
		zap.Int("divisions", len(snap.Divisions)))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d stakeholders, %d divisions (%s)\n",
		accountID, len(snap.Stakeholders), len(snap.Divisions), st.Path())
	return nil
}
