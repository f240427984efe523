package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/backend"
)

var (
	publishOpts   reviewOptions
	publishDryRun bool
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish <findings-file> --account <id>",
	Short: "Write reviewed people, divisions and structure to an account",
	Long: `Publish replays the review decisions, then creates a stakeholder for
every selected person, a division for every selected candidate, saves the
accepted findings as signals and merges the detected corporate structure
into the account. A failed write is reported and the rest still run.

The roster and divisions are fetched fresh from the backend before the
review is replayed, and the snapshot is refreshed locally.

Example:
  scout publish research.json --account acc_123 --accept-all --select-people --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	addReviewFlags(publishCmd, &publishOpts)
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "print the plan without writing")
	_ = publishCmd.MarkFlagRequired("account")
}

func runPublish(cmd *cobra.Command, args []string) error {
	research, err := readFindings(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := newBackend()
	snap, err := client.Snapshot(ctx, publishOpts.account)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SaveSnapshot(ctx, *snap); err != nil {
		logger.Warn("snapshot not saved", zap.Error(err))
	}

	sess, err := buildSession(ctx, research.Findings, snap, publishOpts)
	if err != nil {
		return err
	}

	plan := backend.BuildPlan(sess.Summary(), snap.Account.CorporateStructure)
	plan.ResearchSummary = research.Summary

	if publishDryRun || plan.IsEmpty() {
		if plan.IsEmpty() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to publish: accept findings and select people or divisions first.")
		}
		return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, plan)
	}

	report := backend.Publish(ctx, client, publishOpts.account, plan, logger)
	if err := st.RecordPublish(ctx, publishOpts.account, report); err != nil {
		logger.Warn("publish not recorded", zap.Error(err))
	}
	if err := writeOutput(cmd.OutOrStdout(), cfg.Output.Format, report); err != nil {
		return err
	}
	return report.Err()
}
