package cli

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/review"
	"github.com/ppiankov/scout/internal/store"
)

// reviewOptions are the decisions a reviewer passes on the command line
type reviewOptions struct {
	accept       []string
	reject       []string
	acceptAll    bool
	selectPeople bool
	skipDivision []string
	account      string
}

var reviewOpts reviewOptions

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review <findings-file>",
	Short: "Apply review decisions and show the confirmed summary",
	Long: `Review accepts and rejects findings in the order given and prints the
accepted findings, the people detected in each (minus known stakeholders),
the merged corporate structure and the proposed new divisions.

With --account, the roster and divisions come from the local snapshot
written by 'scout sync'.

Example:
  scout review research.json --accept f1,f3 --account acc_123
  scout review research.json --accept-all --select-people`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	addReviewFlags(reviewCmd, &reviewOpts)
}

func addReviewFlags(cmd *cobra.Command, opts *reviewOptions) {
	cmd.Flags().StringSliceVar(&opts.accept, "accept", nil, "finding IDs to accept, in order")
	cmd.Flags().StringSliceVar(&opts.reject, "reject", nil, "finding IDs to reject")
	cmd.Flags().BoolVar(&opts.acceptAll, "accept-all", false, "accept every remaining pending finding")
	cmd.Flags().BoolVar(&opts.selectPeople, "select-people", false, "select every detected person")
	cmd.Flags().StringSliceVar(&opts.skipDivision, "skip-division", nil, "division candidates to deselect")
	cmd.Flags().StringVar(&opts.account, "account", "", "account ID whose roster and divisions are used for dedupe")
}

func runReview(cmd *cobra.Command, args []string) error {
	research, err := readFindings(args[0])
	if err != nil {
		return err
	}

	var snap *model.Snapshot
	if reviewOpts.account != "" {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err = st.LoadSnapshot(cmd.Context(), reviewOpts.account)
		if err != nil {
			if eris.Is(err, store.ErrAccountNotFound) {
				return eris.Wrapf(err, "no snapshot for %s, run 'scout sync %s' first", reviewOpts.account, reviewOpts.account)
			}
			return err
		}
	}

	sess, err := buildSession(cmd.Context(), research.Findings, snap, reviewOpts)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, sess.Summary())
}

// buildSession replays the reviewer's decisions over the findings
func buildSession(ctx context.Context, findings []model.ResearchFinding, snap *model.Snapshot, opts reviewOptions) (*review.Session, error) {
	resolver, err := newResolver()
	if err != nil {
		return nil, err
	}

	var (
		roster    []model.Stakeholder
		divisions []model.Division
	)
	if snap != nil {
		roster, divisions = snap.Stakeholders, snap.Divisions
	}

	sess := review.NewSession(resolver, roster, divisions, logger)
	if err := sess.Add(findings...); err != nil {
		return nil, err
	}

	// decisions already recorded in the file come first
	for _, f := range findings {
		var err error
		switch {
		case f.Status == model.StatusEdited && f.EditedContent != "":
			err = sess.Edit(ctx, f.ID, f.EditedContent)
		case f.Status.IsAccepted():
			err = sess.Accept(ctx, f.ID)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, id := range opts.reject {
		if err := sess.Reject(id); err != nil {
			return nil, err
		}
	}
	for _, id := range opts.accept {
		if err := sess.Accept(ctx, id); err != nil {
			return nil, err
		}
	}
	if opts.acceptAll {
		n := sess.AcceptAllPending(ctx)
		logger.Debug("accepted pending findings", zap.Int("count", n))
	}
	if opts.selectPeople {
		sess.SelectAllPeople()
	}
	for _, name := range opts.skipDivision {
		if err := sess.ToggleDivision(name); err != nil {
			return nil, err
		}
	}
	return sess, nil
}
