package backend

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Failure is one write that did not succeed
type Failure struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

// Report summarizes a publish run
type Report struct {
	StakeholdersCreated int       `json:"stakeholders_created"`
	DivisionsCreated    int       `json:"divisions_created"`
	StructureUpdated    bool      `json:"structure_updated"`
	SignalsSaved        int       `json:"signals_saved"`
	Failures            []Failure `json:"failures,omitempty"`
}

// Err returns an error listing the failed items, or nil
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	items := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		items = append(items, f.Item)
	}
	return eris.Errorf("backend: %d writes failed: %s", len(r.Failures), strings.Join(items, ", "))
}

func (r *Report) fail(item string, err error) {
	r.Failures = append(r.Failures, Failure{Item: item, Error: err.Error()})
}

// Publish executes a plan against an account. A failed write is recorded
// and the remaining writes still run. Stakeholders are created first so
// signals can link to the first person created from the same finding.
func Publish(ctx context.Context, c *Client, accountID string, plan Plan, logger *zap.Logger) *Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := &Report{}
	linked := make(map[string]string)

	for _, s := range plan.Stakeholders {
		id, err := c.CreateStakeholder(ctx, accountID, s)
		if err != nil {
			logger.Warn("create stakeholder failed", zap.String("name", s.FullName), zap.Error(err))
			report.fail("stakeholder "+s.FullName, err)
			continue
		}
		report.StakeholdersCreated++
		if _, ok := linked[s.FindingID]; !ok && id != "" {
			linked[s.FindingID] = id
		}
	}

	if len(plan.Signals) > 0 {
		signals := make([]Signal, len(plan.Signals))
		copy(signals, plan.Signals)
		for i := range signals {
			if id, ok := linked[signals[i].FindingID]; ok {
				signals[i].StakeholderID = &id
			}
		}
		if err := c.SaveSignals(ctx, accountID, signals, plan.ResearchSummary); err != nil {
			logger.Warn("save signals failed", zap.Error(err))
			report.fail("signals", err)
		} else {
			report.SignalsSaved = len(signals)
		}
	}

	if plan.Structure != nil {
		if err := c.UpdateCorporateStructure(ctx, accountID, *plan.Structure); err != nil {
			logger.Warn("update corporate structure failed", zap.Error(err))
			report.fail("corporate structure", err)
		} else {
			report.StructureUpdated = true
		}
	}

	for _, d := range plan.Divisions {
		if _, err := c.CreateDivision(ctx, accountID, d); err != nil {
			logger.Warn("create division failed", zap.String("name", d.Name), zap.Error(err))
			report.fail("division "+d.Name, err)
			continue
		}
		report.DivisionsCreated++
	}

	logger.Info("published",
		zap.String("account", accountID),
		zap.Int("stakeholders", report.StakeholdersCreated),
		zap.Int("divisions", report.DivisionsCreated),
		zap.Bool("structure", report.StructureUpdated),
		zap.Int("signals", report.SignalsSaved),
		zap.Int("failures", len(report.Failures)))
	return report
}
