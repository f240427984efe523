package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/scout/internal/model"
)

// ResearchRequest asks the research service about a company
type ResearchRequest struct {
	CompanyName   string   `json:"companyName"`
	Domain        string   `json:"domain,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	CustomPrompts []string `json:"customPrompts,omitempty"`
	SearchMode    string   `json:"searchMode,omitempty"`
}

// NewStakeholder is the body of a stakeholder create
type NewStakeholder struct {
	FullName     string `json:"full_name"`
	Title        string `json:"title,omitempty"`
	ProfileNotes string `json:"profile_notes,omitempty"`

	FindingID string `json:"-"`
}

// NewDivision is the body of a division create. A nil parent is sent as null.
type NewDivision struct {
	Name             string             `json:"name"`
	DivisionType     model.DivisionType `json:"division_type"`
	ParentDivisionID *string            `json:"parent_division_id"`
}

// Signal is an accepted finding saved to the account's signal feed
type Signal struct {
	SignalType    string           `json:"signal_type"`
	Title         string           `json:"title,omitempty"`
	Summary       string           `json:"summary"`
	Source        string           `json:"source"`
	Confidence    model.Confidence `json:"confidence"`
	Category      string           `json:"category,omitempty"`
	StakeholderID *string          `json:"stakeholder_id"`

	FindingID string `json:"-"`
}

// Research runs company research and returns normalized findings
func (c *Client) Research(ctx context.Context, req ResearchRequest) (*model.ResearchResult, error) {
	if req.CompanyName == "" {
		return nil, eris.New("backend: company name is required")
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/ai/research", req, &raw); err != nil {
		return nil, err
	}
	result, err := model.ParseFindings(raw, false)
	if err != nil {
		return nil, eris.Wrap(err, "backend: research response")
	}
	return result, nil
}

// GetAccount loads an account
func (c *Client) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	var acct model.Account
	if err := c.do(ctx, http.MethodGet, accountPath(accountID), nil, &acct); err != nil {
		return nil, err
	}
	if acct.ID == "" {
		acct.ID = accountID
	}
	return &acct, nil
}

// ListStakeholders returns the account's known contacts
func (c *Client) ListStakeholders(ctx context.Context, accountID string) ([]model.Stakeholder, error) {
	var out []model.Stakeholder
	if err := c.do(ctx, http.MethodGet, accountPath(accountID, "stakeholders"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDivisions returns the account's existing divisions
func (c *Client) ListDivisions(ctx context.Context, accountID string) ([]model.Division, error) {
	var out []model.Division
	if err := c.do(ctx, http.MethodGet, accountPath(accountID, "divisions"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStakeholder adds a contact and returns its ID
func (c *Client) CreateStakeholder(ctx context.Context, accountID string, s NewStakeholder) (string, error) {
	var created model.Stakeholder
	if err := c.do(ctx, http.MethodPost, accountPath(accountID, "stakeholders"), s, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// CreateDivision adds a division and returns its ID
func (c *Client) CreateDivision(ctx context.Context, accountID string, d NewDivision) (string, error) {
	var created model.Division
	if err := c.do(ctx, http.MethodPost, accountPath(accountID, "divisions"), d, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// UpdateCorporateStructure replaces the account's corporate structure
func (c *Client) UpdateCorporateStructure(ctx context.Context, accountID string, s model.DetectedStructure) error {
	body := map[string]any{"corporate_structure": s}
	return c.do(ctx, http.MethodPatch, accountPath(accountID), body, nil)
}

// SaveSignals appends signals to the account
func (c *Client) SaveSignals(ctx context.Context, accountID string, signals []Signal, researchSummary string) error {
	body := struct {
		Findings        []Signal `json:"findings"`
		ResearchSummary string   `json:"research_summary,omitempty"`
	}{signals, researchSummary}
	return c.do(ctx, http.MethodPost, accountPath(accountID, "signals"), body, nil)
}

// Snapshot loads the account, roster and divisions concurrently
func (c *Client) Snapshot(ctx context.Context, accountID string) (*model.Snapshot, error) {
	snap := &model.Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		acct, err := c.GetAccount(gctx, accountID)
		if err != nil {
			return eris.Wrap(err, "load account")
		}
		snap.Account = *acct
		return nil
	})
	g.Go(func() error {
		roster, err := c.ListStakeholders(gctx, accountID)
		if err != nil {
			return eris.Wrap(err, "load stakeholders")
		}
		snap.Stakeholders = roster
		return nil
	})
	g.Go(func() error {
		divisions, err := c.ListDivisions(gctx, accountID)
		if err != nil {
			return eris.Wrap(err, "load divisions")
		}
		snap.Divisions = divisions
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.SyncedAt = time.Now().UTC()
	return snap, nil
}
