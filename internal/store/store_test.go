package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/scout/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })
	return s
}

func testSnapshot(id string, syncedAt time.Time) model.Snapshot {
	return model.Snapshot{
		Account: model.Account{
			ID:                 id,
			Name:               "Acme",
			CorporateStructure: &model.DetectedStructure{CEO: "Jane Smith", Subsidiaries: []string{"Alpha"}},
		},
		Stakeholders: []model.Stakeholder{
			{ID: "s2", FullName: "Zed Zulu", Title: "CFO"},
			{ID: "s1", FullName: "Jane Smith", Title: "CEO"},
		},
		Divisions: []model.Division{
			{ID: "d1", Name: "Retail"},
			{ID: "d2", Name: "Online", ParentDivisionID: "d1"},
		},
		SyncedAt: syncedAt,
	}
}

func TestStore_SaveAndLoadSnapshot(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	synced := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("a1", synced)))

	got, err := s.LoadSnapshot(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, testSnapshot("a1", synced), *got, "order and fields survive the round trip")
}

func TestStore_SaveSnapshotReplaces(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("a1", time.Now())))

	next := model.Snapshot{
		Account:      model.Account{ID: "a1", Name: "Acme Corp"},
		Stakeholders: []model.Stakeholder{{FullName: "New Person"}},
	}
	require.NoError(t, s.SaveSnapshot(ctx, next))

	got, err := s.LoadSnapshot(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Account.Name)
	assert.Nil(t, got.Account.CorporateStructure)
	assert.Equal(t, []model.Stakeholder{{FullName: "New Person"}}, got.Stakeholders)
	assert.Empty(t, got.Divisions)
	assert.False(t, got.SyncedAt.IsZero())
}

func TestStore_LoadMissing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.LoadSnapshot(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrAccountNotFound))
}

func TestStore_SaveRequiresAccountID(t *testing.T) {
	s := setupTestStore(t)
	assert.Error(t, s.SaveSnapshot(context.Background(), model.Snapshot{}))
}

func TestStore_ListAccounts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("old", base)))
	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("new", base.Add(time.Hour))))

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "new", accounts[0].ID)
	assert.Equal(t, "old", accounts[1].ID)
	assert.True(t, accounts[1].SyncedAt.Equal(base))
}

func TestStore_DeleteAccountCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("a1", time.Now())))
	require.NoError(t, s.DeleteAccount(ctx, "a1"))

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM stakeholders").Scan(&n))
	assert.Zero(t, n)

	assert.True(t, eris.Is(s.DeleteAccount(ctx, "a1"), ErrAccountNotFound))
}

func TestStore_PublishHistory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordPublish(ctx, "a1", map[string]int{"stakeholders_created": 2}))
	require.NoError(t, s.RecordPublish(ctx, "a2", map[string]int{"stakeholders_created": 1}))

	history, err := s.PublishHistory(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.NotEmpty(t, history[0].ID)

	var report map[string]int
	require.NoError(t, json.Unmarshal(history[0].Report, &report))
	assert.Equal(t, 2, report["stakeholders_created"])
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("a1", time.Now())))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	var version int
	require.NoError(t, s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)

	_, err = s.LoadSnapshot(ctx, "a1")
	assert.NoError(t, err)
}
