// Package store keeps the last synced snapshot of each account in SQLite so
// findings can be reviewed and deduped without reaching the backend.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/store/migrations"
)

// timeLayout is fixed-width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrAccountNotFound is returned when no snapshot exists for an account
var ErrAccountNotFound = eris.New("store: account not found")

// Store is the SQLite snapshot database
type Store struct {
	db   *sql.DB
	path string
}

// AccountInfo describes a stored snapshot
type AccountInfo struct {
	ID       string    `json:"account_id" yaml:"account_id"`
	Name     string    `json:"name" yaml:"name"`
	SyncedAt time.Time `json:"synced_at" yaml:"synced_at"`
}

// PublishEntry is one recorded publish run
type PublishEntry struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	PublishedAt time.Time       `json:"published_at"`
	Report      json.RawMessage `json:"report"`
}

// Open opens or creates the store in dataDir.
// If dataDir is empty, defaults to ~/.scout/data/scout.db.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, eris.Wrap(err, "store: home directory")
		}
		dataDir = filepath.Join(home, ".scout", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, eris.Wrap(err, "store: create data directory")
	}

	dbPath := filepath.Join(dataDir, "scout.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, eris.Wrap(err, "store: open database")
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "store: migrate")
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return eris.Wrap(err, "create schema_migrations")
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return eris.Wrap(err, "read schema version")
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return eris.Wrap(err, "read migrations")
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return eris.Wrapf(err, "read migration %s", name)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return eris.Wrap(err, "begin migration")
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "execute migration %s", name)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "record migration %s", name)
		}
		if err := tx.Commit(); err != nil {
			return eris.Wrapf(err, "commit migration %s", name)
		}
	}
	return nil
}

// SaveSnapshot replaces the stored snapshot for the snapshot's account
func (s *Store) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	if snap.Account.ID == "" {
		return eris.New("store: snapshot has no account id")
	}
	if snap.SyncedAt.IsZero() {
		snap.SyncedAt = time.Now().UTC()
	}

	var structure sql.NullString
	if snap.Account.CorporateStructure != nil {
		data, err := json.Marshal(snap.Account.CorporateStructure)
		if err != nil {
			return eris.Wrap(err, "store: encode corporate structure")
		}
		structure = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	accountID := snap.Account.ID
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, name, corporate_structure, synced_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			corporate_structure = excluded.corporate_structure,
			synced_at = excluded.synced_at
	`, accountID, snap.Account.Name, structure, snap.SyncedAt.UTC().Format(timeLayout)); err != nil {
		return eris.Wrap(err, "store: save account")
	}

	for _, table := range []string{"stakeholders", "divisions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE account_id = ?", accountID); err != nil {
			return eris.Wrapf(err, "store: clear %s", table)
		}
	}

	for i, st := range snap.Stakeholders {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stakeholders (account_id, position, stakeholder_id, full_name, title)
			VALUES (?, ?, ?, ?, ?)
		`, accountID, i, st.ID, st.FullName, st.Title); err != nil {
			return eris.Wrap(err, "store: save stakeholder")
		}
	}
	for i, d := range snap.Divisions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO divisions (account_id, position, division_id, name, parent_division_id)
			VALUES (?, ?, ?, ?, ?)
		`, accountID, i, d.ID, d.Name, d.ParentDivisionID); err != nil {
			return eris.Wrap(err, "store: save division")
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "store: commit snapshot")
	}
	return nil
}

// LoadSnapshot returns the stored snapshot for an account
func (s *Store) LoadSnapshot(ctx context.Context, accountID string) (*model.Snapshot, error) {
	var (
		snap      model.Snapshot
		structure sql.NullString
		syncedAt  string
	)
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, corporate_structure, synced_at FROM accounts WHERE id = ?", accountID)
	if err := row.Scan(&snap.Account.ID, &snap.Account.Name, &structure, &syncedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Wrapf(ErrAccountNotFound, "account %s", accountID)
		}
		return nil, eris.Wrap(err, "store: scan account")
	}

	if structure.Valid {
		var cs model.DetectedStructure
		if err := json.Unmarshal([]byte(structure.String), &cs); err != nil {
			return nil, eris.Wrap(err, "store: decode corporate structure")
		}
		snap.Account.CorporateStructure = &cs
	}

	t, err := time.Parse(timeLayout, syncedAt)
	if err != nil {
		return nil, eris.Wrap(err, "store: parse synced_at")
	}
	snap.SyncedAt = t

	if snap.Stakeholders, err = s.stakeholders(ctx, accountID); err != nil {
		return nil, err
	}
	if snap.Divisions, err = s.divisions(ctx, accountID); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) stakeholders(ctx context.Context, accountID string) ([]model.Stakeholder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stakeholder_id, full_name, title FROM stakeholders
		WHERE account_id = ? ORDER BY position
	`, accountID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query stakeholders")
	}
	defer rows.Close()

	var out []model.Stakeholder
	for rows.Next() {
		var st model.Stakeholder
		if err := rows.Scan(&st.ID, &st.FullName, &st.Title); err != nil {
			return nil, eris.Wrap(err, "store: scan stakeholder")
		}
		out = append(out, st)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate stakeholders")
}

func (s *Store) divisions(ctx context.Context, accountID string) ([]model.Division, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT division_id, name, parent_division_id FROM divisions
		WHERE account_id = ? ORDER BY position
	`, accountID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query divisions")
	}
	defer rows.Close()

	var out []model.Division
	for rows.Next() {
		var d model.Division
		if err := rows.Scan(&d.ID, &d.Name, &d.ParentDivisionID); err != nil {
			return nil, eris.Wrap(err, "store: scan division")
		}
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate divisions")
}

// ListAccounts returns stored snapshots, most recently synced first
func (s *Store) ListAccounts(ctx context.Context) ([]AccountInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, synced_at FROM accounts ORDER BY synced_at DESC, id")
	if err != nil {
		return nil, eris.Wrap(err, "store: query accounts")
	}
	defer rows.Close()

	var out []AccountInfo
	for rows.Next() {
		var info AccountInfo
		var syncedAt string
		if err := rows.Scan(&info.ID, &info.Name, &syncedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan account")
		}
		if info.SyncedAt, err = time.Parse(timeLayout, syncedAt); err != nil {
			return nil, eris.Wrap(err, "store: parse synced_at")
		}
		out = append(out, info)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate accounts")
}

// DeleteAccount removes an account's snapshot
func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", accountID)
	if err != nil {
		return eris.Wrap(err, "store: delete account")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Wrapf(ErrAccountNotFound, "account %s", accountID)
	}
	return nil
}

// RecordPublish stores the report of a publish run
func (s *Store) RecordPublish(ctx context.Context, accountID string, report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "store: encode publish report")
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO publish_log (id, account_id, published_at, report) VALUES (?, ?, ?, ?)",
		uuid.NewString(), accountID, time.Now().UTC().Format(timeLayout), string(data))
	return eris.Wrap(err, "store: record publish")
}

// PublishHistory returns recorded publish runs for an account, newest first
func (s *Store) PublishHistory(ctx context.Context, accountID string) ([]PublishEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, published_at, report FROM publish_log
		WHERE account_id = ? ORDER BY published_at DESC
	`, accountID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query publish log")
	}
	defer rows.Close()

	var out []PublishEntry
	for rows.Next() {
		var e PublishEntry
		var publishedAt, report string
		if err := rows.Scan(&e.ID, &e.AccountID, &publishedAt, &report); err != nil {
			return nil, eris.Wrap(err, "store: scan publish entry")
		}
		if e.PublishedAt, err = time.Parse(timeLayout, publishedAt); err != nil {
			return nil, eris.Wrap(err, "store: parse published_at")
		}
		e.Report = json.RawMessage(report)
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate publish log")
}
