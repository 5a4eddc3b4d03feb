package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/halo-ir/scout-cli/internal/model"
)

// SQLiteStore implements Store on a local sqlite database. Used for
// development and single-operator installs; postgres is the deployment
// driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and creates if needed) a sqlite database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// sqlite handles one writer; serialize access through a single conn.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: pragmas")
	}
	return &SQLiteStore{db: db}, nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS investors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		firm TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		thesis TEXT NOT NULL DEFAULT '',
		focus_areas TEXT NOT NULL DEFAULT '',
		check_size TEXT NOT NULL DEFAULT '',
		stage_preference TEXT NOT NULL DEFAULT '',
		geography TEXT NOT NULL DEFAULT '',
		portfolio_companies TEXT NOT NULL DEFAULT '[]',
		linkedin_url TEXT NOT NULL DEFAULT '',
		crunchbase_url TEXT NOT NULL DEFAULT '',
		fit_score INTEGER NOT NULL DEFAULT 0,
		fit_reasoning TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'Identified',
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE IF NOT EXISTS discovery_runs (
		id TEXT PRIMARY KEY,
		config TEXT NOT NULL,
		status TEXT NOT NULL,
		stats TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrap(err, "sqlite: migrate")
		}
	}
	return nil
}

// ListIdentities fetches every investor identity triple in one query.
func (s *SQLiteStore) ListIdentities(ctx context.Context) ([]model.InvestorIdentity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT email, firm, name FROM investors`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list identities")
	}
	defer rows.Close()

	var out []model.InvestorIdentity
	for rows.Next() {
		var id model.InvestorIdentity
		if err := rows.Scan(&id.Email, &id.FirmName, &id.Name); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan identity")
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate identities")
	}
	return out, nil
}

// AddInvestor inserts a discovered investor into the durable pipeline.
func (s *SQLiteStore) AddInvestor(ctx context.Context, inv model.DiscoveredInvestor) error {
	portfolio, err := json.Marshal(inv.PortfolioCompanies)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal portfolio")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO investors (id, name, firm, email, website, thesis, focus_areas, check_size, stage_preference, geography, portfolio_companies, linkedin_url, crunchbase_url, fit_score, fit_reasoning)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), inv.Name, inv.Firm, inv.Email, inv.Website, inv.Thesis,
		inv.FocusAreas, inv.CheckSize, inv.StagePreference, inv.Geography,
		string(portfolio), inv.LinkedinURL, inv.CrunchbaseURL, inv.FitScore, inv.FitReasoning,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: add investor")
	}
	return nil
}

// CreateRun records the start of a discovery run.
func (s *SQLiteStore) CreateRun(ctx context.Context, cfg model.DiscoveryConfig) (*model.DiscoveryRun, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal run config")
	}

	run := &model.DiscoveryRun{
		ID:        uuid.NewString(),
		Config:    cfg,
		Status:    model.RunStatusRunning,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO discovery_runs (id, config, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, string(cfgJSON), string(run.Status), run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create run")
	}
	return run, nil
}

// CompleteRun finalizes a run record with its terminal status and stats.
func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, stats *model.Stats) error {
	var statsJSON any
	if stats != nil {
		raw, err := json.Marshal(stats)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal stats")
		}
		statsJSON = string(raw)
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE discovery_runs SET status = ?, stats = ?, updated_at = ? WHERE id = ?`,
		string(status), statsJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: complete run")
	}
	return nil
}

// ListRuns returns the most recent discovery runs.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.DiscoveryRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, config, status, stats, created_at, updated_at FROM discovery_runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var out []model.DiscoveryRun
	for rows.Next() {
		var run model.DiscoveryRun
		var status, cfgJSON string
		var statsJSON sql.NullString
		if err := rows.Scan(&run.ID, &cfgJSON, &status, &statsJSON, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		run.Status = model.RunStatus(status)
		if err := json.Unmarshal([]byte(cfgJSON), &run.Config); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal run config")
		}
		if statsJSON.Valid && statsJSON.String != "" {
			run.Stats = &model.Stats{}
			if err := json.Unmarshal([]byte(statsJSON.String), run.Stats); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal run stats")
			}
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate runs")
	}
	return out, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
