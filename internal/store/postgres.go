package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/halo-ir/scout-cli/internal/model"
)

// Pool abstracts pgxpool.Pool so tests can substitute pgxmock.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// postgresSchema creates the durable tables. Investor identity fields
// are the dedup surface; fit data rides along for the portal.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS investors (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		firm TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		thesis TEXT NOT NULL DEFAULT '',
		focus_areas TEXT NOT NULL DEFAULT '',
		check_size TEXT NOT NULL DEFAULT '',
		stage_preference TEXT NOT NULL DEFAULT '',
		geography TEXT NOT NULL DEFAULT '',
		portfolio_companies JSONB NOT NULL DEFAULT '[]',
		linkedin_url TEXT NOT NULL DEFAULT '',
		crunchbase_url TEXT NOT NULL DEFAULT '',
		fit_score INT NOT NULL DEFAULT 0,
		fit_reasoning TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'Identified',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_investors_email ON investors (lower(email))`,
	`CREATE INDEX IF NOT EXISTS idx_investors_firm_name ON investors (lower(firm), lower(name))`,
	`CREATE TABLE IF NOT EXISTS discovery_runs (
		id UUID PRIMARY KEY,
		config JSONB NOT NULL,
		status TEXT NOT NULL,
		stats JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return eris.Wrap(err, "postgres: migrate")
		}
	}
	return nil
}

// ListIdentities fetches every investor identity triple in one query,
// regardless of how many investors a discovery batch holds.
func (s *PostgresStore) ListIdentities(ctx context.Context) ([]model.InvestorIdentity, error) {
	rows, err := s.pool.Query(ctx, `SELECT email, firm, name FROM investors`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list identities")
	}
	defer rows.Close()

	var out []model.InvestorIdentity
	for rows.Next() {
		var id model.InvestorIdentity
		if err := rows.Scan(&id.Email, &id.FirmName, &id.Name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan identity")
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate identities")
	}
	return out, nil
}

// AddInvestor inserts a discovered investor into the durable pipeline.
func (s *PostgresStore) AddInvestor(ctx context.Context, inv model.DiscoveredInvestor) error {
	portfolio, err := json.Marshal(inv.PortfolioCompanies)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal portfolio")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO investors (id, name, firm, email, website, thesis, focus_areas, check_size, stage_preference, geography, portfolio_companies, linkedin_url, crunchbase_url, fit_score, fit_reasoning)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		uuid.NewString(), inv.Name, inv.Firm, inv.Email, inv.Website, inv.Thesis,
		inv.FocusAreas, inv.CheckSize, inv.StagePreference, inv.Geography,
		portfolio, inv.LinkedinURL, inv.CrunchbaseURL, inv.FitScore, inv.FitReasoning,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: add investor")
	}
	return nil
}

// CreateRun records the start of a discovery run.
func (s *PostgresStore) CreateRun(ctx context.Context, cfg model.DiscoveryConfig) (*model.DiscoveryRun, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal run config")
	}

	run := &model.DiscoveryRun{
		ID:        uuid.NewString(),
		Config:    cfg,
		Status:    model.RunStatusRunning,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO discovery_runs (id, config, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, cfgJSON, string(run.Status), run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create run")
	}
	return run, nil
}

// CompleteRun finalizes a run record with its terminal status and stats.
func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, stats *model.Stats) error {
	var statsJSON []byte
	if stats != nil {
		var err error
		statsJSON, err = json.Marshal(stats)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal stats")
		}
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE discovery_runs SET status = $1, stats = $2, updated_at = $3 WHERE id = $4`,
		string(status), statsJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: complete run")
	}
	return nil
}

// ListRuns returns the most recent discovery runs.
func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.DiscoveryRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, config, status, stats, created_at, updated_at FROM discovery_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var out []model.DiscoveryRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate runs")
	}
	return out, nil
}

func scanRun(row pgx.Row) (*model.DiscoveryRun, error) {
	var run model.DiscoveryRun
	var status string
	var cfgJSON []byte
	var statsJSON []byte
	if err := row.Scan(&run.ID, &cfgJSON, &status, &statsJSON, &run.CreatedAt, &run.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrap(err, "postgres: run not found")
		}
		return nil, eris.Wrap(err, "postgres: scan run")
	}
	run.Status = model.RunStatus(status)
	if len(cfgJSON) > 0 {
		if err := json.Unmarshal(cfgJSON, &run.Config); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal run config")
		}
	}
	if len(statsJSON) > 0 {
		run.Stats = &model.Stats{}
		if err := json.Unmarshal(statsJSON, run.Stats); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal run stats")
		}
	}
	return &run, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
