// Package store persists the durable investor pipeline and discovery
// run records. Two drivers exist: postgres for deployments and sqlite
// for local use.
package store

import (
	"context"

	"github.com/halo-ir/scout-cli/internal/model"
)

// Store defines the persistence interface for the discovery pipeline.
//
// The pipeline itself only reads identities (one batched query per run)
// and records run bookkeeping. Investor rows are written exclusively by
// the operator-triggered promote action.
type Store interface {
	// Identities
	ListIdentities(ctx context.Context) ([]model.InvestorIdentity, error)

	// Investors
	AddInvestor(ctx context.Context, inv model.DiscoveredInvestor) error

	// Runs
	CreateRun(ctx context.Context, cfg model.DiscoveryConfig) (*model.DiscoveryRun, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, stats *model.Stats) error
	ListRuns(ctx context.Context, limit int) ([]model.DiscoveryRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
