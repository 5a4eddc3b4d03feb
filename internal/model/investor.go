package model

import (
	"strings"
	"time"
)

// Strategy selects a search approach for query planning.
type Strategy string

const (
	StrategyThesis    Strategy = "thesis"
	StrategyPortfolio Strategy = "portfolio"
	StrategyDeals     Strategy = "deals"
	StrategyGeography Strategy = "geography"
	StrategyNews      Strategy = "news"
)

// CanonicalStrategies lists all strategies in their canonical planning
// order. Query groups are always emitted in this order regardless of how
// the config set is ordered.
var CanonicalStrategies = []Strategy{
	StrategyThesis,
	StrategyPortfolio,
	StrategyDeals,
	StrategyGeography,
	StrategyNews,
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyThesis, StrategyPortfolio, StrategyDeals, StrategyGeography, StrategyNews:
		return true
	}
	return false
}

// DiscoveryConfig describes a single discovery run. Immutable for the
// lifetime of the run.
type DiscoveryConfig struct {
	Strategies      []Strategy `json:"strategies" yaml:"strategies" mapstructure:"strategies"`
	FocusKeywords   []string   `json:"focus_keywords,omitempty" yaml:"focus_keywords" mapstructure:"focus_keywords"`
	GeographyFilter string     `json:"geography_filter,omitempty" yaml:"geography_filter" mapstructure:"geography_filter"`
	StageFilter     string     `json:"stage_filter,omitempty" yaml:"stage_filter" mapstructure:"stage_filter"`
	MinFitScore     int        `json:"min_fit_score" yaml:"min_fit_score" mapstructure:"min_fit_score"`
	MaxResults      int        `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// HasStrategy reports whether the config selects the given strategy.
func (c DiscoveryConfig) HasStrategy(s Strategy) bool {
	for _, sel := range c.Strategies {
		if sel == s {
			return true
		}
	}
	return false
}

// Lead is an unverified candidate investor surfaced by the discovery
// phase. It exists only inside the pipeline; profiling turns it into a
// DiscoveredInvestor or discards it.
type Lead struct {
	Name    string `json:"name"`
	Firm    string `json:"firm,omitempty"`
	Website string `json:"website,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// IdentityKey returns the intra-batch dedup key:
// lowercase(name) + "|" + lowercase(firm).
func (l Lead) IdentityKey() string {
	return strings.ToLower(l.Name) + "|" + strings.ToLower(l.Firm)
}

// DiscoveredInvestor is a lead enriched with structured attributes and a
// fit score. FitScore is always within [0,100] after construction.
type DiscoveredInvestor struct {
	Name               string   `json:"name"`
	Firm               string   `json:"firm,omitempty"`
	Website            string   `json:"website,omitempty"`
	Reason             string   `json:"reason,omitempty"`
	Email              string   `json:"email,omitempty"`
	Thesis             string   `json:"thesis,omitempty"`
	FocusAreas         string   `json:"focus_areas,omitempty"`
	CheckSize          string   `json:"check_size,omitempty"`
	StagePreference    string   `json:"stage_preference,omitempty"`
	Geography          string   `json:"geography,omitempty"`
	PortfolioCompanies []string `json:"portfolio_companies"`
	LinkedinURL        string   `json:"linkedin_url,omitempty"`
	CrunchbaseURL      string   `json:"crunchbase_url,omitempty"`
	FitScore           int      `json:"fit_score"`
	FitReasoning       string   `json:"fit_reasoning"`
	AlreadyInPipeline  bool     `json:"already_in_pipeline"`
}

// InvestorIdentity is the persistent-store identity triple used for
// duplicate detection.
type InvestorIdentity struct {
	Email    string `json:"email" db:"email"`
	FirmName string `json:"firm_name" db:"firm_name"`
	Name     string `json:"name" db:"name"`
}

// ClampScore bounds a fit score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// RunStatus represents the state of a discovery run record.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// DiscoveryRun is the persisted record of one discovery run.
type DiscoveryRun struct {
	ID        string          `json:"id"`
	Config    DiscoveryConfig `json:"config"`
	Status    RunStatus       `json:"status"`
	Stats     *Stats          `json:"stats,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
