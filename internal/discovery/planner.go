package discovery

import (
	"fmt"
	"strings"

	"github.com/halo-ir/scout-cli/internal/model"
)

// QueryGroup is a set of search query templates for one strategy.
type QueryGroup struct {
	Strategy  model.Strategy `json:"strategy"`
	Label     string         `json:"label"`
	Templates []string       `json:"templates"`
}

// Defaults applied when the config leaves keywords or geography empty.
var (
	defaultKeywords = []string{
		"AI", "SaaS", "manufacturing", "supply chain", "deep tech",
	}
	defaultGeographies = []string{
		"emerging markets", "Southeast Asia", "Middle East", "Africa",
	}
	defaultStage = "pre-seed and seed"
)

var strategyLabels = map[model.Strategy]string{
	model.StrategyThesis:    "Thesis-aligned investors",
	model.StrategyPortfolio: "Portfolio-overlap investors",
	model.StrategyDeals:     "Recent-deal investors",
	model.StrategyGeography: "Geography-focused investors",
	model.StrategyNews:      "News-surfaced investors",
}

// PlanQueries expands a discovery config into grouped search-query
// templates, one group per selected strategy. Groups are emitted in the
// canonical strategy order regardless of config ordering, and the output
// is fully deterministic for a given config: no I/O, no randomness.
func PlanQueries(cfg model.DiscoveryConfig) []QueryGroup {
	keywords := cfg.FocusKeywords
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	geos := []string{cfg.GeographyFilter}
	if strings.TrimSpace(cfg.GeographyFilter) == "" {
		geos = defaultGeographies
	}
	stage := cfg.StageFilter
	if strings.TrimSpace(stage) == "" {
		stage = defaultStage
	}

	var groups []QueryGroup
	for _, s := range model.CanonicalStrategies {
		if !cfg.HasStrategy(s) {
			continue
		}
		groups = append(groups, QueryGroup{
			Strategy:  s,
			Label:     strategyLabels[s],
			Templates: templatesFor(s, keywords, geos, stage),
		})
	}
	return groups
}

func templatesFor(s model.Strategy, keywords, geos []string, stage string) []string {
	var out []string
	switch s {
	case model.StrategyThesis:
		for _, kw := range keywords {
			out = append(out, fmt.Sprintf("venture capital firms with a published investment thesis on %s targeting %s companies", kw, stage))
		}
	case model.StrategyPortfolio:
		for _, kw := range keywords {
			out = append(out, fmt.Sprintf("investors whose portfolio includes %s startups at %s stage", kw, stage))
		}
	case model.StrategyDeals:
		for _, kw := range keywords {
			out = append(out, fmt.Sprintf("investors who led or joined %s rounds in %s companies in the last 12 months", stage, kw))
		}
	case model.StrategyGeography:
		for _, geo := range geos {
			out = append(out, fmt.Sprintf("active %s stage investors focused on %s", stage, geo))
		}
	case model.StrategyNews:
		for _, geo := range geos {
			out = append(out, fmt.Sprintf("funding announcements naming %s stage investors active in %s", stage, geo))
		}
	}
	return out
}
