package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/halo-ir/scout-cli/internal/model"
)

// defaultFitScore is assumed when the research step returns no usable
// score.
const defaultFitScore = 50

const profilePrompt = `You are an investor research analyst building a deep profile of one candidate investor.

Target company profile:
%s

Candidate: %s%s%s
Why surfaced: %s

Search for this investor: their firm, portfolio, public profiles (LinkedIn, Crunchbase), recent deals, stated thesis, and typical check size. Use only facts you can verify through search; leave fields null when nothing verifiable is found.

Compute fit_score by summing these criteria independently (0 if not met):
- +20 if they invest at %s stage
- +20 if their sector focus overlaps: %s
- +20 if their geography or market focus overlaps: %s
- +20 if their typical check size overlaps %s
- +10 if they made a qualifying investment within the last 12 months
- +10 bonus if their portfolio contains a company in %s

Return ONLY a JSON object, no prose:
{"name": "...", "firm": "...", "website": "...", "email": null, "thesis": null, "focus_areas": null, "check_size": null, "stage_preference": null, "geography": null, "portfolio_companies": [], "linkedin_url": null, "crunchbase_url": null, "fit_score": 0, "fit_reasoning": "..."}`

// Profiler enriches a single lead via an independent research request
// and applies the additive scoring rubric.
type Profiler struct {
	Researcher Researcher
	Target     TargetProfile
}

// Profile deep-researches one lead. It never returns an error: all
// research and parsing failures collapse to nil, which the orchestrator
// reports as a skipped investor. One bad lead must never abort a batch.
func (p *Profiler) Profile(ctx context.Context, lead model.Lead) *model.DiscoveredInvestor {
	prompt := buildProfilePrompt(p.Target.withDefaults(), lead)

	text, err := p.Researcher.Research(ctx, prompt)
	if err != nil {
		zap.L().Warn("profile: research request failed",
			zap.String("lead", lead.Name),
			zap.Error(err),
		)
		return nil
	}

	inv := parseProfile(text, lead)
	if inv == nil {
		zap.L().Warn("profile: unusable research response",
			zap.String("lead", lead.Name),
		)
	}
	return inv
}

func buildProfilePrompt(target TargetProfile, lead model.Lead) string {
	firm := ""
	if lead.Firm != "" {
		firm = " of " + lead.Firm
	}
	site := ""
	if lead.Website != "" {
		site = " (" + lead.Website + ")"
	}
	reason := lead.Reason
	if reason == "" {
		reason = "surfaced by strategy search"
	}
	return fmt.Sprintf(profilePrompt,
		target.Summary(),
		lead.Name, firm, site,
		reason,
		target.Stage,
		strings.Join(target.Sectors, ", "),
		strings.Join(target.Regions, ", "),
		target.RaiseRange,
		target.Vertical,
	)
}

// parseProfile extracts the first balanced JSON object from the response
// and builds a strict DiscoveredInvestor from its permissive shape.
// Missing fields default to empty; fit_score defaults to 50 and is
// clamped into [0,100]. Returns nil when no object can be parsed.
func parseProfile(text string, lead model.Lead) *model.DiscoveredInvestor {
	raw := firstJSONObject(text)
	if raw == "" {
		return nil
	}

	var shape map[string]any
	if err := json.Unmarshal([]byte(raw), &shape); err != nil {
		return nil
	}

	inv := &model.DiscoveredInvestor{
		Name:               strings.TrimSpace(asString(shape["name"])),
		Firm:               strings.TrimSpace(asString(shape["firm"])),
		Website:            strings.TrimSpace(asString(shape["website"])),
		Reason:             lead.Reason,
		Email:              strings.TrimSpace(asString(shape["email"])),
		Thesis:             strings.TrimSpace(asString(shape["thesis"])),
		FocusAreas:         strings.TrimSpace(asString(shape["focus_areas"])),
		CheckSize:          strings.TrimSpace(asString(shape["check_size"])),
		StagePreference:    strings.TrimSpace(asString(shape["stage_preference"])),
		Geography:          strings.TrimSpace(asString(shape["geography"])),
		PortfolioCompanies: asStringSlice(shape["portfolio_companies"]),
		LinkedinURL:        strings.TrimSpace(asString(shape["linkedin_url"])),
		CrunchbaseURL:      strings.TrimSpace(asString(shape["crunchbase_url"])),
		FitScore:           model.ClampScore(asScore(shape["fit_score"])),
		FitReasoning:       strings.TrimSpace(asString(shape["fit_reasoning"])),
	}

	// The research step sometimes drops identity fields; backfill from
	// the lead so the profile stays attributable.
	if inv.Name == "" {
		inv.Name = lead.Name
	}
	if inv.Firm == "" {
		inv.Firm = lead.Firm
	}
	if inv.Website == "" {
		inv.Website = lead.Website
	}
	return inv
}

// asScore converts a decoded JSON value to an integer score, defaulting
// to defaultFitScore when missing or non-numeric.
func asScore(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int(parsed)
		}
	}
	return defaultFitScore
}

// asStringSlice converts a decoded JSON value to a string slice,
// dropping empty and non-string entries. Never returns nil so the field
// serializes as [].
func asStringSlice(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, it := range items {
		if s := strings.TrimSpace(asString(it)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
