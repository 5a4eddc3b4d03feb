// Package discovery implements the investor discovery and qualification
// pipeline: query planning, lead discovery via a research backend,
// per-lead profiling with a fixed scoring rubric, score gating,
// duplicate detection against the investor store, and an ordered event
// stream describing every step.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/halo-ir/scout-cli/internal/model"
)

const discoverPrompt = `You are an investor research analyst sourcing candidate investors for a fundraise.

Target company profile:
%s

Run every search query group below and collect investors (individual angels or funds) that plausibly fit the profile:

%s

Rules:
- Use only facts you can verify through search. Never invent a person, firm, or website.
- Prefer investors with verifiable recent activity.
- Return at most %d candidates.

Return ONLY a JSON array, no prose, where each element is:
{"name": "<person or fund name>", "firm": "<firm name or empty>", "website": "<url or empty>", "reason": "<one sentence on why they fit>"}`

// Discoverer turns a discovery config and planned query groups into a
// list of unverified leads via one consolidated research request.
type Discoverer struct {
	Researcher Researcher
	Target     TargetProfile
}

// Discover issues the discovery research request and parses the result.
// A transport failure is returned as an error; an unparseable response
// is not an error, it is zero leads.
func (d *Discoverer) Discover(ctx context.Context, cfg model.DiscoveryConfig, groups []QueryGroup) ([]model.Lead, error) {
	prompt := buildDiscoverPrompt(d.Target.withDefaults(), cfg, groups)

	text, err := d.Researcher.Research(ctx, prompt)
	if err != nil {
		return nil, eris.Wrap(err, "discover: research request")
	}

	return parseLeads(text), nil
}

func buildDiscoverPrompt(target TargetProfile, cfg model.DiscoveryConfig, groups []QueryGroup) string {
	var qb strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&qb, "%s:\n", g.Label)
		for _, tmpl := range g.Templates {
			fmt.Fprintf(&qb, "- %s\n", tmpl)
		}
	}
	return fmt.Sprintf(discoverPrompt, target.Summary(), strings.TrimRight(qb.String(), "\n"), cfg.MaxResults)
}

// parseLeads scans free-form response text for the first balanced JSON
// array and converts it to leads. The array is decoded into a permissive
// untyped shape first; entries without a name are dropped. Any failure
// yields an empty list: discovery is only fatal at the transport layer.
func parseLeads(text string) []model.Lead {
	raw := firstJSONArray(text)
	if raw == "" {
		zap.L().Warn("discover: no JSON array in research response",
			zap.Int("response_len", len(text)),
		)
		return nil
	}

	var shapes []map[string]any
	if err := json.Unmarshal([]byte(raw), &shapes); err != nil {
		zap.L().Warn("discover: failed to parse lead array", zap.Error(err))
		return nil
	}

	leads := make([]model.Lead, 0, len(shapes))
	for _, s := range shapes {
		name := strings.TrimSpace(asString(s["name"]))
		if name == "" {
			continue
		}
		leads = append(leads, model.Lead{
			Name:    name,
			Firm:    strings.TrimSpace(asString(s["firm"])),
			Website: strings.TrimSpace(asString(s["website"])),
			Reason:  strings.TrimSpace(asString(s["reason"])),
		})
	}
	return leads
}

// asString converts a decoded JSON value to a string, tolerating nulls
// and non-string scalars.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
