package discovery

import (
	"golang.org/x/text/cases"

	"github.com/halo-ir/scout-cli/internal/model"
)

// DedupeLeads collapses leads sharing an identity key, keeping the first
// occurrence in input order, then truncates to max (ignored when <= 0).
// Idempotent: applying it twice yields the same slice.
func DedupeLeads(leads []model.Lead, max int) []model.Lead {
	seen := make(map[string]bool, len(leads))
	out := make([]model.Lead, 0, len(leads))
	for _, l := range leads {
		key := l.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// FlagExisting marks investors already present in the persistent store.
// An investor matches an identity when the emails are equal under case
// folding, or when both firm name and person name are. Matched investors
// are flagged, never removed. Idempotent against an unchanged identity
// set.
func FlagExisting(investors []model.DiscoveredInvestor, identities []model.InvestorIdentity) []model.DiscoveredInvestor {
	fold := cases.Fold()

	emails := make(map[string]bool, len(identities))
	firmAndName := make(map[string]bool, len(identities))
	for _, id := range identities {
		if id.Email != "" {
			emails[fold.String(id.Email)] = true
		}
		if id.FirmName != "" && id.Name != "" {
			firmAndName[fold.String(id.FirmName)+"|"+fold.String(id.Name)] = true
		}
	}

	out := make([]model.DiscoveredInvestor, len(investors))
	for i, inv := range investors {
		inv.AlreadyInPipeline = (inv.Email != "" && emails[fold.String(inv.Email)]) ||
			(inv.Firm != "" && inv.Name != "" && firmAndName[fold.String(inv.Firm)+"|"+fold.String(inv.Name)])
		out[i] = inv
	}
	return out
}
