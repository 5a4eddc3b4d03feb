package discovery

import (
	"fmt"

	"github.com/halo-ir/scout-cli/internal/model"
)

// SkipReason classifies why a lead did not survive the profiling phase.
type SkipReason string

const (
	SkipProfileFailure SkipReason = "profile_failure"
	SkipBelowThreshold SkipReason = "below_threshold"
)

// PassesGate reports whether a profiled investor clears the configured
// minimum fit score.
func PassesGate(inv *model.DiscoveredInvestor, minFitScore int) bool {
	return inv != nil && inv.FitScore >= minFitScore
}

// SkipMessage renders the user-facing message for a skip event. Score
// skips always cite both the score and the configured threshold.
func SkipMessage(lead model.Lead, reason SkipReason, score, minFitScore int) string {
	switch reason {
	case SkipBelowThreshold:
		return fmt.Sprintf("Skipped %s: fit score %d below threshold %d", lead.Name, score, minFitScore)
	default:
		return fmt.Sprintf("Skipped %s: could not build a profile", lead.Name)
	}
}
