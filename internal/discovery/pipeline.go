package discovery

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/halo-ir/scout-cli/internal/model"
	"github.com/halo-ir/scout-cli/internal/store"
)

// State names a pipeline phase. Transitions are strictly sequential:
// idle → planning → discovering → profiling → deduping → completed.
// StateError is reachable only from planning (no strategies) and
// discovering (transport failure); a failed lead during profiling is
// absorbed locally and never fails the machine.
type State string

const (
	StateIdle        State = "idle"
	StatePlanning    State = "planning"
	StateDiscovering State = "discovering"
	StateProfiling   State = "profiling"
	StateDeduping    State = "deduping"
	StateCompleted   State = "completed"
	StateError       State = "error"
)

// Pipeline orchestrates one discovery run end to end and emits its
// ordered event stream.
type Pipeline struct {
	discoverer *Discoverer
	profiler   *Profiler
	store      store.Store
}

// NewPipeline wires a pipeline from its collaborators. The store may be
// nil, in which case duplicate flagging sees an empty pipeline and run
// records are not written.
func NewPipeline(researcher Researcher, target TargetProfile, st store.Store) *Pipeline {
	target = target.withDefaults()
	return &Pipeline{
		discoverer: &Discoverer{Researcher: researcher, Target: target},
		profiler:   &Profiler{Researcher: researcher, Target: target},
		store:      st,
	}
}

// Run executes the pipeline for one config and returns the event
// channel. The channel carries a totally ordered stream ending in a
// terminal event (error or complete followed by the investor_found
// enumeration) and is closed when the run finishes. Cancelling ctx stops
// the run before the next external call; the channel then closes without
// a terminal event since the consumer is gone.
func (p *Pipeline) Run(ctx context.Context, cfg model.DiscoveryConfig) <-chan model.DiscoveryEvent {
	events := make(chan model.DiscoveryEvent)
	go func() {
		defer close(events)
		p.run(ctx, cfg, events)
	}()
	return events
}

func (p *Pipeline) run(ctx context.Context, cfg model.DiscoveryConfig, events chan<- model.DiscoveryEvent) {
	log := zap.L().With(zap.Int("max_results", cfg.MaxResults), zap.Int("min_fit_score", cfg.MinFitScore))

	state := StateIdle
	transition := func(next State) {
		log.Debug("pipeline: state transition",
			zap.String("from", string(state)),
			zap.String("to", string(next)),
		)
		state = next
	}

	emit := func(ev model.DiscoveryEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// Run bookkeeping is best-effort: store trouble must never break
	// the event stream.
	runID := ""
	if p.store != nil {
		if run, err := p.store.CreateRun(ctx, cfg); err != nil {
			log.Warn("pipeline: failed to create run record", zap.Error(err))
		} else {
			runID = run.ID
			log = log.With(zap.String("run_id", runID))
		}
	}
	finishRun := func(status model.RunStatus, stats *model.Stats) {
		if p.store == nil || runID == "" {
			return
		}
		if err := p.store.CompleteRun(ctx, runID, status, stats); err != nil {
			log.Warn("pipeline: failed to complete run record", zap.Error(err))
		}
	}

	// Planning. An empty strategy set is the only configuration error
	// the pipeline defends against itself.
	transition(StatePlanning)
	if len(cfg.Strategies) == 0 {
		emit(model.DiscoveryEvent{
			Type:    model.EventError,
			Message: "No discovery strategies selected",
		})
		transition(StateError)
		finishRun(model.RunStatusFailed, nil)
		return
	}
	groups := PlanQueries(cfg)

	// Discovering.
	transition(StateDiscovering)
	if !emit(model.DiscoveryEvent{
		Type:    model.EventStatus,
		Message: fmt.Sprintf("Searching for investors using %d strategies: %s", len(groups), strategyList(groups)),
	}) {
		return
	}

	if ctx.Err() != nil {
		return
	}
	leads, err := p.discoverer.Discover(ctx, cfg, groups)
	if err != nil {
		log.Error("pipeline: discovery failed", zap.Error(err))
		emit(model.DiscoveryEvent{
			Type:    model.EventError,
			Message: "Investor search failed: " + err.Error(),
		})
		transition(StateError)
		finishRun(model.RunStatusFailed, nil)
		return
	}

	if len(leads) == 0 {
		if !emit(model.DiscoveryEvent{
			Type:    model.EventStatus,
			Message: "Search returned no candidate investors",
		}) {
			return
		}
		emit(model.DiscoveryEvent{
			Type:    model.EventComplete,
			Message: "Discovery complete: no investors found",
			Stats:   &model.Stats{},
		})
		transition(StateCompleted)
		finishRun(model.RunStatusComplete, &model.Stats{})
		return
	}

	// Profiling, strictly one lead at a time. Sequential processing
	// bounds load on the rate-limited research backend and makes the
	// event order deterministic.
	transition(StateProfiling)
	unique := DedupeLeads(leads, cfg.MaxResults)
	if !emit(model.DiscoveryEvent{
		Type:    model.EventStatus,
		Message: fmt.Sprintf("Found %d unique candidates, profiling each", len(unique)),
	}) {
		return
	}

	var profiled []model.DiscoveredInvestor
	skippedScore := 0
	skippedFailure := 0
	total := len(unique)

	for i, lead := range unique {
		progress := &model.Progress{Current: i + 1, Total: total}
		if !emit(model.DiscoveryEvent{
			Type:     model.EventStatus,
			Message:  fmt.Sprintf("Profiling %s (%d of %d)", lead.Name, i+1, total),
			Progress: progress,
		}) {
			return
		}

		if ctx.Err() != nil {
			return
		}
		inv := p.profiler.Profile(ctx, lead)
		if inv == nil {
			skippedFailure++
			if !emit(model.DiscoveryEvent{
				Type:     model.EventInvestorSkipped,
				Message:  SkipMessage(lead, SkipProfileFailure, 0, cfg.MinFitScore),
				Progress: progress,
			}) {
				return
			}
			continue
		}

		if !PassesGate(inv, cfg.MinFitScore) {
			skippedScore++
			if !emit(model.DiscoveryEvent{
				Type:     model.EventInvestorSkipped,
				Message:  SkipMessage(lead, SkipBelowThreshold, inv.FitScore, cfg.MinFitScore),
				Progress: progress,
			}) {
				return
			}
			continue
		}

		profiled = append(profiled, *inv)
		if !emit(model.DiscoveryEvent{
			Type:     model.EventInvestorProfiled,
			Message:  fmt.Sprintf("Profiled %s (fit score %d)", inv.Name, inv.FitScore),
			Data:     inv,
			Progress: progress,
		}) {
			return
		}
	}

	// Deduping: one batched identity read, then flag matches.
	transition(StateDeduping)
	if !emit(model.DiscoveryEvent{
		Type:    model.EventStatus,
		Message: "Cross-referencing against existing pipeline",
	}) {
		return
	}

	var identities []model.InvestorIdentity
	if p.store != nil {
		if ctx.Err() != nil {
			return
		}
		ids, err := p.store.ListIdentities(ctx)
		if err != nil {
			// Not a pipeline-fatal condition: matches go unflagged and the
			// run still completes.
			log.Warn("pipeline: identity lookup failed, skipping duplicate flagging", zap.Error(err))
		} else {
			identities = ids
		}
	}
	final := FlagExisting(profiled, identities)

	duplicates := 0
	for _, inv := range final {
		if inv.AlreadyInPipeline {
			duplicates++
		}
	}
	stats := &model.Stats{
		Total:      len(final),
		Added:      len(final) - duplicates,
		Skipped:    skippedScore,
		Duplicates: duplicates,
	}

	transition(StateCompleted)
	if !emit(model.DiscoveryEvent{
		Type: model.EventComplete,
		Message: fmt.Sprintf("Discovery complete: %d investors (%d new, %d already in pipeline, %d below threshold)",
			stats.Total, stats.Added, stats.Duplicates, stats.Skipped),
		Stats: stats,
	}) {
		return
	}

	// Enumerate the full result set after the stats so a consumer can
	// render it, duplicates included.
	for i := range final {
		inv := final[i]
		if !emit(model.DiscoveryEvent{
			Type:    model.EventInvestorFound,
			Message: investorLabel(inv),
			Data:    &inv,
		}) {
			return
		}
	}

	log.Info("pipeline: run complete",
		zap.Int("total", stats.Total),
		zap.Int("added", stats.Added),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("skipped_score", skippedScore),
		zap.Int("skipped_failure", skippedFailure),
	)
	finishRun(model.RunStatusComplete, stats)
}

func strategyList(groups []QueryGroup) string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g.Strategy)
	}
	return strings.Join(names, ", ")
}

func investorLabel(inv model.DiscoveredInvestor) string {
	if inv.Firm != "" && inv.Firm != inv.Name {
		return fmt.Sprintf("%s (%s)", inv.Name, inv.Firm)
	}
	return inv.Name
}
