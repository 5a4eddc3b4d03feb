package discovery

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/halo-ir/scout-cli/internal/model"
)

// scriptedResearcher returns canned responses: first by prompt
// substring match, then from the ordered responses slice.
type scriptedResearcher struct {
	mu        sync.Mutex
	responses []string
	byMatch   map[string]string
	err       error
	calls     []string
}

func (r *scriptedResearcher) Research(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, prompt)
	if r.err != nil {
		return "", r.err
	}
	for match, resp := range r.byMatch {
		if strings.Contains(prompt, match) {
			return resp, nil
		}
	}
	if len(r.responses) == 0 {
		return "", errors.New("scripted researcher: out of responses")
	}
	resp := r.responses[0]
	r.responses = r.responses[1:]
	return resp, nil
}

// fakeStore implements store.Store in memory.
type fakeStore struct {
	mu            sync.Mutex
	identities    []model.InvestorIdentity
	identityErr   error
	identityReads int
	added         []model.DiscoveredInvestor
	runs          []model.DiscoveryRun
	completed     map[string]model.RunStatus
}

func newFakeStore(identities ...model.InvestorIdentity) *fakeStore {
	return &fakeStore{identities: identities, completed: map[string]model.RunStatus{}}
}

func (s *fakeStore) ListIdentities(context.Context) ([]model.InvestorIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identityReads++
	if s.identityErr != nil {
		return nil, s.identityErr
	}
	return s.identities, nil
}

func (s *fakeStore) AddInvestor(_ context.Context, inv model.DiscoveredInvestor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, inv)
	return nil
}

func (s *fakeStore) CreateRun(_ context.Context, cfg model.DiscoveryConfig) (*model.DiscoveryRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := model.DiscoveryRun{ID: "run-1", Config: cfg, Status: model.RunStatusRunning}
	s.runs = append(s.runs, run)
	return &run, nil
}

func (s *fakeStore) CompleteRun(_ context.Context, runID string, status model.RunStatus, _ *model.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed[runID] = status
	return nil
}

func (s *fakeStore) ListRuns(context.Context, int) ([]model.DiscoveryRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs, nil
}

func (s *fakeStore) Migrate(context.Context) error { return nil }
func (s *fakeStore) Close() error                  { return nil }

func testConfig() model.DiscoveryConfig {
	return model.DiscoveryConfig{
		Strategies:  []model.Strategy{model.StrategyThesis},
		MinFitScore: 50,
		MaxResults:  10,
	}
}

// collect drains an event channel into a slice.
func collect(ch <-chan model.DiscoveryEvent) []model.DiscoveryEvent {
	var out []model.DiscoveryEvent
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

// eventsOfType filters events by type.
func eventsOfType(events []model.DiscoveryEvent, t model.EventType) []model.DiscoveryEvent {
	var out []model.DiscoveryEvent
	for _, ev := range events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
