package model

// EventType tags a DiscoveryEvent variant.
type EventType string

const (
	EventStatus           EventType = "status"
	EventInvestorFound    EventType = "investor_found"
	EventInvestorProfiled EventType = "investor_profiled"
	EventInvestorSkipped  EventType = "investor_skipped"
	EventError            EventType = "error"
	EventComplete         EventType = "complete"
)

// Progress reports position within the profiling phase.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Stats holds the aggregate counters carried by the complete event.
// Computed once at the end of a run, immutable afterwards.
type Stats struct {
	Total      int `json:"total"`      // profiled and above threshold
	Added      int `json:"added"`      // not already in pipeline
	Skipped    int `json:"skipped"`    // below threshold
	Duplicates int `json:"duplicates"` // already in pipeline
}

// DiscoveryEvent is one entry in the ordered stream a pipeline run
// produces. Data is set only on investor_found and investor_profiled;
// Stats only on complete; Progress only during the profiling phase.
type DiscoveryEvent struct {
	Type     EventType           `json:"type"`
	Message  string              `json:"message"`
	Data     *DiscoveredInvestor `json:"data,omitempty"`
	Progress *Progress           `json:"progress,omitempty"`
	Stats    *Stats              `json:"stats,omitempty"`
}
