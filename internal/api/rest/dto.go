package rest

import (
	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/store"
	"github.com/openelect/ballot-pipeline/internal/store/schema"
)

// SubmitBallotRequest is the body of a ballot submission
type SubmitBallotRequest struct {
	BallotType         string         `json:"ballot_type" binding:"required"`
	ListID             *uint64        `json:"list_id"`
	CandidateID        *uint64        `json:"candidate_id"`
	CancellationReason *string        `json:"cancellation_reason"`
	Metadata           map[string]any `json:"metadata"`
}

// Payload maps the request body onto the domain payload
func (r *SubmitBallotRequest) Payload() domain.BallotPayload {
	return domain.BallotPayload{
		BallotType:         domain.BallotType(r.BallotType),
		ListID:             r.ListID,
		CandidateID:        r.CandidateID,
		CancellationReason: r.CancellationReason,
		Metadata:           r.Metadata,
	}
}

// SubmitBallotResponse acknowledges an accepted submission. The entry is
// queued, not yet persisted; TaskID identifies it through the pipeline.
type SubmitBallotResponse struct {
	Message string `json:"message"`
	Queued  bool   `json:"queued"`
	TaskID  string `json:"task_id"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// ListEntriesResponse is one page of a station's ballot entries
type ListEntriesResponse struct {
	Entries    []*store.BallotEntryRow `json:"entries"`
	Pagination Pagination              `json:"pagination"`
}

// StationStatus carries the station's lifecycle flags
type StationStatus struct {
	Open    bool `json:"open"`
	Closed  bool `json:"closed"`
	Done    bool `json:"done"`
	Checked bool `json:"checked"`
	Final   bool `json:"final"`
}

// StationSummaryResponse is the station summary with station context.
// Summary is null when the station has never been aggregated.
type StationSummaryResponse struct {
	StationID        uint64                  `json:"station_id"`
	StationName      string                  `json:"station_name"`
	RegisteredVoters int64                   `json:"registered_voters"`
	Status           StationStatus           `json:"status"`
	Summary          *domain.SummarySnapshot `json:"summary"`
}

// StationAggregatesResponse is the deterministic list of per-list and
// per-candidate tallies for one station
type StationAggregatesResponse struct {
	StationID  uint64                     `json:"station_id"`
	Aggregates []domain.AggregateSnapshot `json:"aggregates"`
}

// StationResultsResponse combines summary and aggregates in one read
type StationResultsResponse struct {
	StationID        uint64                     `json:"station_id"`
	StationName      string                     `json:"station_name"`
	RegisteredVoters int64                      `json:"registered_voters"`
	Status           StationStatus              `json:"status"`
	Summary          *domain.SummarySnapshot    `json:"summary"`
	Aggregates       []domain.AggregateSnapshot `json:"aggregates"`
}

// stationStatus maps the station row's lifecycle flags
func stationStatus(station *schema.PollingStation) StationStatus {
	return StationStatus{
		Open:    station.Open,
		Closed:  station.Closed,
		Done:    station.Done,
		Checked: station.Checked,
		Final:   station.Final,
	}
}
