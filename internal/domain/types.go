package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// BallotType classifies one recorded paper
type BallotType string

const (
	// BallotTypeValidList is a valid vote for a list without a preferential candidate
	BallotTypeValidList BallotType = "valid_list"
	// BallotTypeValidPreferential is a valid vote for a specific candidate on a list
	BallotTypeValidPreferential BallotType = "valid_preferential"
	// BallotTypeWhite is a blank paper
	BallotTypeWhite BallotType = "white"
	// BallotTypeCancelled is a spoiled/invalid paper with a recorded reason
	BallotTypeCancelled BallotType = "cancelled"
)

// Valid returns true if the ballot type is one of the known values
func (t BallotType) Valid() bool {
	switch t {
	case BallotTypeValidList, BallotTypeValidPreferential, BallotTypeWhite, BallotTypeCancelled:
		return true
	}
	return false
}

// CountsVotes returns true if entries of this type contribute to list/candidate tallies
func (t BallotType) CountsVotes() bool {
	return t == BallotTypeValidList || t == BallotTypeValidPreferential
}

// BallotPayload is the client-supplied classification of one paper.
// Invariants:
//   - ListID required iff type is valid_list or valid_preferential
//   - CandidateID required iff type is valid_preferential
//   - CancellationReason required iff type is cancelled
type BallotPayload struct {
	BallotType         BallotType     `json:"ballot_type"`
	ListID             *uint64        `json:"list_id,omitempty"`
	CandidateID        *uint64        `json:"candidate_id,omitempty"`
	CancellationReason *string        `json:"cancellation_reason,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// Validate checks the payload shape against the ballot entry invariants.
// It returns a *ValidationError with per-field messages, or nil when valid.
func (p *BallotPayload) Validate() error {
	v := NewValidationError()

	if !p.BallotType.Valid() {
		v.Add("ballot_type", fmt.Sprintf("must be one of %s, %s, %s, %s",
			BallotTypeValidList, BallotTypeValidPreferential, BallotTypeWhite, BallotTypeCancelled))
		return v
	}

	switch p.BallotType {
	case BallotTypeValidList:
		if p.ListID == nil {
			v.Add("list_id", "required for valid_list entries")
		}
		if p.CandidateID != nil {
			v.Add("candidate_id", "not allowed for valid_list entries")
		}
	case BallotTypeValidPreferential:
		if p.ListID == nil {
			v.Add("list_id", "required for valid_preferential entries")
		}
		if p.CandidateID == nil {
			v.Add("candidate_id", "required for valid_preferential entries")
		}
	case BallotTypeWhite, BallotTypeCancelled:
		if p.ListID != nil {
			v.Add("list_id", fmt.Sprintf("not allowed for %s entries", p.BallotType))
		}
		if p.CandidateID != nil {
			v.Add("candidate_id", fmt.Sprintf("not allowed for %s entries", p.BallotType))
		}
	}

	if p.BallotType == BallotTypeCancelled {
		if p.CancellationReason == nil || *p.CancellationReason == "" {
			v.Add("cancellation_reason", "required for cancelled entries")
		}
	} else if p.CancellationReason != nil {
		v.Add("cancellation_reason", "only allowed for cancelled entries")
	}

	if v.Empty() {
		return nil
	}
	return v
}

// BallotTask is the queue message carried from intake to the processing worker.
// Delivery is at-least-once; DedupKey makes duplicate deliveries detectable.
type BallotTask struct {
	TaskID      string        `json:"task_id"`
	StationID   uint64        `json:"station_id"`
	UserID      uint64        `json:"user_id"`
	SubmitterIP string        `json:"submitter_ip"`
	ReceivedAt  time.Time     `json:"received_at"`
	Payload     BallotPayload `json:"payload"`
}

// DedupKey returns a deterministic idempotency key for this task.
// Two tasks with identical station, user, payload and receive time hash to the
// same key, so a redelivered message maps onto the already-persisted entry.
func (t *BallotTask) DedupKey() string {
	// json.Marshal sorts map keys, so metadata serialization is stable
	metadata, _ := json.Marshal(t.Payload.Metadata)

	var listID, candidateID uint64
	if t.Payload.ListID != nil {
		listID = *t.Payload.ListID
	}
	if t.Payload.CandidateID != nil {
		candidateID = *t.Payload.CandidateID
	}
	var reason string
	if t.Payload.CancellationReason != nil {
		reason = *t.Payload.CancellationReason
	}

	h := sha256.New()
	fmt.Fprintf(h, "%d|%d|%s|%d|%d|%s|%s|%s",
		t.StationID,
		t.UserID,
		t.Payload.BallotType,
		listID,
		candidateID,
		reason,
		t.ReceivedAt.UTC().Format(time.RFC3339Nano),
		metadata,
	)
	return hex.EncodeToString(h.Sum(nil))
}

// SummarySnapshot is the station-level tally by ballot category.
// It is a plain serializable value so cache hits never hold live query state.
type SummarySnapshot struct {
	StationID              uint64    `json:"station_id"`
	TotalEntries           int64     `json:"total_entries"`
	ValidListVotes         int64     `json:"valid_list_votes"`
	ValidPreferentialVotes int64     `json:"valid_preferential_votes"`
	WhitePapers            int64     `json:"white_papers"`
	CancelledPapers        int64     `json:"cancelled_papers"`
	ComputedAt             time.Time `json:"computed_at"`
}

// AggregateSnapshot is the vote tally for one (list, candidate) pair at a station.
// CandidateID is nil for list-only tallies.
type AggregateSnapshot struct {
	StationID   uint64  `json:"station_id"`
	ListID      uint64  `json:"list_id"`
	CandidateID *uint64 `json:"candidate_id,omitempty"`
	VoteCount   int64   `json:"vote_count"`
}

// CandidateVoteCount pairs a candidate identity with a vote count.
// It is the transient per-list output unit of aggregation, never persisted directly.
type CandidateVoteCount struct {
	CandidateID *uint64 `json:"candidate_id,omitempty"`
	VoteCount   int64   `json:"vote_count"`
}
