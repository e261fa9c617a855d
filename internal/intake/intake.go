package intake

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/openelect/ballot-pipeline/internal/adapter"
	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/logger"
	"github.com/openelect/ballot-pipeline/internal/messaging"
	"github.com/openelect/ballot-pipeline/internal/ratelimit"
	"github.com/openelect/ballot-pipeline/internal/store"
	"github.com/openelect/ballot-pipeline/internal/store/schema"
)

// SubmitInput is one ballot submission as it arrives at intake
type SubmitInput struct {
	StationID   uint64
	UserID      uint64
	SubmitterIP string
	Payload     domain.BallotPayload
}

// SubmitResult is returned when a submission is accepted into the queue
type SubmitResult struct {
	TaskID string
}

// RateLimitedError is returned when the user's submission window is exhausted
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// Service accepts ballot submissions. Accepting means validating and
// enqueueing; persistence and tallying happen asynchronously, which keeps
// per-request latency bounded when many counters submit at once.
//
//go:generate mockgen -source=intake.go -destination=../mocks/intake.go -package=mocks -mock_names=Service=MockIntakeService
type Service interface {
	// Submit validates and enqueues one ballot submission.
	// Failure modes: domain.ErrStationNotFound, domain.ErrNotAuthorized,
	// *domain.ValidationError, *RateLimitedError.
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
}

type service struct {
	store     store.Store
	gate      ratelimit.Gate
	publisher messaging.Publisher
	clock     adapter.Clock
	json      adapter.JSON
	entropy   *ulid.MonotonicEntropy
}

// NewService creates the submission intake service
func NewService(st store.Store, gate ratelimit.Gate, publisher messaging.Publisher, clock adapter.Clock, jsonAdapter adapter.JSON) Service {
	return &service{
		store:     st,
		gate:      gate,
		publisher: publisher,
		clock:     clock,
		json:      jsonAdapter,
		entropy:   ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0), //nolint:gosec
	}
}

// Submit validates and enqueues one ballot submission
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	// Authorization: only an active counter assigned to this station may submit
	station, err := s.store.GetStation(ctx, input.StationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load station: %w", err)
	}
	if station == nil {
		return nil, domain.ErrStationNotFound
	}

	authorized, err := s.store.IsActiveCounter(ctx, input.StationID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}
	if !authorized {
		return nil, domain.ErrNotAuthorized
	}

	// Shape validation: malformed payloads never reach the queue
	if err := input.Payload.Validate(); err != nil {
		return nil, err
	}

	// Rate limit: the hit is atomic and counts toward the window no matter
	// what happens to the submission afterwards
	result, err := s.gate.CheckAndHit(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("rate limiter check failed: %w", err)
	}
	if !result.Allowed {
		s.recordSuspiciousActivity(ctx, input, result.RetryAfter)
		return nil, &RateLimitedError{RetryAfter: result.RetryAfter}
	}

	task := &domain.BallotTask{
		TaskID:      ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy).String(),
		StationID:   input.StationID,
		UserID:      input.UserID,
		SubmitterIP: input.SubmitterIP,
		ReceivedAt:  s.clock.Now().UTC(),
		Payload:     input.Payload,
	}

	if err := s.publisher.PublishTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	s.recordAccepted(ctx, input, task.TaskID)

	return &SubmitResult{TaskID: task.TaskID}, nil
}

// recordSuspiciousActivity appends the abuse signal for a rate-limit violation.
// The rejection stands even if the audit write fails.
func (s *service) recordSuspiciousActivity(ctx context.Context, input SubmitInput, retryAfter time.Duration) {
	payload, _ := s.json.Marshal(map[string]any{
		"reason":              "ballot entry rate limit exceeded",
		"retry_after_seconds": int(retryAfter.Seconds()),
	})

	err := s.store.CreateBallotEntryLog(ctx, &schema.BallotEntryLog{
		StationID: input.StationID,
		UserID:    input.UserID,
		EventType: schema.BallotEntryLogEventSuspiciousActivity,
		Payload:   datatypes.JSON(payload),
		IP:        input.SubmitterIP,
	})
	if err != nil {
		logger.Error(err,
			zap.String("message", "Failed to record suspicious activity"),
			zap.Uint64("station_id", input.StationID),
			zap.Uint64("user_id", input.UserID),
		)
	}
}

// recordAccepted appends the audit event for an admitted submission
func (s *service) recordAccepted(ctx context.Context, input SubmitInput, taskID string) {
	payload, _ := s.json.Marshal(map[string]any{
		"task_id":     taskID,
		"ballot_type": input.Payload.BallotType,
	})

	err := s.store.CreateBallotEntryLog(ctx, &schema.BallotEntryLog{
		StationID: input.StationID,
		UserID:    input.UserID,
		EventType: schema.BallotEntryLogEventEntryAccepted,
		Payload:   datatypes.JSON(payload),
		IP:        input.SubmitterIP,
	})
	if err != nil {
		logger.Error(err,
			zap.String("message", "Failed to record accepted entry"),
			zap.Uint64("station_id", input.StationID),
			zap.String("task_id", taskID),
		)
	}
}
