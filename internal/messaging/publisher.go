package messaging

import (
	"context"

	"github.com/openelect/ballot-pipeline/internal/domain"
)

// Publisher defines the interface for handing ballot tasks to the queue.
// Delivery downstream is at-least-once; consumers dedup on the task's key.
//
//go:generate mockgen -source=publisher.go -destination=../mocks/messaging.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishTask enqueues one validated ballot task
	PublishTask(ctx context.Context, task *domain.BallotTask) error
	// Close closes the connection
	Close()
}
