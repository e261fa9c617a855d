package worker

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/openelect/ballot-pipeline/internal/adapter"
	"github.com/openelect/ballot-pipeline/internal/aggregator"
	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/logger"
	js "github.com/openelect/ballot-pipeline/internal/providers/jetstream"
	"github.com/openelect/ballot-pipeline/internal/store"
	"github.com/openelect/ballot-pipeline/internal/store/schema"
)

// Config holds the configuration for the ballot processing worker
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// AckWaitTimeout is the queue's visibility timeout: a delivery not acked
	// within it is requeued rather than left in flight indefinitely
	AckWaitTimeout time.Duration
	// MaxDeliver bounds redeliveries; the last delivery dead-letters instead of retrying
	MaxDeliver int
	// PoolSize bounds concurrently processed tasks
	PoolSize int
	// QueueSize bounds the in-process buffer in front of the pool
	QueueSize int
	// MaxPersistAttempts bounds transient-failure retries within one delivery
	MaxPersistAttempts int
	// PersistRetryInterval is the initial backoff between persist attempts
	PersistRetryInterval time.Duration
}

// Processor consumes ballot tasks from the queue, persists entries and
// triggers per-station aggregate rebuilds
type Processor interface {
	// Run starts consuming until the context is canceled
	Run(ctx context.Context) error
	// Close stops the pool and closes the connection
	Close()
}

type processor struct {
	nc     adapter.NatsConn
	jets   adapter.JetStream
	store  store.Store
	engine aggregator.Engine
	json   adapter.JSON
	pool   pond.Pool
	config Config
}

// NewProcessor creates the ballot processing worker and ensures the stream exists
func NewProcessor(
	ctx context.Context,
	cfg Config,
	natsJS adapter.NatsJetStream,
	st store.Store,
	engine aggregator.Engine,
	jsonAdapter adapter.JSON,
) (Processor, error) {
	nc, jets, err := js.Connect(cfg.URL, cfg.ConnectionName, cfg.MaxReconnects, cfg.ReconnectWait, natsJS)
	if err != nil {
		return nil, err
	}

	if err := js.EnsureStream(ctx, jets, cfg.StreamName); err != nil {
		nc.Close()
		return nil, err
	}

	return &processor{
		nc:     nc,
		jets:   jets,
		store:  st,
		engine: engine,
		json:   jsonAdapter,
		pool:   pond.NewPool(cfg.PoolSize, pond.WithQueueSize(cfg.QueueSize)),
		config: cfg,
	}, nil
}

// Run starts consuming ballot tasks
func (p *processor) Run(ctx context.Context) error {
	logger.Info("Starting ballot processor",
		zap.String("stream", p.config.StreamName),
		zap.String("consumer", p.config.ConsumerName),
	)

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       p.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       p.config.AckWaitTimeout,
		MaxDeliver:    p.config.MaxDeliver,
		FilterSubject: js.SubjectPrefix + ".>",
	}

	consumer, err := p.jets.CreateOrUpdateConsumer(ctx, p.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	sub, err := consumer.Consume(func(msg adapter.Message) {
		// The pool bounds concurrency; Submit blocks when the buffer is full,
		// which pushes backpressure onto the consumer
		p.pool.Submit(func() {
			p.handleMessage(ctx, msg)
		})
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming ballot tasks")

	<-ctx.Done()
	logger.Info("Shutting down ballot processor")
	return ctx.Err()
}

// handleMessage processes a single queued ballot task
func (p *processor) handleMessage(ctx context.Context, msg adapter.Message) {
	var deliveries uint64 = 1
	if metadata, err := msg.Metadata(); err == nil {
		deliveries = metadata.NumDelivered
	}

	var task domain.BallotTask
	if err := p.json.Unmarshal(msg.Data(), &task); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal task, terminating"))
		// Unparseable payloads can never succeed; park what we have and stop redelivery
		p.deadLetter(ctx, msg, &task, fmt.Sprintf("unparseable task payload: %v", err), deliveries, true)
		return
	}

	logger.Info("Received ballot task",
		zap.String("task_id", task.TaskID),
		zap.Uint64("station_id", task.StationID),
		zap.Uint64("user_id", task.UserID),
		zap.Uint64("delivery_count", deliveries),
	)

	created, err := p.persistWithRetry(ctx, &task)
	if err != nil {
		if domain.IsPermanent(err) {
			p.deadLetter(ctx, msg, &task, err.Error(), deliveries, true)
			return
		}

		// Transient failure: hand the delivery back to the queue unless this
		// was the last allowed delivery, in which case it parks instead of
		// silently vanishing
		if p.config.MaxDeliver > 0 && deliveries >= uint64(p.config.MaxDeliver) {
			p.deadLetter(ctx, msg, &task, fmt.Sprintf("retries exhausted: %v", err), deliveries, true)
			return
		}

		logger.Error(err,
			zap.String("message", "Failed to persist ballot entry, requeueing"),
			zap.String("task_id", task.TaskID),
		)
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	if !created {
		logger.Info("Duplicate ballot task, entry already persisted",
			zap.String("task_id", task.TaskID),
			zap.Uint64("station_id", task.StationID),
		)
	}

	// Recompute even for duplicates: a redelivery can mean the previous
	// delivery persisted the row but failed before or during aggregation,
	// and a full rebuild of unchanged entries is harmless
	if err := p.engine.Recompute(ctx, task.StationID); err != nil {
		// The entry row is persisted, but the station tally is stale until a
		// rebuild runs. On the last allowed delivery the queue stops
		// redelivering, so park the task instead of dropping the obligation.
		if p.config.MaxDeliver > 0 && deliveries >= uint64(p.config.MaxDeliver) {
			p.deadLetter(ctx, msg, &task, fmt.Sprintf("aggregation failed: %v", err), deliveries, true)
			return
		}

		logger.Error(err,
			zap.String("message", "Failed to recompute station results, requeueing"),
			zap.Uint64("station_id", task.StationID),
		)
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ACK message"))
	}
}

// persistWithRetry persists the ballot entry, retrying transient failures
// with exponential backoff. Permanent failures abort immediately.
func (p *processor) persistWithRetry(ctx context.Context, task *domain.BallotTask) (bool, error) {
	var metadata datatypes.JSON
	if task.Payload.Metadata != nil {
		data, err := p.json.Marshal(task.Payload.Metadata)
		if err != nil {
			return false, backoff.Permanent(fmt.Errorf("failed to marshal metadata: %w", err))
		}
		metadata = datatypes.JSON(data)
	}

	input := store.CreateBallotEntryInput{
		DedupKey:           task.DedupKey(),
		StationID:          task.StationID,
		BallotType:         task.Payload.BallotType,
		ListID:             task.Payload.ListID,
		CandidateID:        task.Payload.CandidateID,
		CancellationReason: task.Payload.CancellationReason,
		Metadata:           metadata,
		EnteredByID:        task.UserID,
		SubmitterIP:        task.SubmitterIP,
		EnteredAt:          task.ReceivedAt,
	}

	var created bool
	operation := func() error {
		var err error
		created, err = p.store.CreateBallotEntry(ctx, input)
		if err != nil {
			if domain.IsPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.PersistRetryInterval
	policy := backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(p.config.MaxPersistAttempts-1)), //nolint:gosec
		ctx,
	)

	notify := func(err error, next time.Duration) {
		logger.Warn("Retrying ballot entry persist",
			zap.String("task_id", task.TaskID),
			zap.Duration("next_attempt_in", next),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return false, permanent.Err
		}
		return false, err
	}

	return created, nil
}

// deadLetter parks the task for manual inspection. When term is set the
// message is removed from the queue; a failed park keeps the delivery alive
// via NAK so the task is never lost.
func (p *processor) deadLetter(ctx context.Context, msg adapter.Message, task *domain.BallotTask, reason string, deliveries uint64, term bool) {
	raw := datatypes.JSON(msg.Data())

	taskID := task.TaskID
	if taskID == "" {
		// Unparseable payloads have no task id; key on content so resubmits
		// of the same broken message do not pile up
		taskID = fmt.Sprintf("unparsed-%x", sha256.Sum256(msg.Data()))
	}

	err := p.store.CreateDeadLetterTask(ctx, &schema.DeadLetterTask{
		TaskID:    taskID,
		StationID: task.StationID,
		Task:      raw,
		Reason:    reason,
		Attempts:  deliveries,
	})
	if err != nil {
		logger.Error(err,
			zap.String("message", "Failed to park dead letter task, requeueing"),
			zap.String("task_id", taskID),
		)
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	logger.Warn("Ballot task moved to dead letter",
		zap.String("task_id", taskID),
		zap.Uint64("station_id", task.StationID),
		zap.String("reason", reason),
		zap.Uint64("attempts", deliveries),
	)

	if !term {
		return
	}
	if err := msg.Term(); err != nil {
		logger.Error(err, zap.String("message", "Failed to terminate message"))
	}
}

// Close stops the worker pool and closes the NATS connection
func (p *processor) Close() {
	p.pool.StopAndWait()

	if p.nc != nil {
		p.nc.Close()
	}
}
