package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/openelect/ballot-pipeline/internal/adapter"
	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/logger"
	"github.com/openelect/ballot-pipeline/internal/messaging"
)

// SubjectPrefix is the subject space ballot tasks are published under.
// Per-station subjects (ballots.entries.<station_id>) keep one station's
// tasks on one subject, which lets consumers serialize work per station.
const SubjectPrefix = "ballots.entries"

// Config holds the configuration for the NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	json       adapter.JSON
}

// NewPublisher creates a new NATS JetStream publisher for ballot tasks and
// ensures the stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	nc, js, err := Connect(cfg.URL, cfg.ConnectionName, cfg.MaxReconnects, cfg.ReconnectWait, natsJS)
	if err != nil {
		return nil, err
	}

	if err := EnsureStream(ctx, js, cfg.StreamName); err != nil {
		nc.Close()
		return nil, err
	}

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		json:       jsonAdapter,
	}, nil
}

// Connect dials NATS with the shared reconnect/logging options
func Connect(url, name string, maxReconnects int, reconnectWait time.Duration, natsJS adapter.NatsJetStream) (adapter.NatsConn, adapter.JetStream, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(url, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return nc, js, nil
}

// EnsureStream creates or updates the ballot task stream
func EnsureStream(ctx context.Context, js adapter.JetStream, streamName string) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{SubjectPrefix + ".>"},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure stream %s: %w", streamName, err)
	}
	return nil
}

// TaskSubject returns the subject a station's tasks are published on
func TaskSubject(stationID uint64) string {
	return fmt.Sprintf("%s.%d", SubjectPrefix, stationID)
}

// PublishTask publishes one ballot task to the stream
func (p *publisher) PublishTask(ctx context.Context, task *domain.BallotTask) error {
	logger.Debug("Publishing ballot task",
		zap.String("task_id", task.TaskID),
		zap.Uint64("station_id", task.StationID),
	)

	data, err := p.json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	// MsgId lets JetStream drop republished duplicates inside its dedup window
	_, err = p.js.Publish(ctx, TaskSubject(task.StationID), data, jetstream.WithMsgID(task.TaskID))
	if err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}

	return nil
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
