// Package events publishes post lifecycle events to a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	infraevents "github.com/yujin9907/cloud-naitive/infrastructure/events"
	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
)

const asyncPublishTimeout = 5 * time.Second

// Publisher writes events with XADD. A nil *Publisher is a valid no-op,
// which is what handlers get when events are disabled.
type Publisher struct {
	client *redis.Client
	stream string
	log    infralogger.Logger
	wg     sync.WaitGroup
}

// NewPublisher returns nil if client is nil.
func NewPublisher(client *redis.Client, stream string, log infralogger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if stream == "" {
		stream = infraevents.DefaultStreamName
	}
	return &Publisher{
		client: client,
		stream: stream,
		log:    log,
	}
}

// Publish sends event to the stream and returns the entry id.
func (p *Publisher) Publish(ctx context.Context, event infraevents.PostEvent) (string, error) {
	if p == nil || p.client == nil {
		return "", nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	entryID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			infraevents.PayloadField: string(payload),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("publish to stream %s: %w", p.stream, err)
	}

	p.log.Debug("Published post event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.Int64("post_id", event.PostID),
		infralogger.String("stream_id", entryID),
	)

	return entryID, nil
}

// PublishAsync publishes in the background. Failures are logged only.
func (p *Publisher) PublishAsync(event infraevents.PostEvent) {
	if p == nil {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if _, err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				infralogger.String("event_type", string(event.EventType)),
				infralogger.Int64("post_id", event.PostID),
				infralogger.Error(err),
			)
		}
	}()
}

// Wait blocks until in-flight async publishes finish.
func (p *Publisher) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}
