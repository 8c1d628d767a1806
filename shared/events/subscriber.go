package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Handler func(ctx context.Context, event Event) error

// StreamReader is the subset of a redis client a Subscriber needs.
type StreamReader interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XGroupDestroy(ctx context.Context, stream, group string) *redis.IntCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

// Subscriber delivers every event on one stream to this instance. Each
// instance reads through its own consumer group, so all instances see
// all events.
type Subscriber struct {
	client  StreamReader
	stream  string
	group   string
	handler Handler
	batch   int64
	block   time.Duration
	// Drop the group on stop; instance groups are not reused.
	ephemeral bool
}

type SubscriberConfig struct {
	Stream    string
	Group     string
	Handler   Handler
	BatchSize int64
	Block     time.Duration
	Ephemeral bool
}

func NewSubscriber(client StreamReader, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.Block == 0 {
		config.Block = 5 * time.Second
	}
	return &Subscriber{
		client:    client,
		stream:    config.Stream,
		group:     config.Group,
		handler:   config.Handler,
		batch:     config.BatchSize,
		block:     config.Block,
		ephemeral: config.Ephemeral,
	}
}

// Start blocks until ctx is cancelled. A new group starts at "$": an instance
// only cares about events published after it came up.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	log.Printf("Subscribed to %s as %s", s.stream, s.group)

	defer s.stop()
	for ctx.Err() == nil {
		if err := s.poll(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Error reading %s: %v", s.stream, err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
	return ctx.Err()
}

func (s *Subscriber) stop() {
	log.Printf("Unsubscribed from %s", s.stream)
	if !s.ephemeral {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.XGroupDestroy(ctx, s.stream, s.group).Err(); err != nil {
		log.Printf("Failed to drop consumer group %s: %v", s.group, err)
	}
}

// poll reads one batch. Entries that cannot be decoded are acked and
// dropped; entries whose handler fails stay pending.
func (s *Subscriber) poll(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.group,
		Streams:  []string{s.stream, ">"},
		Count:    s.batch,
		Block:    s.block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.dispatch(ctx, message); err != nil {
				log.Printf("Failed to handle %s on %s: %v", message.ID, s.stream, err)
				continue
			}
			if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
				log.Printf("Failed to ack %s: %v", message.ID, err)
			}
		}
	}
	return nil
}

func (s *Subscriber) dispatch(ctx context.Context, message redis.XMessage) error {
	event, err := DecodeMessage(message.Values)
	if err != nil {
		log.Printf("Dropping malformed entry %s: %v", message.ID, err)
		return nil
	}
	return s.handler(ctx, event)
}

// DecodeMessage extracts the Event stored under the "event" field of a stream entry.
func DecodeMessage(values map[string]any) (Event, error) {
	var event Event
	raw, ok := values["event"].(string)
	if !ok {
		return event, errors.New("entry has no event field")
	}
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return event, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}
