package event

//go:generate mockgen -destination=../mocks/mock_publisher.go -package=mocks github.com/AnthoniusHendriyanto/social-core/internal/event Publisher

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
)

const payloadField = "payload"

type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Handler processes one delivery. Returning an error wrapping
// errors.ErrInvalidPayload sends the delivery to the dead-letter stream;
// any other error is logged. The delivery is acknowledged either way.
type Handler func(ctx context.Context, payload []byte) error

// StreamBus is a Redis Streams publisher/subscriber. Each topic is a stream;
// each subscriber joins a consumer group, so independent consumers of the
// same topic each see every message at least once.
type StreamBus struct {
	client    *goredis.Client
	blockTime time.Duration
}

func NewStreamBus(client *goredis.Client) *StreamBus {
	return &StreamBus{client: client, blockTime: 5 * time.Second}
}

func (b *StreamBus) Publish(ctx context.Context, topic string, payload []byte) error {
	return b.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{payloadField: string(payload)},
	}).Err()
}

// Subscribe reads the topic as the named consumer group until ctx is
// cancelled. The group is created from the beginning of the stream if it
// does not exist yet.
func (b *StreamBus) Subscribe(ctx context.Context, topic, group, consumer string, handler Handler) error {
	err := b.client.XGroupCreateMkStream(ctx, topic, group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}

	go b.consumeLoop(ctx, topic, group, consumer, handler)

	return nil
}

func (b *StreamBus) consumeLoop(ctx context.Context, topic, group, consumer string, handler Handler) {
	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := b.client.XReadGroup(ctx, &goredis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{topic, ">"},
			Count:    10,
			Block:    b.blockTime,
		}).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Printf("warn: reading %s as %s: %v", topic, group, err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				b.dispatch(ctx, topic, group, msg, handler)
			}
		}
	}
}

func (b *StreamBus) dispatch(ctx context.Context, topic, group string, msg goredis.XMessage, handler Handler) {
	payload, _ := msg.Values[payloadField].(string)

	if err := handler(ctx, []byte(payload)); err != nil {
		if errors.Is(err, apperr.ErrInvalidPayload) {
			b.deadLetter(ctx, topic, group, msg.ID, payload, err)
		} else {
			// Best-effort processing: the failure is absorbed, not redelivered.
			log.Printf("warn: handling %s delivery %s: %v", topic, msg.ID, err)
		}
	}

	if err := b.client.XAck(ctx, topic, group, msg.ID).Err(); err != nil {
		log.Printf("warn: acking %s delivery %s: %v", topic, msg.ID, err)
	}
}

func (b *StreamBus) deadLetter(ctx context.Context, topic, group, id, payload string, cause error) {
	record, _ := json.Marshal(map[string]string{
		"topic":   topic,
		"group":   group,
		"id":      id,
		"payload": payload,
		"error":   cause.Error(),
	})

	if err := b.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: DeadLetterStream,
		Values: map[string]interface{}{payloadField: string(record)},
	}).Err(); err != nil {
		log.Printf("warn: dead-lettering %s delivery %s: %v", topic, id, err)
	}
}
