package service

import (
	"context"
	"encoding/json"

	"asset-management-be/internal/pkg/logger"
	"asset-management-be/pkg/events"
	"asset-management-be/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventRelay forwards a domain event to an external broker.
type EventRelay interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	relay      EventRelay
	logger     logger.ILogger
}

// NewConsumerService drains the in-process event topic. relay may be nil, in
// which case events are only logged.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	relay EventRelay,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		relay:      relay,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("EVENTS", "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		metrics.DomainEventsTotal.WithLabelValues("unknown", "invalid").Inc()
		msg.Ack() // poison message, never retry
		return
	}

	cs.logger.Info("EVENTS", "Domain event", map[string]interface{}{
		"type": event.Type,
		"data": event.Data,
	})

	if cs.relay == nil {
		metrics.DomainEventsTotal.WithLabelValues(event.Type, "local").Inc()
		msg.Ack()
		return
	}

	if err := cs.relay.Publish(ctx, event); err != nil {
		// The broker is optional; a lost relay must not block the topic.
		cs.logger.Warn("EVENTS", "Failed to relay event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
		metrics.DomainEventsTotal.WithLabelValues(event.Type, "failed").Inc()
		msg.Ack()
		return
	}

	metrics.DomainEventsTotal.WithLabelValues(event.Type, "relayed").Inc()
	msg.Ack()
}
