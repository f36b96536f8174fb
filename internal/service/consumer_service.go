package service

import (
	"context"

	"jaspel-be/internal/constant"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventForwarder relays domain events to an external bus.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
	HandleBrokerEvent(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	guard      *Guard
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService wires the in-process bus to cache invalidation.
// forwarder may be nil when no external broker is configured.
func NewConsumerService(
	subscriber message.Subscriber,
	guard *Guard,
	forwarder EventForwarder,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		guard:      guard,
		forwarder:  forwarder,
		logger:     logger,
	}
}

func consumedTopics() []string {
	return []string{
		constant.TopicJaspelStatusUpdated,
		constant.TopicJaspelOverride,
		constant.TopicJaspelExport,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	for _, topic := range consumedTopics() {
		messages, err := cs.subscriber.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		go func() {
			for msg := range messages {
				cs.processMessage(ctx, msg)
			}
		}()
	}
	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	evt, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error(constant.ModuleEvents, "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	cs.invalidateFor(ctx, evt)

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, evt); err != nil {
			cs.logger.Warn(constant.ModuleEvents, "Failed to forward event to broker", map[string]interface{}{
				"event_id":   evt.EventId(),
				"event_type": evt.EventType(),
				"error":      err.Error(),
			})
		}
	}

	msg.Ack()
}

// HandleBrokerEvent reacts to events other instances or the data entry side
// put on the external bus.
func (cs *consumerService) HandleBrokerEvent(ctx context.Context, event events.Event) error {
	cs.invalidateFor(ctx, event)
	return nil
}

func (cs *consumerService) invalidateFor(ctx context.Context, evt events.Event) {
	switch evt.EventType() {
	case constant.TopicJaspelStatusUpdated, constant.TopicJaspelOverride, constant.TopicJaspelEntriesChanged:
	default:
		return
	}

	removed := cs.guard.InvalidatePrefixes(ctx, AggregatePrefixes()...)
	cs.logger.Info(constant.ModuleEvents, "Cached aggregates invalidated", map[string]interface{}{
		"event_id":   evt.EventId(),
		"event_type": evt.EventType(),
		"removed":    removed,
	})
}
