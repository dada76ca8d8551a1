package service

import (
	"context"
	"encoding/json"
	"fmt"

	"workspace-disputes-be/internal/dto"
	"workspace-disputes-be/internal/pkg/logger"
	"workspace-disputes-be/pkg/events"
	pktNats "workspace-disputes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process dispute event topic and forwards
// each event to NATS for external consumers. Keeping the NATS hop off the
// request path means a slow broker never delays an API response.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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
	var payload dto.DisputeEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal dispute event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("ConsumerService", fmt.Sprintf("Forwarding event %s", payload.EventType), map[string]interface{}{
		"disputeId": payload.DisputeId,
	})

	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: payload.EventType,
			Data: map[string]interface{}{
				"dispute_id": payload.DisputeId,
				"actor":      payload.Actor,
				"status":     payload.Status,
				"priority":   payload.Priority,
				"details":    payload.Details,
			},
			OccurredAt: payload.OccurredAt,
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to forward event to NATS", map[string]interface{}{
				"eventType": payload.EventType,
				"error":     err.Error(),
			})
			msg.Nack() // Nack for retriable broker errors
			return
		}
	}

	msg.Ack()
}
