package service

import (
	"context"
	"encoding/json"
	"time"

	"workspace-disputes-be/internal/dto"
	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	EventDisputeCreated   = "DISPUTE_CREATED"
	EventDisputeUpdated   = "DISPUTE_UPDATED"
	EventDisputeAssigned  = "DISPUTE_ASSIGNED"
	EventDisputeEscalated = "DISPUTE_ESCALATED"
	EventDisputeResolved  = "DISPUTE_RESOLVED"
	EventDisputeReopened  = "DISPUTE_REOPENED"
	EventDisputeDeleted   = "DISPUTE_DELETED"
)

// IPublisherService pushes dispute lifecycle events onto the in-process bus.
// Publishing is fire-and-forget from the caller's perspective: the write
// path has already committed when these fire.
type IPublisherService interface {
	PublishDisputeEvent(ctx context.Context, eventType string, dispute *entity.Dispute, actor, details string) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (p *publisherService) PublishDisputeEvent(ctx context.Context, eventType string, dispute *entity.Dispute, actor, details string) error {
	payload := dto.DisputeEventMessage{
		EventType:  eventType,
		DisputeId:  dispute.ID,
		Actor:      actor,
		Status:     string(dispute.Status),
		Priority:   string(dispute.Priority),
		OccurredAt: time.Now(),
		Details:    details,
	}

	msgJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), msgJson)
	if err := p.pubSub.Publish(p.topicName, msg); err != nil {
		p.logger.Error("PublisherService", "Failed to publish dispute event", map[string]interface{}{
			"eventType": eventType,
			"disputeId": dispute.ID,
			"error":     err.Error(),
		})
		return err
	}

	return nil
}
