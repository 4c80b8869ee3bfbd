package service

import (
	"context"
	"encoding/json"
	"fmt"

	"listening-notes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const eventTypeMetadataKey = "event_type"

type publisherService struct {
	topicName string
	publisher message.Publisher
}

// NewPublisherService publishes events onto an in-process watermill topic.
func NewPublisherService(topicName string, publisher message.Publisher) events.Publisher {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(events.ToEnvelope(event))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(eventTypeMetadataKey, event.EventType())
	msg.SetContext(ctx)

	return p.publisher.Publish(p.topicName, msg)
}
