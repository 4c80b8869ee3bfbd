// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"listening-notes-be/internal/pkg/logger"
	"listening-notes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService writes every note event to the activity log.
type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	activityLog logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	activityLog logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		activityLog: activityLog,
	}
}

// Consume subscribes and returns; messages are handled in the background
// until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// Ack everything, including malformed messages, so nothing is redelivered forever.
	defer msg.Ack()

	var envelope events.Envelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.activityLog.Error("NOTE_ACTIVITY", "failed to decode note event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	details := map[string]interface{}{
		"message_id":  msg.UUID,
		"occurred_at": envelope.OccurredAt,
	}
	for k, v := range envelope.Data {
		details[k] = v
	}
	cs.activityLog.Info("NOTE_ACTIVITY", envelope.Type, details)
}
