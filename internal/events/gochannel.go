package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// channelPublisher is the in-process publisher used when no Kafka
// brokers are configured (local development, single-node deployments).
type channelPublisher struct {
	pubsub *gochannel.GoChannel
	topic  string
}

func NewChannelPublisher(topic string, logger watermill.LoggerAdapter) Publisher {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, logger)
	return &channelPublisher{pubsub: pubsub, topic: topic}
}

func (p *channelPublisher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = watermill.NewUUID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Name, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_name", event.Name)
	msg.SetContext(ctx)

	return p.pubsub.Publish(p.topic, msg)
}

func (p *channelPublisher) Close() error {
	return p.pubsub.Close()
}
