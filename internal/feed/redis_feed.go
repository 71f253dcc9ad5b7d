package feed

import (
	"context"

	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type RedisFeed struct {
	client *redis.Client
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

// PublishChange veröffentlicht nur Datensätze mit bekanntem Status. Datensätze
// anderer Subsysteme (Status außerhalb von pending/assigned/completed/cancelled)
// gehören nicht in diesen Feed.
func (f *RedisFeed) PublishChange(ctx context.Context, event entity.ChangeEvent) error {
	record := event.Record()
	if record == nil || !isFeedStatus(record.Status) {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return f.client.Publish(ctx, Channel, payload).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan entity.ChangeEvent, func()) {
	pubsub := f.client.Subscribe(ctx, Channel)
	events := make(chan entity.ChangeEvent, 16)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event entity.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error().Err(err).Msg("Feed: Verwerfe nicht dekodierbare Nachricht")
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	teardown := func() {
		if err := pubsub.Close(); err != nil {
			log.Error().Err(err).Msg("Feed: Fehler beim Schließen der Subscription")
		}
	}

	return events, teardown
}

func isFeedStatus(status entity.AssignmentStatus) bool {
	switch status {
	case entity.AssignmentPending, entity.AssignmentAssigned, entity.AssignmentCompleted, entity.AssignmentCancelled:
		return true
	default:
		return false
	}
}
