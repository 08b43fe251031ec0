// Package audit persists the order event stream into a Mongo collection,
// giving admins a queryable trail of every order mutation.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"

	kafkax "github.com/ariefcatur/go-laptop-shop/internal/kafka"
	"github.com/ariefcatur/go-laptop-shop/internal/orders"
	"github.com/ariefcatur/go-laptop-shop/internal/redisx"
)

type Record struct {
	EventID    string    `bson:"_id"`
	EventType  string    `bson:"event_type"`
	Topic      string    `bson:"topic"`
	OrderID    string    `bson:"order_id"`
	Producer   string    `bson:"producer"`
	OccurredAt time.Time `bson:"occurred_at"`
	Payload    string    `bson:"payload"` // raw event JSON
}

type Service struct {
	Col         *mongo.Collection
	Redis       *redis.Client
	ServiceName string
}

func NewService(db *mongo.Database, rdb *redis.Client, name string) *Service {
	return &Service{Col: db.Collection("order_events"), Redis: rdb, ServiceName: name}
}

// HandleEvent is wired as the consumer handler for every order topic.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		// Poison message; log and commit so it does not loop forever.
		slog.Error("audit: bad envelope", "topic", m.Topic, "err", err)
		return nil
	}

	// Dedup by event_id across restarts and rebalances.
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}

	if env.EventType == orders.EventOrderStatusChanged {
		if p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload); err == nil {
			slog.Info("order status changed", "order_id", p.OrderID, "from", p.From, "to", p.To)
		}
	}

	rec := Record{
		EventID:    env.EventID,
		EventType:  env.EventType,
		Topic:      m.Topic,
		OrderID:    env.CorrelationID,
		Producer:   env.Producer,
		OccurredAt: env.OccurredAt,
		Payload:    string(env.Payload),
	}
	if _, err := s.Col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil // already stored, commit
		}
		return err
	}

	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return nil
}
