package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	AccountCreated     = "account.created"
	PlayerCreated      = "player.created"
	TransactionCreated = "transaction.created"
	BetPlaced          = "bet.placed"
	BetSettled         = "bet.settled"
)

// PublishTimeout caps how long Emit holds a request that has already
// committed its write.
var PublishTimeout = 2 * time.Second

type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	ActorID string    `json:"actorId,omitempty"`
	Key     string    `json:"key"`
	Payload any       `json:"payload"`
}

// New stamps an event; key is the id of the record it is about.
func New(typ, actorID, key string, payload any) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    typ,
		At:      time.Now().UTC(),
		ActorID: actorID,
		Key:     key,
		Payload: payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Kafka writes events as JSON, keyed by record id so one record's history
// stays on one partition.
type Kafka struct {
	Writer *kafka.Writer
}

func NewKafka(brokers, topic string) *Kafka {
	return &Kafka{Writer: &kafka.Writer{
		Addr:                   kafka.TCP(SplitBrokers(brokers)...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           PublishTimeout,
		MaxAttempts:            3,
		AllowAutoTopicCreation: true,
	}}
}

// SplitBrokers parses a comma separated broker list, dropping blanks.
func SplitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func Encode(e Event) (kafka.Message, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(e.Key),
		Value: b,
		Time:  e.At,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, e Event) error {
	msg, err := Encode(e)
	if err != nil {
		return err
	}
	return k.Writer.WriteMessages(ctx, msg)
}

func (k *Kafka) Close() error { return k.Writer.Close() }

// Emit publishes without failing the caller; the write has already been
// committed by the time an event is emitted.
func Emit(ctx context.Context, p Publisher, log *zap.Logger, e Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	defer cancel()
	if err := p.Publish(ctx, e); err != nil {
		log.Warn("event publish failed",
			zap.String("type", e.Type),
			zap.String("key", e.Key),
			zap.Error(err),
		)
	}
}
