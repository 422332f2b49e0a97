package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TopicBookingEvents = "lenscal.booking-events"

	BookingConfirmed = "booking.confirmed"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

// BookingEvent is the payload published after a booking transaction commits.
type BookingEvent struct {
	Type           string    `json:"type"`
	BookingID      uuid.UUID `json:"booking_id"`
	ClientID       uuid.UUID `json:"client_id"`
	PhotographerID uuid.UUID `json:"photographer_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher writes booking events to kafka. Publication is fire-and-forget:
// it runs only after the triggering transaction has committed and its
// failure is logged, never surfaced to the caller.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewPublisher(brokers []string, log *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicBookingEvents,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		log: log.Named("events"),
	}
}

func (p *Publisher) PublishBookingEvent(ctx context.Context, evt BookingEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		p.log.Error("marshal booking event", zap.Error(err), zap.String("type", evt.Type))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Keyed by photographer so a consumer sees one photographer's events in
	// order.
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.PhotographerID.String()),
		Value: payload,
	})
	if err != nil {
		p.log.Error("publish booking event",
			zap.Error(err),
			zap.String("type", evt.Type),
			zap.String("booking_id", evt.BookingID.String()),
		)
		return
	}

	p.log.Debug("booking event published",
		zap.String("type", evt.Type),
		zap.String("booking_id", evt.BookingID.String()),
	)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
