package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"PayStream/internal/transaction"
)

// NATSSource consumes JSON transaction records from a JetStream subject
// and feeds them onto the same pipeline channel the CSV source uses.
// Messages are acked after a successful channel hand-off, so channel
// backpressure propagates to the broker. Malformed messages are acked
// and skipped: redelivering them could never succeed.
type NATSSource struct {
	js       jetstream.JetStream
	stream   string
	subject  string
	consumer string
	log      zerolog.Logger
}

func NewNATSSource(js jetstream.JetStream, stream, subject, consumer string, log zerolog.Logger) *NATSSource {
	return &NATSSource{
		js:       js,
		stream:   stream,
		subject:  subject,
		consumer: consumer,
		log:      log.With().Str("source", "nats").Str("subject", subject).Logger(),
	}
}

// Run consumes until ctx is cancelled. Unlike the CSV source there is
// no EOF: cancellation is the only clean termination.
func (s *NATSSource) Run(ctx context.Context, out chan<- transaction.Transaction) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, s.stream, jetstream.ConsumerConfig{
		Durable:       s.consumer,
		FilterSubject: s.subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", s.consumer, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		msgID := uuid.New()

		var rec Record
		if err := json.Unmarshal(msg.Data(), &rec); err != nil {
			s.log.Warn().Err(err).Stringer("msg_id", msgID).Msg("unmarshal record failed")
			msg.Ack()
			return
		}
		tx, err := rec.Transaction()
		if err != nil {
			s.log.Warn().Err(err).Stringer("msg_id", msgID).Msg("decode record failed")
			msg.Ack()
			return
		}

		select {
		case out <- tx:
			msg.Ack()
		case <-ctx.Done():
			msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("consume %s: %w", s.subject, err)
	}

	s.log.Info().Str("stream", s.stream).Msg("consuming transactions")
	<-ctx.Done()
	s.log.Info().Msg("ingestion stopping")

	// Stop alone does not wait for an in-flight handler, and the
	// pipeline closes the channel as soon as Run returns. Join the
	// handler so a parked send can never outlive this call.
	cc.Stop()
	<-cc.Closed()
	return nil
}
