package pipeline

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"PayStream/internal/account"
	"PayStream/internal/ingestion"
	"PayStream/internal/observability"
	"PayStream/internal/transaction"
)

// Source produces transactions onto the pipeline channel in input
// order. Implementations must stop cleanly on cancellation and must
// never send after returning.
type Source interface {
	Run(ctx context.Context, out chan<- transaction.Transaction) error
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, out chan<- transaction.Transaction) error

func (f SourceFunc) Run(ctx context.Context, out chan<- transaction.Transaction) error {
	return f(ctx, out)
}

// Pipeline connects one producer to one consumer through a bounded
// channel. The channel bound is the backpressure mechanism: a full
// channel suspends the producer until the consumer drains an element.
type Pipeline struct {
	source   Source
	store    *account.Manager
	chanSize int
	log      zerolog.Logger
	metrics  *observability.Metrics
}

func New(source Source, store *account.Manager, chanSize int, log zerolog.Logger, metrics *observability.Metrics) *Pipeline {
	if chanSize <= 0 {
		chanSize = 100
	}
	return &Pipeline{
		source:   source,
		store:    store,
		chanSize: chanSize,
		log:      log,
		metrics:  metrics,
	}
}

// Run streams the source into the account store and blocks until the
// consumer has drained everything the producer sent. The producer's
// error, if any, is returned once the stream is fully drained;
// cancellation is clean termination, not an error.
func (p *Pipeline) Run(ctx context.Context) error {
	ch := make(chan transaction.Transaction, p.chanSize)
	if p.metrics != nil {
		p.metrics.ChannelCapacity.Set(float64(cap(ch)))
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(ch)
		errCh <- p.source.Run(ctx, ch)
	}()

	NewConsumer(p.store, p.log, p.metrics).Run(ch)

	err := <-errCh
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}

	var derr *ingestion.DecodeError
	if errors.As(err, &derr) && p.metrics != nil {
		p.metrics.DecodeFailures.Inc()
	}
	return err
}
