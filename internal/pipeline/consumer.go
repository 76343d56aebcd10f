package pipeline

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"PayStream/internal/account"
	"PayStream/internal/observability"
	"PayStream/internal/transaction"
)

// Consumer drains the transaction channel in order and applies each
// element to the account store. It runs until the channel is closed;
// it never observes the cancellation signal itself. A rejected
// transaction is reported and the stream continues.
type Consumer struct {
	store   *account.Manager
	log     zerolog.Logger
	metrics *observability.Metrics
}

func NewConsumer(store *account.Manager, log zerolog.Logger, metrics *observability.Metrics) *Consumer {
	return &Consumer{
		store:   store,
		log:     log.With().Str("component", "consumer").Logger(),
		metrics: metrics,
	}
}

func (c *Consumer) Run(in <-chan transaction.Transaction) {
	for tx := range in {
		if c.metrics != nil {
			c.metrics.ChannelSize.Set(float64(len(in)))
		}

		start := time.Now()
		err := c.store.Process(tx)
		if c.metrics != nil {
			c.metrics.ProcessDuration.Observe(time.Since(start).Seconds())
		}

		if err != nil {
			c.log.Error().
				Err(err).
				Uint16("client", tx.ClientID()).
				Uint32("tx", tx.TxID()).
				Stringer("kind", tx.Kind()).
				Msg("transaction rejected")
			if c.metrics != nil {
				c.metrics.TxRejected.WithLabelValues(tx.Kind().String(), rejectReason(err)).Inc()
			}
			continue
		}

		c.log.Debug().
			Uint16("client", tx.ClientID()).
			Uint32("tx", tx.TxID()).
			Stringer("kind", tx.Kind()).
			Msg("transaction applied")

		if c.metrics != nil {
			c.metrics.TxApplied.WithLabelValues(tx.Kind().String()).Inc()
			c.metrics.AccountsActive.Set(float64(c.store.Len()))
			if tx.Kind() == transaction.KindChargeback {
				c.metrics.AccountsLocked.Set(float64(c.store.LockedCount()))
			}
		}
	}
}

// rejectReason maps the error taxonomy onto stable metric label values.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, account.ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, account.ErrDuplicateTransactionID):
		return "duplicate_tx_id"
	case errors.Is(err, account.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, account.ErrTransactionNotFound):
		return "tx_not_found"
	case errors.Is(err, transaction.ErrAlreadyDisputed):
		return "already_disputed"
	case errors.Is(err, transaction.ErrAlreadyChargedback):
		return "already_chargedback"
	case errors.Is(err, transaction.ErrNotDisputed):
		return "not_disputed"
	default:
		return "other"
	}
}
