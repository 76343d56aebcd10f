package transaction

import "errors"

var (
	// ErrInvalidAmount rejects non-positive amounts at construction.
	ErrInvalidAmount = errors.New("transaction amount must be positive")

	// ErrAlreadyDisputed rejects a dispute on a transaction that is
	// already under dispute.
	ErrAlreadyDisputed = errors.New("transaction is already under dispute")

	// ErrAlreadyChargedback rejects any dispute-lifecycle change on a
	// chargedback transaction; that state is terminal.
	ErrAlreadyChargedback = errors.New("transaction has been charged back")

	// ErrNotDisputed rejects resolve/chargeback on a transaction that is
	// not currently under dispute.
	ErrNotDisputed = errors.New("transaction is not under dispute")
)
