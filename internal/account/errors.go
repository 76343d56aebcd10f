package account

import "errors"

var (
	// ErrAccountLocked rejects every non-chargeback transaction once an
	// account has been locked by a chargeback.
	ErrAccountLocked = errors.New("account is locked")

	// ErrDuplicateTransactionID rejects a money transaction whose id is
	// already present in the account's ledger.
	ErrDuplicateTransactionID = errors.New("transaction id already exists")

	// ErrInsufficientFunds rejects a withdrawal exceeding the available
	// balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransactionNotFound rejects a dispute-lifecycle transaction
	// referencing an unknown transaction id.
	ErrTransactionNotFound = errors.New("transaction not found")
)
