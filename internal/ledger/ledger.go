package ledger

import (
	"PayStream/internal/transaction"
)

// Ledger records the money transactions owned by a single account,
// keyed by transaction id. Only deposits and withdrawals are stored;
// dispute, resolve and chargeback mutate the stored entry's state
// rather than adding entries. A Ledger is owned exclusively by one
// account and does no locking of its own.
type Ledger struct {
	transactions map[uint32]transaction.Transaction
}

func New() *Ledger {
	return &Ledger{
		transactions: make(map[uint32]transaction.Transaction),
	}
}

// Add inserts an entry unconditionally. The caller pre-checks
// uniqueness of the transaction id.
func (l *Ledger) Add(txID uint32, tx transaction.Transaction) {
	l.transactions[txID] = tx
}

func (l *Ledger) Get(txID uint32) (transaction.Transaction, bool) {
	tx, ok := l.transactions[txID]
	return tx, ok
}

// Money returns the stored money payload for txID, or nil when the id
// is unknown or the entry is not a money transaction. The returned
// pointer aliases the stored entry, so state transitions applied to it
// are visible on subsequent lookups.
func (l *Ledger) Money(txID uint32) *transaction.MoneyTransaction {
	switch v := l.transactions[txID].(type) {
	case *transaction.Deposit:
		return &v.MoneyTransaction
	case *transaction.Withdrawal:
		return &v.MoneyTransaction
	default:
		return nil
	}
}

// IsDisputed reports whether txID refers to a money transaction that is
// currently under dispute. Unknown ids report false.
func (l *Ledger) IsDisputed(txID uint32) bool {
	if m := l.Money(txID); m != nil {
		return m.IsDisputed()
	}
	return false
}

// IsChargedback reports whether txID refers to a money transaction that
// has been charged back. Unknown ids report false.
func (l *Ledger) IsChargedback(txID uint32) bool {
	if m := l.Money(txID); m != nil {
		return m.IsChargedback()
	}
	return false
}

func (l *Ledger) Len() int {
	return len(l.transactions)
}

// Clone returns a deep copy. Snapshot copies escape the account store's
// lock, so they must not alias live entries.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{transactions: make(map[uint32]transaction.Transaction, len(l.transactions))}
	for id, tx := range l.transactions {
		switch v := tx.(type) {
		case *transaction.Deposit:
			cp := *v
			c.transactions[id] = &cp
		case *transaction.Withdrawal:
			cp := *v
			c.transactions[id] = &cp
		default:
			c.transactions[id] = tx
		}
	}
	return c
}
