package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"PayStream/internal/ledger"
	"PayStream/internal/transaction"
)

// Account holds one client's balances and the ledger of money
// transactions applied to them. Outside an in-flight chargeback,
// Total == Available + Held always holds.
//
// Account does no locking of its own; the Manager serializes access.
type Account struct {
	Client    uint16
	Ledger    *ledger.Ledger
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

func New(client uint16) *Account {
	return &Account{
		Client: client,
		Ledger: ledger.New(),
	}
}

// Process applies a single transaction to the account. Every failure is
// local to this transaction and leaves balances and ledger state
// untouched; the dispute-state transition and its balance effect are
// applied together, never one without the other.
//
// A chargeback is attempted even on a locked account: several disputed
// transactions may still need individual chargeback processing after
// the account was first locked.
func (a *Account) Process(tx transaction.Transaction) error {
	if a.Locked && tx.Kind() != transaction.KindChargeback {
		return fmt.Errorf("%w: client %d", ErrAccountLocked, a.Client)
	}

	switch v := tx.(type) {
	case *transaction.Deposit:
		return a.deposit(v)
	case *transaction.Withdrawal:
		return a.withdraw(v)
	case *transaction.Dispute:
		return a.dispute(v.Ref.Tx)
	case *transaction.Resolve:
		return a.resolve(v.Ref.Tx)
	case *transaction.Chargeback:
		return a.chargeback(v.Ref.Tx)
	default:
		return fmt.Errorf("unhandled transaction kind %q", tx.Kind())
	}
}

func (a *Account) deposit(d *transaction.Deposit) error {
	if _, ok := a.Ledger.Get(d.ID.Tx); ok {
		return fmt.Errorf("%w: tx %d", ErrDuplicateTransactionID, d.ID.Tx)
	}
	// Locked accounts never receive the credit.
	if !a.Locked {
		a.Available = a.Available.Add(d.Amount)
		a.Total = a.Total.Add(d.Amount)
	}
	a.Ledger.Add(d.ID.Tx, d)
	return nil
}

func (a *Account) withdraw(w *transaction.Withdrawal) error {
	if _, ok := a.Ledger.Get(w.ID.Tx); ok {
		return fmt.Errorf("%w: tx %d", ErrDuplicateTransactionID, w.ID.Tx)
	}
	if a.Available.Cmp(w.Amount) < 0 {
		return fmt.Errorf("%w: available %s, requested %s", ErrInsufficientFunds, a.Available, w.Amount)
	}
	a.Available = a.Available.Sub(w.Amount)
	a.Total = a.Total.Sub(w.Amount)
	a.Ledger.Add(w.ID.Tx, w)
	return nil
}

func (a *Account) dispute(txID uint32) error {
	if a.Ledger.IsDisputed(txID) {
		return fmt.Errorf("%w: tx %d", transaction.ErrAlreadyDisputed, txID)
	}
	if a.Ledger.IsChargedback(txID) {
		return fmt.Errorf("%w: tx %d", transaction.ErrAlreadyChargedback, txID)
	}
	money := a.Ledger.Money(txID)
	if money == nil {
		return fmt.Errorf("%w: tx %d", ErrTransactionNotFound, txID)
	}
	if err := money.MarkDisputed(); err != nil {
		return fmt.Errorf("dispute tx %d: %w", txID, err)
	}
	// Balance moves are a no-op on a locked account; the dispute state
	// still transitions so a later chargeback can settle it.
	if !a.Locked {
		a.Available = a.Available.Sub(money.Amount)
		a.Held = a.Held.Add(money.Amount)
	}
	return nil
}

func (a *Account) resolve(txID uint32) error {
	if !a.Ledger.IsDisputed(txID) {
		return fmt.Errorf("%w: tx %d", transaction.ErrNotDisputed, txID)
	}
	money := a.Ledger.Money(txID)
	if money == nil {
		return fmt.Errorf("%w: tx %d", ErrTransactionNotFound, txID)
	}
	if err := money.ResolveDispute(); err != nil {
		return fmt.Errorf("resolve tx %d: %w", txID, err)
	}
	if !a.Locked {
		a.Held = a.Held.Sub(money.Amount)
		a.Available = a.Available.Add(money.Amount)
	}
	return nil
}

func (a *Account) chargeback(txID uint32) error {
	if !a.Ledger.IsDisputed(txID) {
		return fmt.Errorf("%w: tx %d", transaction.ErrNotDisputed, txID)
	}
	money := a.Ledger.Money(txID)
	if money == nil {
		return fmt.Errorf("%w: tx %d", ErrTransactionNotFound, txID)
	}
	if err := money.MarkChargedback(); err != nil {
		return fmt.Errorf("chargeback tx %d: %w", txID, err)
	}
	// Not gated on Locked: chargeback is the one operation that keeps
	// mutating balances after the account locks.
	a.Held = a.Held.Sub(money.Amount)
	a.Total = a.Total.Sub(money.Amount)
	a.Locked = true
	return nil
}

// Clone returns a deep copy safe to use outside the store's lock.
func (a *Account) Clone() *Account {
	c := *a
	c.Ledger = a.Ledger.Clone()
	return &c
}
