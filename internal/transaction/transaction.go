package transaction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminator for transaction variants
type Kind int32

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// ClientTransaction identifies a transaction and the client that owns it.
// Dispute, resolve and chargeback reference an existing money transaction
// by this pair.
type ClientTransaction struct {
	Client uint16
	Tx     uint32
}

// State tracks the dispute lifecycle of a money transaction.
// Normal → Disputed → {Normal, Chargedback}; Chargedback is terminal.
type State int32

const (
	StateNormal State = iota
	StateDisputed
	StateChargedback
)

// MoneyTransaction is a deposit or withdrawal amount together with its
// identity and dispute state. Amount is validated once at construction
// and never re-checked.
type MoneyTransaction struct {
	ID        ClientTransaction
	Amount    decimal.Decimal
	Timestamp time.Time
	state     State
}

// NewMoneyTransaction builds a money transaction, rejecting non-positive
// amounts with ErrInvalidAmount.
func NewMoneyTransaction(client uint16, tx uint32, amount decimal.Decimal) (MoneyTransaction, error) {
	if !amount.IsPositive() {
		return MoneyTransaction{}, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	return MoneyTransaction{
		ID:        ClientTransaction{Client: client, Tx: tx},
		Amount:    amount,
		Timestamp: time.Now().UTC(),
		state:     StateNormal,
	}, nil
}

func (m *MoneyTransaction) State() State { return m.state }

func (m *MoneyTransaction) IsDisputed() bool { return m.state == StateDisputed }

func (m *MoneyTransaction) IsChargedback() bool { return m.state == StateChargedback }

// MarkDisputed moves the transaction into the disputed state.
func (m *MoneyTransaction) MarkDisputed() error {
	if m.state == StateDisputed {
		return ErrAlreadyDisputed
	}
	if m.state == StateChargedback {
		return ErrAlreadyChargedback
	}
	m.state = StateDisputed
	return nil
}

// ResolveDispute returns a disputed transaction to the normal state.
func (m *MoneyTransaction) ResolveDispute() error {
	if m.state != StateDisputed {
		return ErrNotDisputed
	}
	m.state = StateNormal
	return nil
}

// MarkChargedback moves a disputed transaction into the terminal
// chargedback state.
func (m *MoneyTransaction) MarkChargedback() error {
	if m.state != StateDisputed {
		return ErrNotDisputed
	}
	m.state = StateChargedback
	return nil
}

// Transaction is the interface all transaction variants implement.
// Every variant exposes its owning client and transaction id without
// the caller unpacking the concrete type.
type Transaction interface {
	ClientID() uint16
	TxID() uint32
	Kind() Kind
}

// Deposit credits funds to an account.
type Deposit struct {
	MoneyTransaction
}

func (d *Deposit) ClientID() uint16 { return d.ID.Client }
func (d *Deposit) TxID() uint32     { return d.ID.Tx }
func (d *Deposit) Kind() Kind       { return KindDeposit }

// Withdrawal debits funds from an account.
type Withdrawal struct {
	MoneyTransaction
}

func (w *Withdrawal) ClientID() uint16 { return w.ID.Client }
func (w *Withdrawal) TxID() uint32     { return w.ID.Tx }
func (w *Withdrawal) Kind() Kind       { return KindWithdrawal }

// Dispute places a hold on a previously recorded money transaction.
type Dispute struct {
	Ref ClientTransaction
}

func (d *Dispute) ClientID() uint16 { return d.Ref.Client }
func (d *Dispute) TxID() uint32     { return d.Ref.Tx }
func (d *Dispute) Kind() Kind       { return KindDispute }

// Resolve releases the hold of an open dispute.
type Resolve struct {
	Ref ClientTransaction
}

func (r *Resolve) ClientID() uint16 { return r.Ref.Client }
func (r *Resolve) TxID() uint32     { return r.Ref.Tx }
func (r *Resolve) Kind() Kind       { return KindResolve }

// Chargeback reverses a disputed transaction and locks the account.
type Chargeback struct {
	Ref ClientTransaction
}

func (c *Chargeback) ClientID() uint16 { return c.Ref.Client }
func (c *Chargeback) TxID() uint32     { return c.Ref.Tx }
func (c *Chargeback) Kind() Kind       { return KindChargeback }
