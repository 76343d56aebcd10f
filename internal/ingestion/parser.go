package ingestion

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"PayStream/internal/transaction"
)

// Record is the wire form of a single transaction, shared by the CSV
// and NATS sources. Amount is absent for dispute-lifecycle records.
type Record struct {
	Type   string           `json:"type"`
	Client uint16           `json:"client"`
	Tx     uint32           `json:"tx"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// DecodeError marks a malformed input record. Decode failures are fatal
// to the producing source; already-processed transactions stay valid.
type DecodeError struct {
	Line   int // 1-based input line, 0 when unknown (e.g. NATS)
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("decode line %d: %s", e.Line, msg)
	}
	return fmt.Sprintf("decode record: %s", msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Transaction converts the record into its typed transaction. Unknown
// kind labels, missing amounts and non-positive amounts fail the decode.
func (r Record) Transaction() (transaction.Transaction, error) {
	ref := transaction.ClientTransaction{Client: r.Client, Tx: r.Tx}

	switch strings.TrimSpace(r.Type) {
	case "deposit":
		money, err := r.money()
		if err != nil {
			return nil, err
		}
		return &transaction.Deposit{MoneyTransaction: money}, nil
	case "withdrawal":
		money, err := r.money()
		if err != nil {
			return nil, err
		}
		return &transaction.Withdrawal{MoneyTransaction: money}, nil
	case "dispute":
		return &transaction.Dispute{Ref: ref}, nil
	case "resolve":
		return &transaction.Resolve{Ref: ref}, nil
	case "chargeback":
		return &transaction.Chargeback{Ref: ref}, nil
	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown transaction type %q", strings.TrimSpace(r.Type))}
	}
}

func (r Record) money() (transaction.MoneyTransaction, error) {
	if r.Amount == nil {
		return transaction.MoneyTransaction{}, &DecodeError{
			Reason: fmt.Sprintf("%s requires an amount", strings.TrimSpace(r.Type)),
		}
	}
	money, err := transaction.NewMoneyTransaction(r.Client, r.Tx, *r.Amount)
	if err != nil {
		return transaction.MoneyTransaction{}, &DecodeError{Reason: "invalid amount", Err: err}
	}
	return money, nil
}
