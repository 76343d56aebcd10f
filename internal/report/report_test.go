package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"PayStream/internal/account"
	"PayStream/internal/report"
	"PayStream/internal/testutil"
	"PayStream/internal/transaction"
)

func process(t *testing.T, m *account.Manager, txs ...transaction.Transaction) {
	t.Helper()
	for _, tx := range txs {
		if err := m.Process(tx); err != nil {
			t.Fatalf("process %s (%d, %d): %v", tx.Kind(), tx.ClientID(), tx.TxID(), err)
		}
	}
}

func deposit(t *testing.T, client uint16, tx uint32, amount string) *transaction.Deposit {
	t.Helper()
	m, err := transaction.NewMoneyTransaction(client, tx, decimal.RequireFromString(amount))
	if err != nil {
		t.Fatal(err)
	}
	return &transaction.Deposit{MoneyTransaction: m}
}

func TestWrite_EmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Write(&buf, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "client,available,held,total,locked\n" {
		t.Errorf("got %q, want header only", got)
	}
}

func TestWrite_AscendingClientOrder(t *testing.T) {
	m := account.NewManager()
	process(t, m,
		deposit(t, 7, 1, "5.00"),
		deposit(t, 2, 2, "10.00"),
		deposit(t, 300, 3, "1.25"),
	)

	var buf bytes.Buffer
	if err := report.Write(&buf, m.Snapshot()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"client,available,held,total,locked",
		"2,10.0,0.0,10.0,false",
		"7,5.0,0.0,5.0,false",
		"300,1.25,0.0,1.25,false",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrite_AtLeastOneFractionalDigit(t *testing.T) {
	m := account.NewManager()
	process(t, m, deposit(t, 1, 1, "100"))

	var buf bytes.Buffer
	if err := report.Write(&buf, m.Snapshot()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "1,100.0,0.0,100.0,false") {
		t.Errorf("integer balances must render with a fractional digit:\n%s", buf.String())
	}
}

func TestWrite_Golden(t *testing.T) {
	m := account.NewManager()
	process(t, m,
		deposit(t, 1, 1, "100.00"),
		deposit(t, 1, 2, "50.50"),
		deposit(t, 2, 3, "75.00"),
		&transaction.Dispute{Ref: transaction.ClientTransaction{Client: 2, Tx: 3}},
		&transaction.Chargeback{Ref: transaction.ClientTransaction{Client: 2, Tx: 3}},
	)

	var buf bytes.Buffer
	if err := report.Write(&buf, m.Snapshot()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	testutil.AssertGolden(t, "report.golden", buf.Bytes())
}
