package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"PayStream/internal/transaction"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

// collect drains the source into a slice on the test goroutine.
func collect(t *testing.T, ctx context.Context, src *CSVSource) ([]transaction.Transaction, error) {
	t.Helper()
	ch := make(chan transaction.Transaction, 16)
	errCh := make(chan error, 1)
	go func() {
		defer close(ch)
		errCh <- src.Run(ctx, ch)
	}()

	var got []transaction.Transaction
	for tx := range ch {
		got = append(got, tx)
	}
	return got, <-errCh
}

func TestCSVSource_StreamsInOrder(t *testing.T) {
	path := writeCSV(t, `type, client, tx, amount
deposit, 1, 1, 100.00
withdrawal, 1, 2, 25.00
dispute, 1, 1,
resolve, 1, 1,
`)

	got, err := collect(t, context.Background(), NewCSVSource(path, zerolog.Nop()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d transactions, want 4", len(got))
	}

	wantKinds := []transaction.Kind{
		transaction.KindDeposit,
		transaction.KindWithdrawal,
		transaction.KindDispute,
		transaction.KindResolve,
	}
	for i, kind := range wantKinds {
		if got[i].Kind() != kind {
			t.Errorf("tx[%d].Kind() = %s, want %s", i, got[i].Kind(), kind)
		}
	}
}

func TestCSVSource_EmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	got, err := collect(t, context.Background(), NewCSVSource(path, zerolog.Nop()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d transactions, want 0", len(got))
	}
}

func TestCSVSource_HeaderOnly(t *testing.T) {
	path := writeCSV(t, "type,client,tx,amount\n")

	got, err := collect(t, context.Background(), NewCSVSource(path, zerolog.Nop()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d transactions, want 0", len(got))
	}
}

func TestCSVSource_DecodeErrorIsFatal(t *testing.T) {
	path := writeCSV(t, `type,client,tx,amount
deposit,1,1,100.00
transfer,1,2,50.00
deposit,1,3,10.00
`)

	got, err := collect(t, context.Background(), NewCSVSource(path, zerolog.Nop()))

	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	// the bad record stops the stream, earlier ones were sent
	if len(got) != 1 {
		t.Errorf("got %d transactions before failure, want 1", len(got))
	}
}

func TestCSVSource_MissingAmountIsFatal(t *testing.T) {
	path := writeCSV(t, `type,client,tx,amount
deposit,1,1,
`)

	_, err := collect(t, context.Background(), NewCSVSource(path, zerolog.Nop()))

	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	if derr.Line != 2 {
		t.Errorf("Line = %d, want 2", derr.Line)
	}
}

func TestCSVSource_CancelledBeforeRun(t *testing.T) {
	path := writeCSV(t, `type,client,tx,amount
deposit,1,1,100.00
deposit,1,2,100.00
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := collect(t, ctx, NewCSVSource(path, zerolog.Nop()))
	if err != nil {
		t.Fatalf("cancellation must be clean termination, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d transactions after cancel, want 0", len(got))
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), zerolog.Nop())
	ch := make(chan transaction.Transaction, 1)
	if err := src.Run(context.Background(), ch); err == nil {
		t.Error("missing file should fail")
	}
}
