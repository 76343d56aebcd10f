package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"PayStream/internal/transaction"
)

// CSVSource reads transaction records from a CSV file and emits them,
// in source order, onto the pipeline channel. Cancellation is checked
// as the first action of each iteration and again before each blocking
// send, so a cancelled source never half-sends a transaction.
type CSVSource struct {
	path string
	log  zerolog.Logger
}

func NewCSVSource(path string, log zerolog.Logger) *CSVSource {
	return &CSVSource{
		path: path,
		log:  log.With().Str("source", "csv").Str("path", path).Logger(),
	}
}

// Run streams the file until EOF, decode failure or cancellation.
// Decode and read errors are fatal to the stream; cancellation returns
// nil. The caller owns closing the channel.
func (s *CSVSource) Run(ctx context.Context, out chan<- transaction.Transaction) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return s.stream(ctx, f, out)
}

func (s *CSVSource) stream(ctx context.Context, r io.Reader, out chan<- transaction.Transaction) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // dispute rows may omit the amount column

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil // empty input produces an empty report
	}
	if err != nil {
		return &DecodeError{Line: 1, Reason: "read header", Err: err}
	}
	cols, err := headerIndex(header)
	if err != nil {
		return err
	}

	sent := 0
	for line := 2; ; line++ {
		if ctx.Err() != nil {
			s.log.Info().Int("records_sent", sent).Msg("input stream cancelled")
			return nil
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			s.log.Info().Int("records_sent", sent).Msg("input stream finished")
			return nil
		}
		if err != nil {
			return &DecodeError{Line: line, Reason: "read record", Err: err}
		}

		rec, err := recordFromRow(cols, row, line)
		if err != nil {
			return err
		}
		tx, err := rec.Transaction()
		if err != nil {
			var derr *DecodeError
			if errors.As(err, &derr) && derr.Line == 0 {
				derr.Line = line
			}
			return err
		}

		select {
		case <-ctx.Done():
			s.log.Info().Int("records_sent", sent).Msg("input stream cancelled")
			return nil
		case out <- tx:
			sent++
		}
	}
}

type columnIndex struct {
	typ, client, tx, amount int
}

func headerIndex(header []string) (columnIndex, error) {
	idx := columnIndex{typ: -1, client: -1, tx: -1, amount: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "type":
			idx.typ = i
		case "client":
			idx.client = i
		case "tx":
			idx.tx = i
		case "amount":
			idx.amount = i
		}
	}
	if idx.typ < 0 || idx.client < 0 || idx.tx < 0 {
		return idx, &DecodeError{Line: 1, Reason: "header must name type, client and tx columns"}
	}
	return idx, nil
}

func recordFromRow(cols columnIndex, row []string, line int) (Record, error) {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	client, err := strconv.ParseUint(field(cols.client), 10, 16)
	if err != nil {
		return Record{}, &DecodeError{Line: line, Reason: "parse client id", Err: err}
	}
	tx, err := strconv.ParseUint(field(cols.tx), 10, 32)
	if err != nil {
		return Record{}, &DecodeError{Line: line, Reason: "parse tx id", Err: err}
	}

	rec := Record{
		Type:   field(cols.typ),
		Client: uint16(client),
		Tx:     uint32(tx),
	}

	if raw := field(cols.amount); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return Record{}, &DecodeError{Line: line, Reason: "parse amount", Err: err}
		}
		rec.Amount = &amount
	}
	return rec, nil
}
