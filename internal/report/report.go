package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"PayStream/internal/account"
)

// Write renders the final account snapshot as CSV: a header followed by
// one row per client in ascending client-id order.
func Write(w io.Writer, accounts map[uint16]account.Account) error {
	clients := make([]uint16, 0, len(accounts))
	for client := range accounts {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i] < clients[j] })

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "client,available,held,total,locked")
	for _, client := range clients {
		a := accounts[client]
		fmt.Fprintf(bw, "%d,%s,%s,%s,%t\n",
			a.Client,
			formatDecimal(a.Available),
			formatDecimal(a.Held),
			formatDecimal(a.Total),
			a.Locked,
		)
	}
	return bw.Flush()
}

// formatDecimal renders a value with at least one fractional digit.
func formatDecimal(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		return s + ".0"
	}
	return s
}
