package account_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PayStream/internal/account"
	"PayStream/internal/transaction"
)

// buildDeposit is safe to call off the test goroutine.
func buildDeposit(client uint16, tx uint32, amount string) (*transaction.Deposit, error) {
	m, err := transaction.NewMoneyTransaction(client, tx, decimal.RequireFromString(amount))
	if err != nil {
		return nil, err
	}
	return &transaction.Deposit{MoneyTransaction: m}, nil
}

func TestManager_LazyCreate(t *testing.T) {
	m := account.NewManager()
	require.Equal(t, 0, m.Len())

	require.NoError(t, m.Process(deposit(t, 1, 1, "100.00")))
	require.NoError(t, m.Process(deposit(t, 2, 2, "200.00")))
	require.Equal(t, 2, m.Len())

	a1, ok := m.Account(1)
	require.True(t, ok)
	assert.True(t, a1.Available.Equal(dec("100.00")))

	a2, ok := m.Account(2)
	require.True(t, ok)
	assert.True(t, a2.Available.Equal(dec("200.00")))

	_, ok = m.Account(3)
	assert.False(t, ok)
}

func TestManager_ErrorsDoNotCorruptState(t *testing.T) {
	m := account.NewManager()
	require.NoError(t, m.Process(deposit(t, 1, 1, "100.00")))
	require.Error(t, m.Process(withdrawal(t, 1, 2, "500.00")))

	a, ok := m.Account(1)
	require.True(t, ok)
	assert.True(t, a.Available.Equal(dec("100.00")))
	// the rejected transaction still created no account for anyone else
	assert.Equal(t, 1, m.Len())
}

func TestManager_SnapshotIsDeepCopy(t *testing.T) {
	m := account.NewManager()
	require.NoError(t, m.Process(deposit(t, 1, 1, "100.00")))

	snap := m.Snapshot()
	require.Len(t, snap, 1)

	// mutate after the snapshot was taken
	require.NoError(t, m.Process(dispute(1, 1)))

	got := snap[1]
	assert.True(t, got.Available.Equal(dec("100.00")), "snapshot must not see later mutations")
	assert.False(t, got.Ledger.IsDisputed(1), "snapshot ledger must not alias live entries")
}

func TestManager_LockedCount(t *testing.T) {
	m := account.NewManager()
	require.NoError(t, m.Process(deposit(t, 1, 1, "100.00")))
	require.NoError(t, m.Process(deposit(t, 2, 2, "100.00")))
	require.Equal(t, 0, m.LockedCount())

	require.NoError(t, m.Process(dispute(1, 1)))
	require.NoError(t, m.Process(chargeback(1, 1)))
	assert.Equal(t, 1, m.LockedCount())
}

func TestManager_ConcurrentClients(t *testing.T) {
	m := account.NewManager()

	const clients = 16
	const depositsPerClient = 50

	var wg sync.WaitGroup
	for c := 0; c < clients; c++ {
		wg.Add(1)
		go func(client uint16) {
			defer wg.Done()
			for i := 0; i < depositsPerClient; i++ {
				txID := uint32(client)*1000 + uint32(i)
				d, err := buildDeposit(client, txID, "1.00")
				if err != nil {
					t.Error(err)
					return
				}
				if err := m.Process(d); err != nil {
					t.Errorf("client %d tx %d: %v", client, txID, err)
				}
			}
		}(uint16(c))
	}
	wg.Wait()

	require.Equal(t, clients, m.Len())
	for c := 0; c < clients; c++ {
		a, ok := m.Account(uint16(c))
		require.True(t, ok)
		assert.True(t, a.Total.Equal(dec(fmt.Sprintf("%d.00", depositsPerClient))),
			"client %d total = %s", c, a.Total)
		assert.True(t, a.Total.Equal(a.Available.Add(a.Held)))
	}
}
