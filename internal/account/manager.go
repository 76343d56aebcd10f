package account

import (
	"sync"

	"PayStream/internal/transaction"
)

// Manager is the shared account store: a map from client id to Account
// behind a single lock. Accounts are created lazily on first reference
// and never removed.
type Manager struct {
	mu       sync.RWMutex
	accounts map[uint16]*Account
}

func NewManager() *Manager {
	return &Manager{
		accounts: make(map[uint16]*Account),
	}
}

// Process resolves the owning client, creates its account if needed and
// delegates to Account.Process. The write lock spans lookup-or-create
// plus the full apply, so two transactions for the same client never
// interleave and a new client cannot race its own account's creation.
func (m *Manager) Process(tx transaction.Transaction) error {
	client := tx.ClientID()

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[client]
	if !ok {
		acct = New(client)
		m.accounts[client] = acct
	}
	return acct.Process(tx)
}

// Snapshot returns a deep copy of every account for external reporting.
func (m *Manager) Snapshot() map[uint16]Account {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[uint16]Account, len(m.accounts))
	for client, acct := range m.accounts {
		out[client] = *acct.Clone()
	}
	return out
}

// Account returns a copy of a single account.
func (m *Manager) Account(client uint16) (Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acct, ok := m.accounts[client]
	if !ok {
		return Account{}, false
	}
	return *acct.Clone(), true
}

// Len returns the number of accounts touched so far.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}

// LockedCount returns the number of locked accounts.
func (m *Manager) LockedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, acct := range m.accounts {
		if acct.Locked {
			n++
		}
	}
	return n
}
