package memory

import (
	"fmt"
	"sync"

	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

// MemoryAccountStore is an in-memory implementation of interfaces.AccountStore.
// Accounts are indexed by id and listed in insertion order.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[int64]*models.Account
	order    []int64
	lastID   int64
}

// NewMemoryAccountStore creates an empty store whose first id is 1.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: make(map[int64]*models.Account),
		order:    make([]int64, 0),
	}
}

// Create reserves the next account number and stores the account build
// returns for it under the same lock, so accounts land in id order. The
// counter only moves forward: ids stay unique even if accounts are ever
// removed, and a failed build does not consume one.
func (m *MemoryAccountStore) Create(build func(id int64) (*models.Account, error)) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.lastID + 1
	account, err := build(id)
	if err != nil {
		return nil, err
	}
	if account.ID != id {
		return nil, fmt.Errorf("built account number %d, reserved %d", account.ID, id)
	}

	m.lastID = id
	m.accounts[id] = account
	m.order = append(m.order, id)
	return account, nil
}

func (m *MemoryAccountStore) Get(id int64) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account number %d: %w", id, models.ErrAccountNotFound)
	}
	return account, nil
}

// List returns the stored accounts in creation order.
func (m *MemoryAccountStore) List() []*models.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Account, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.accounts[id])
	}
	return out
}

// Compile-time check: ensure MemoryAccountStore implements AccountStore interface
var _ interfaces.AccountStore = (*MemoryAccountStore)(nil)
