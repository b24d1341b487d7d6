package interfaces

import "github.com/sheikh-saqib/bank-ledger/internal/models"

// AccountStore is the account registry behind a Ledger.
// Create hands build the next account number and stores what it returns in
// one step; a build error leaves the number unused. Get and List hand out
// the stored pointers; callers own the locking of balance changes.
type AccountStore interface {
	Create(build func(id int64) (*models.Account, error)) (*models.Account, error)
	Get(id int64) (*models.Account, error)
	List() []*models.Account
}
