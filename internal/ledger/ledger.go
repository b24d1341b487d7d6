package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
	"github.com/sheikh-saqib/bank-ledger/internal/models/events"
)

// Ledger is the bank registry: it owns every account, hands out account
// numbers and moves money between accounts.
// Balance changes are serialised per account through muMap.
type Ledger struct {
	store     interfaces.AccountStore // account registry, memory or otherwise
	publisher interfaces.EventPublisher
	topic     string
	logger    *zap.Logger
	now       func() time.Time

	muMap map[int64]*sync.Mutex // stores the *sync.Mutex for each account in a map
	mapMu sync.Mutex            // protects the muMap itself
}

type Option func(*Ledger)

// WithPublisher makes the ledger announce every completed movement.
func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithTopic overrides the topic completed transactions are published on.
func WithTopic(topic string) Option {
	return func(l *Ledger) { l.topic = topic }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithClock overrides time.Now for account and transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a Ledger on top of the given account store.
func NewLedger(store interfaces.AccountStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		topic:  events.TopicTransactionCompleted,
		logger: zap.NewNop(),
		now:    time.Now,
		muMap:  make(map[int64]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) getAccountLock(accountID int64) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[accountID]; !exists {
		l.muMap[accountID] = &sync.Mutex{}
	}
	return l.muMap[accountID]
}

// CreateAccount opens an account and returns its number.
// A rejected initial deposit does not consume an account number.
func (l *Ledger) CreateAccount(name string, initialDeposit decimal.Decimal) (int64, error) {
	if initialDeposit.IsNegative() {
		return 0, fmt.Errorf("initial deposit: %w", models.ErrNegativeAmount)
	}

	account, err := l.store.Create(func(id int64) (*models.Account, error) {
		return models.NewAccount(id, name, initialDeposit, l.now())
	})
	if err != nil {
		return 0, err
	}

	l.logger.Debug("account created",
		zap.Int64("account_id", account.ID),
		zap.String("name", name),
		zap.String("initial_deposit", initialDeposit.String()),
	)
	return account.ID, nil
}

// FindAccount returns a copy of the account with the given number.
func (l *Ledger) FindAccount(accountID int64) (models.Account, error) {
	account, err := l.store.Get(accountID)
	if err != nil {
		return models.Account{}, err
	}

	mu := l.getAccountLock(accountID)
	mu.Lock()
	defer mu.Unlock()
	return *account, nil
}

// Accounts returns copies of all accounts in creation order.
func (l *Ledger) Accounts() []models.Account {
	stored := l.store.List()
	out := make([]models.Account, 0, len(stored))
	for _, account := range stored {
		mu := l.getAccountLock(account.ID)
		mu.Lock()
		out = append(out, *account)
		mu.Unlock()
	}
	return out
}

// Summary renders the account with the given number for display.
func (l *Ledger) Summary(accountID int64) (string, error) {
	account, err := l.FindAccount(accountID)
	if err != nil {
		return "", err
	}
	return account.Summary(), nil
}

func (l *Ledger) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("deposit: %w", models.ErrNegativeAmount)
	}
	account, err := l.store.Get(accountID)
	if err != nil {
		return err
	}

	mu := l.getAccountLock(accountID)
	mu.Lock()
	err = account.Deposit(amount)
	mu.Unlock()
	if err != nil {
		return err
	}

	l.completed(ctx, models.Transaction{
		Type:      models.TransactionDeposit,
		ToAccount: accountID,
		Amount:    amount,
	})
	return nil
}

func (l *Ledger) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("withdrawal: %w", models.ErrNegativeAmount)
	}
	account, err := l.store.Get(accountID)
	if err != nil {
		return err
	}

	mu := l.getAccountLock(accountID)
	mu.Lock()
	err = account.Withdraw(amount)
	mu.Unlock()
	if err != nil {
		return err
	}

	l.completed(ctx, models.Transaction{
		Type:        models.TransactionWithdrawal,
		FromAccount: accountID,
		Amount:      amount,
	})
	return nil
}

// Transfer moves amount from one account to another. Both accounts are
// resolved before anything is locked, the source first, so a missing source
// is reported ahead of a missing destination. The withdrawal runs before the
// deposit: when it fails the destination is never credited.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("transfer: %w", models.ErrNegativeAmount)
	}

	from, err := l.store.Get(fromID)
	if err != nil {
		return err
	}
	to, err := l.store.Get(toID)
	if err != nil {
		return err
	}

	if err := l.move(from, to, amount); err != nil {
		return err
	}

	l.completed(ctx, models.Transaction{
		Type:        models.TransactionTransfer,
		FromAccount: fromID,
		ToAccount:   toID,
		Amount:      amount,
	})
	return nil
}

// move performs the withdraw/deposit pair while holding both account locks.
func (l *Ledger) move(from, to *models.Account, amount decimal.Decimal) error {
	debitMutex := l.getAccountLock(from.ID)
	creditMutex := l.getAccountLock(to.ID)

	// Lock in ascending id order to avoid deadlocks
	switch {
	case from.ID == to.ID:
		debitMutex.Lock()
		defer debitMutex.Unlock()
	case from.ID < to.ID:
		debitMutex.Lock()
		defer debitMutex.Unlock()
		creditMutex.Lock()
		defer creditMutex.Unlock()
	default:
		creditMutex.Lock()
		defer creditMutex.Unlock()
		debitMutex.Lock()
		defer debitMutex.Unlock()
	}

	if err := from.Withdraw(amount); err != nil {
		return err
	}
	// Deposit only rejects negative amounts, which were ruled out above.
	return to.Deposit(amount)
}

// completed stamps the transaction and announces it. Publishing is best
// effort: the balances are already updated when it runs.
func (l *Ledger) completed(ctx context.Context, tx models.Transaction) {
	tx.ID = uuid.New().String()
	tx.CreatedAt = l.now()

	l.logger.Debug("transaction completed",
		zap.String("transaction_id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.Int64("from_account", tx.FromAccount),
		zap.Int64("to_account", tx.ToAccount),
		zap.String("amount", tx.Amount.String()),
	)

	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, l.topic, events.NewTransactionCompleted(tx)); err != nil {
		l.logger.Warn("failed to publish transaction event",
			zap.String("transaction_id", tx.ID),
			zap.Error(err),
		)
	}
}
