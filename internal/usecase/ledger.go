package usecase

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// book holds one account together with its history. mu guards both, so a
// balance is never observable without the record that documents it.
type book struct {
	mu      sync.Mutex
	account *domain.Account
	history []domain.Transaction
}

// Ledger owns all accounts and their transaction histories and is the only
// path through which balances change. It is safe for concurrent use.
type Ledger struct {
	mu    sync.RWMutex
	books map[string]*book

	idGen    IDGenerator
	recorder Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// Config configures a Ledger.
type Config struct {
	IDGenerator IDGenerator
	Recorder    Recorder        // optional
	Logger      *zerolog.Logger // optional, defaults to a no-op logger
}

// NewLedger creates an empty Ledger.
func NewLedger(cfg Config) *Ledger {
	if cfg.IDGenerator == nil {
		panic("usecase: Ledger requires an IDGenerator")
	}

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Ledger{
		books:    make(map[string]*book),
		idGen:    cfg.IDGenerator,
		recorder: recorder,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateAccount registers a new account and records its opening balance.
func (l *Ledger) CreateAccount(id, ownerName string, initialBalance decimal.Decimal) (domain.AccountView, error) {
	view, err := l.createAccount(id, ownerName, initialBalance)
	if err != nil {
		l.fail(OpCreateAccount, err, id)
		return domain.AccountView{}, err
	}

	l.recorder.Succeeded(OpCreateAccount, view.Balance)
	l.logger.Info().
		Str("account", id).
		Str("owner", ownerName).
		Str("initial_balance", domain.FormatMoney(view.Balance)).
		Msg("ACCOUNT_CREATED")

	return view, nil
}

func (l *Ledger) createAccount(id, ownerName string, initialBalance decimal.Decimal) (domain.AccountView, error) {
	if err := domain.ValidateAccountID(id); err != nil {
		return domain.AccountView{}, err
	}

	if err := domain.ValidateOwnerName(ownerName); err != nil {
		return domain.AccountView{}, err
	}

	// Existence check and insert happen under one write lock.
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.books[id]; exists {
		return domain.AccountView{}, fmt.Errorf("%w: %s", domain.ErrDuplicateAccount, id)
	}

	initial, err := domain.NormalizeInitialBalance(initialBalance)
	if err != nil {
		return domain.AccountView{}, err
	}

	now := l.now()

	account, err := domain.NewAccount(id, ownerName, initial, now)
	if err != nil {
		return domain.AccountView{}, err
	}

	created := l.newTransaction(
		id, domain.TransactionAccountCreated, initial, domain.Round(decimal.Zero), initial, "Account created", now,
	)
	l.books[id] = &book{account: account, history: []domain.Transaction{created}}

	return account.View(), nil
}

// GetAccount returns a snapshot of the account.
func (l *Ledger) GetAccount(id string) (domain.AccountView, error) {
	b, err := l.lookup(id)
	if err != nil {
		return domain.AccountView{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.account.View(), nil
}

// ListAccounts returns snapshots of all accounts ordered by id.
func (l *Ledger) ListAccounts() []domain.AccountView {
	books := l.lockAll()
	defer unlockAll(books)

	views := make([]domain.AccountView, 0, len(books))
	for _, b := range books {
		views = append(views, b.account.View())
	}

	return views
}

// TotalBalance returns the sum of all balances, taken as one consistent snapshot.
func (l *Ledger) TotalBalance() decimal.Decimal {
	books := l.lockAll()
	defer unlockAll(books)

	total := domain.Round(decimal.Zero)
	for _, b := range books {
		total = total.Add(b.account.Balance())
	}

	return total
}

// Deposit credits amount to the account.
func (l *Ledger) Deposit(id string, amount decimal.Decimal) (domain.Transaction, error) {
	tx, err := l.deposit(id, amount)
	if err != nil {
		l.fail(OpDeposit, err, id)
		return domain.Transaction{}, err
	}

	l.recorder.Succeeded(OpDeposit, tx.Amount)
	l.logger.Info().Str("account", id).Str("amount", domain.FormatMoney(tx.Amount)).Msg("DEPOSIT")

	return tx, nil
}

func (l *Ledger) deposit(id string, amount decimal.Decimal) (domain.Transaction, error) {
	b, err := l.lookup(id)
	if err != nil {
		return domain.Transaction{}, err
	}

	normalized, err := domain.NormalizeAmount(amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	before := b.account.Balance()
	if err := b.account.Deposit(normalized); err != nil {
		return domain.Transaction{}, err
	}

	tx := l.newTransaction(id, domain.TransactionDeposit, normalized, before, b.account.Balance(), "Deposit", l.now())
	b.history = append(b.history, tx)

	return tx, nil
}

// Withdraw debits amount from the account. A rejected withdrawal leaves both
// balance and history untouched.
func (l *Ledger) Withdraw(id string, amount decimal.Decimal) (domain.Transaction, error) {
	tx, err := l.withdraw(id, amount)
	if err != nil {
		l.fail(OpWithdraw, err, id)
		return domain.Transaction{}, err
	}

	l.recorder.Succeeded(OpWithdraw, tx.Amount)
	l.logger.Info().Str("account", id).Str("amount", domain.FormatMoney(tx.Amount)).Msg("WITHDRAW")

	return tx, nil
}

func (l *Ledger) withdraw(id string, amount decimal.Decimal) (domain.Transaction, error) {
	b, err := l.lookup(id)
	if err != nil {
		return domain.Transaction{}, err
	}

	normalized, err := domain.NormalizeAmount(amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	before := b.account.Balance()
	if err := b.account.Withdraw(normalized); err != nil {
		return domain.Transaction{}, err
	}

	tx := l.newTransaction(id, domain.TransactionWithdraw, normalized, before, b.account.Balance(), "Withdraw", l.now())
	b.history = append(b.history, tx)

	return tx, nil
}

// TransferResult holds the two records a successful transfer appends.
type TransferResult struct {
	Out domain.Transaction
	In  domain.Transaction
}

// Transfer moves amount from one account to another. The debit is attempted
// strictly before the credit; if it fails neither account changes.
func (l *Ledger) Transfer(fromID, toID string, amount decimal.Decimal) (TransferResult, error) {
	result, err := l.transfer(fromID, toID, amount)
	if err != nil {
		l.fail(OpTransfer, err, fromID)
		return TransferResult{}, err
	}

	l.recorder.Succeeded(OpTransfer, result.Out.Amount)
	l.logger.Info().
		Str("from", fromID).
		Str("to", toID).
		Str("amount", domain.FormatMoney(result.Out.Amount)).
		Msg("TRANSFER")

	return result, nil
}

func (l *Ledger) transfer(fromID, toID string, amount decimal.Decimal) (TransferResult, error) {
	if fromID == toID {
		return TransferResult{}, domain.ErrSameAccount
	}

	from, err := l.lookup(fromID)
	if err != nil {
		return TransferResult{}, err
	}

	to, err := l.lookup(toID)
	if err != nil {
		return TransferResult{}, err
	}

	normalized, err := domain.NormalizeAmount(amount)
	if err != nil {
		return TransferResult{}, err
	}

	// Lock in ascending id order to prevent deadlocks between opposite transfers.
	first, second := from, to
	if toID < fromID {
		first, second = to, from
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	fromBefore := from.account.Balance()
	if err := from.account.Withdraw(normalized); err != nil {
		return TransferResult{}, err
	}
	fromAfter := from.account.Balance()

	toBefore := to.account.Balance()
	if err := to.account.Deposit(normalized); err != nil {
		if undoErr := from.account.Deposit(normalized); undoErr != nil {
			err = errors.Join(err, undoErr)
		}
		return TransferResult{}, fmt.Errorf("credit %s: %w", toID, err)
	}
	toAfter := to.account.Balance()

	now := l.now()
	result := TransferResult{
		Out: l.newTransaction(fromID, domain.TransactionTransferOut, normalized, fromBefore, fromAfter, "Transfer to "+toID, now),
		In:  l.newTransaction(toID, domain.TransactionTransferIn, normalized, toBefore, toAfter, "Transfer from "+fromID, now),
	}

	from.history = append(from.history, result.Out)
	to.history = append(to.history, result.In)

	return result, nil
}

// GetTransactions returns a copy of the account's history in the order the
// records were appended.
func (l *Ledger) GetTransactions(id string) ([]domain.Transaction, error) {
	b, err := l.lookup(id)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.Transaction, len(b.history))
	copy(out, b.history)

	return out, nil
}

func (l *Ledger) lookup(id string) (*book, error) {
	l.mu.RLock()
	b, ok := l.books[id]
	l.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	return b, nil
}

// lockAll locks every book in ascending id order and returns them in that order.
func (l *Ledger) lockAll() []*book {
	l.mu.RLock()
	ids := make([]string, 0, len(l.books))
	for id := range l.books {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	books := make([]*book, len(ids))
	for i, id := range ids {
		books[i] = l.books[id]
	}
	l.mu.RUnlock()

	for _, b := range books {
		b.mu.Lock()
	}

	return books
}

func unlockAll(books []*book) {
	for i := len(books) - 1; i >= 0; i-- {
		books[i].mu.Unlock()
	}
}

func (l *Ledger) newTransaction(
	accountID string,
	kind domain.TransactionKind,
	amount, before, after decimal.Decimal,
	description string,
	at time.Time,
) domain.Transaction {
	return domain.Transaction{
		ID:            l.idGen.Generate(),
		AccountID:     accountID,
		Kind:          kind,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   description,
		OccurredAt:    at,
	}
}

func (l *Ledger) fail(op string, err error, accountID string) {
	l.recorder.Failed(op, err)
	l.logger.Debug().
		Err(err).
		Str("operation", op).
		Str("account", accountID).
		Str("kind", string(domain.KindOf(err))).
		Msg("operation rejected")
}
