package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a named balance holder. Its balance never goes negative.
//
// Fields are unexported so that only the ledger, through Deposit and
// Withdraw, can change the balance.
type Account struct {
	id        string
	ownerName string
	balance   decimal.Decimal
	createdAt time.Time
}

// NewAccount creates an account with the given opening balance.
func NewAccount(id, ownerName string, initialBalance decimal.Decimal, createdAt time.Time) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: account number is required", ErrValidation)
	}

	if err := ValidateOwnerName(ownerName); err != nil {
		return nil, err
	}

	if initialBalance.IsNegative() {
		return nil, ErrNegativeInitialBalance
	}

	return &Account{
		id:        id,
		ownerName: ownerName,
		balance:   initialBalance,
		createdAt: createdAt,
	}, nil
}

// ID returns the account number.
func (a *Account) ID() string { return a.id }

// OwnerName returns the owner's display name.
func (a *Account) OwnerName() string { return a.ownerName }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// CreatedAt returns when the account was opened.
func (a *Account) CreatedAt() time.Time { return a.createdAt }

// Equal reports whether a and other are the same account. Identity is the id.
func (a *Account) Equal(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}

	return a.id == other.id
}

// Deposit credits amount to the balance.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	a.balance = a.balance.Add(amount)

	return nil
}

// Withdraw debits amount from the balance.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if a.balance.LessThan(amount) {
		return fmt.Errorf("%w: balance=%s, amount=%s", ErrInsufficientFunds, FormatMoney(a.balance), FormatMoney(amount))
	}

	a.balance = a.balance.Sub(amount)

	return nil
}

// View returns a read-only snapshot of the account.
func (a *Account) View() AccountView {
	return AccountView{
		ID:        a.id,
		OwnerName: a.ownerName,
		Balance:   a.balance,
		CreatedAt: a.createdAt,
	}
}

// AccountView is a point-in-time copy of an account handed to callers.
type AccountView struct {
	ID        string
	OwnerName string
	Balance   decimal.Decimal
	CreatedAt time.Time
}
