package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies the balance-affecting event a Transaction records.
type TransactionKind string

const (
	TransactionAccountCreated TransactionKind = "ACCOUNT_CREATED"
	TransactionDeposit        TransactionKind = "DEPOSIT"
	TransactionWithdraw       TransactionKind = "WITHDRAW"
	TransactionTransferOut    TransactionKind = "TRANSFER_OUT"
	TransactionTransferIn     TransactionKind = "TRANSFER_IN"
)

// Sign returns +1 for kinds that increase the balance and -1 for kinds that
// decrease it.
func (k TransactionKind) Sign() int {
	switch k {
	case TransactionWithdraw, TransactionTransferOut:
		return -1
	default:
		return 1
	}
}

// Transaction is an immutable audit record of one event on one account.
type Transaction struct {
	OccurredAt    time.Time
	ID            string
	AccountID     string
	Kind          TransactionKind
	Description   string
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// Delta is the signed change the record documents.
func (t Transaction) Delta() decimal.Decimal {
	if t.Kind.Sign() < 0 {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Consistent reports whether BalanceAfter - BalanceBefore equals the signed
// amount of the record.
func (t Transaction) Consistent() bool {
	return t.BalanceAfter.Sub(t.BalanceBefore).Equal(t.Delta())
}
