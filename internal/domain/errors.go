package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the ledger matches exactly one of these
// with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Validation errors
var (
	ErrInvalidAccountID       = fmt.Errorf("%w: account number must be only digits, length 3-20", ErrValidation)
	ErrInvalidOwnerName       = fmt.Errorf("%w: owner name is required", ErrValidation)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be > 0", ErrValidation)
	ErrNegativeInitialBalance = fmt.Errorf("%w: initial balance must be greater or equal than 0", ErrValidation)
	ErrAmountRequired         = fmt.Errorf("%w: amount is required", ErrValidation)
	ErrInvalidAmountFormat    = fmt.Errorf("%w: invalid amount format", ErrValidation)
	ErrSameAccount            = fmt.Errorf("%w: from and to accounts must be different", ErrValidation)
)

// ErrorKind is a stable label for an error kind.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindDuplicateAccount  ErrorKind = "duplicate_account"
	KindAccountNotFound   ErrorKind = "account_not_found"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindInternal          ErrorKind = "internal"
)

// KindOf maps err to its kind label. A nil error has no kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicateAccount):
		return KindDuplicateAccount
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	default:
		return KindInternal
	}
}
