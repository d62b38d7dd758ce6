package usecase

import (
	"github.com/shopspring/decimal"
)

// Operation names reported to a Recorder.
const (
	OpCreateAccount = "create_account"
	OpDeposit       = "deposit"
	OpWithdraw      = "withdraw"
	OpTransfer      = "transfer"
)

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Recorder observes ledger outcomes, typically for metrics.
type Recorder interface {
	// Succeeded is called once per successful mutation with its normalized amount.
	Succeeded(op string, amount decimal.Decimal)
	// Failed is called once per rejected mutation.
	Failed(op string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Succeeded(string, decimal.Decimal) {}
func (nopRecorder) Failed(string, error)              {}
