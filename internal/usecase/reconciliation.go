package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// ReconciliationResult is the outcome of replaying one account's history.
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	Records           int
	Problems          []string
	IsReconciled      bool
}

// ReconciliationReport summarizes a reconciliation pass over the whole ledger.
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	TotalBalance       decimal.Decimal
	Discrepancies      []ReconciliationResult
	Consistent         bool
	CheckedAt          time.Time
}

// Reconcile replays every account's history against its live balance. All
// accounts are locked for the duration, so the report is one consistent
// snapshot.
func (l *Ledger) Reconcile() ReconciliationReport {
	books := l.lockAll()
	defer unlockAll(books)

	report := ReconciliationReport{
		TotalAccounts: len(books),
		TotalBalance:  domain.Round(decimal.Zero),
		Discrepancies: make([]ReconciliationResult, 0),
		CheckedAt:     l.now(),
	}

	for _, b := range books {
		result := reconcileBook(b)
		report.TotalBalance = report.TotalBalance.Add(result.RecordedBalance)

		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	report.Consistent = len(report.Discrepancies) == 0

	return report
}

// reconcileBook must be called with b.mu held.
func reconcileBook(b *book) ReconciliationResult {
	result := ReconciliationResult{
		AccountID:       b.account.ID(),
		RecordedBalance: b.account.Balance(),
		Records:         len(b.history),
	}

	calculated := decimal.Zero
	for i, tx := range b.history {
		if i == 0 && tx.Kind != domain.TransactionAccountCreated {
			result.Problems = append(result.Problems, fmt.Sprintf("record %d: first record is %s, want %s", i, tx.Kind, domain.TransactionAccountCreated))
		}

		if !tx.BalanceBefore.Equal(calculated) {
			result.Problems = append(result.Problems, fmt.Sprintf("record %d (%s): before=%s, previous after=%s",
				i, tx.ID, domain.FormatMoney(tx.BalanceBefore), domain.FormatMoney(calculated)))
		}

		if !tx.Consistent() {
			result.Problems = append(result.Problems, fmt.Sprintf("record %d (%s): %s amount=%s does not match before=%s after=%s",
				i, tx.ID, tx.Kind, domain.FormatMoney(tx.Amount), domain.FormatMoney(tx.BalanceBefore), domain.FormatMoney(tx.BalanceAfter)))
		}

		calculated = tx.BalanceAfter
	}

	if len(b.history) == 0 {
		result.Problems = append(result.Problems, "account has no history")
	}

	result.CalculatedBalance = calculated
	result.Difference = result.RecordedBalance.Sub(calculated)

	if !result.Difference.IsZero() {
		result.Problems = append(result.Problems, fmt.Sprintf("recorded balance %s differs from history %s",
			domain.FormatMoney(result.RecordedBalance), domain.FormatMoney(calculated)))
	}

	result.IsReconciled = len(result.Problems) == 0

	return result
}
