package usecase

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/domain"
)

type counterIDs struct {
	n atomic.Int64
}

func (c *counterIDs) Generate() string {
	return fmt.Sprintf("id-%d", c.n.Add(1))
}

func seededLedger(t *testing.T) *Ledger {
	t.Helper()

	l := NewLedger(Config{IDGenerator: &counterIDs{}})

	_, err := l.CreateAccount("001", "Mauricio", decimal.RequireFromString("1000.00"))
	require.NoError(t, err)
	_, err = l.CreateAccount("002", "Cliente", decimal.RequireFromString("250.00"))
	require.NoError(t, err)
	_, err = l.Transfer("001", "002", decimal.RequireFromString("150.00"))
	require.NoError(t, err)
	_, err = l.Deposit("002", decimal.RequireFromString("20.5"))
	require.NoError(t, err)

	return l
}

func TestReconcile_Consistent(t *testing.T) {
	l := seededLedger(t)

	report := l.Reconcile()

	assert.True(t, report.Consistent)
	assert.Equal(t, 2, report.TotalAccounts)
	assert.Equal(t, 2, report.ReconciledAccounts)
	assert.Empty(t, report.Discrepancies)
	assert.Equal(t, "1270.50", domain.FormatMoney(report.TotalBalance))
	assert.False(t, report.CheckedAt.IsZero())
}

func TestReconcile_EmptyLedger(t *testing.T) {
	l := NewLedger(Config{IDGenerator: &counterIDs{}})

	report := l.Reconcile()

	assert.True(t, report.Consistent)
	assert.Zero(t, report.TotalAccounts)
	assert.True(t, report.TotalBalance.IsZero())
}

func TestReconcile_DetectsDiscrepancies(t *testing.T) {
	tests := []struct {
		name    string
		tamper  func(b *book)
		problem string
	}{
		{
			name: "balance drifted from history",
			tamper: func(b *book) {
				_ = b.account.Deposit(decimal.RequireFromString("1.00"))
			},
			problem: "differs from history",
		},
		{
			name: "broken chain",
			tamper: func(b *book) {
				b.history[1].BalanceBefore = decimal.RequireFromString("999.00")
			},
			problem: "previous after",
		},
		{
			name: "amount does not match delta",
			tamper: func(b *book) {
				b.history[1].Amount = decimal.RequireFromString("1.00")
			},
			problem: "does not match",
		},
		{
			name: "missing creation record",
			tamper: func(b *book) {
				b.history[0].Kind = domain.TransactionDeposit
			},
			problem: "first record",
		},
		{
			name: "empty history",
			tamper: func(b *book) {
				b.history = nil
			},
			problem: "no history",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := seededLedger(t)
			tt.tamper(l.books["001"])

			report := l.Reconcile()

			require.False(t, report.Consistent)
			require.Len(t, report.Discrepancies, 1)
			assert.Equal(t, 1, report.ReconciledAccounts)

			result := report.Discrepancies[0]
			assert.Equal(t, "001", result.AccountID)
			assert.False(t, result.IsReconciled)

			found := false
			for _, p := range result.Problems {
				if strings.Contains(p, tt.problem) {
					found = true
				}
			}
			assert.True(t, found, "problems %v do not mention %q", result.Problems, tt.problem)
		})
	}
}
