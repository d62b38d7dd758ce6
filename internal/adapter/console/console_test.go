package console_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/adapter/console"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

func newBank() *usecase.Ledger {
	return usecase.NewLedger(usecase.Config{IDGenerator: mocks.NewSequenceIDGenerator()})
}

func runSession(t *testing.T, bank console.Bank, lines ...string) string {
	t.Helper()

	var out bytes.Buffer
	c := console.New(bank, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, c.Run())

	return out.String()
}

func TestConsole_CreateDepositWithdrawAndBalance(t *testing.T) {
	bank := newBank()

	out := runSession(t, bank,
		"1", "001", "Mauricio", "100",
		"2", "001", "10.1",
		"3", "001", "20",
		"5", "001",
		"0",
	)

	assert.Contains(t, out, "=== Banking System Console ===")
	assert.Contains(t, out, "Account created")
	assert.Contains(t, out, "Deposit completed")
	assert.Contains(t, out, "Withdrawal completed")
	assert.Contains(t, out, "Current balance: 90.10")
	assert.Contains(t, out, "Goodbye")

	view, err := bank.GetAccount("001")
	require.NoError(t, err)
	assert.Equal(t, "90.10", domain.FormatMoney(view.Balance))
}

func TestConsole_Transfer(t *testing.T) {
	bank := newBank()

	out := runSession(t, bank,
		"1", "001", "A", "400",
		"1", "002", "B", "500",
		"4", "001", "002", "300",
		"0",
	)

	assert.Contains(t, out, "Transfer completed")

	a, err := bank.GetAccount("001")
	require.NoError(t, err)
	b, err := bank.GetAccount("002")
	require.NoError(t, err)
	assert.Equal(t, "100.00", domain.FormatMoney(a.Balance))
	assert.Equal(t, "800.00", domain.FormatMoney(b.Balance))
}

func TestConsole_EngineErrorsArePrintedAndSessionContinues(t *testing.T) {
	bank := newBank()

	out := runSession(t, bank,
		"1", "001", "A", "300",
		"3", "001", "400",
		"1", "001", "B", "5",
		"5", "999",
		"4", "001", "001", "1",
		"1", "ab", "C", "0",
		"5", "001",
		"0",
	)

	assert.Contains(t, out, "Error: "+domain.ErrInsufficientFunds.Error())
	assert.Contains(t, out, "Error: "+domain.ErrDuplicateAccount.Error()+": 001")
	assert.Contains(t, out, "Error: "+domain.ErrAccountNotFound.Error()+": 999")
	assert.Contains(t, out, "Error: "+domain.ErrSameAccount.Error())
	assert.Contains(t, out, "Error: "+domain.ErrInvalidAccountID.Error())
	assert.Contains(t, out, "Current balance: 300.00")
	assert.Contains(t, out, "Goodbye")
}

func TestConsole_PromptsReaskOnBadInput(t *testing.T) {
	bank := newBank()

	out := runSession(t, bank,
		"1", "", "001", "  ", "A", "abc", "-1", "0",
		"2", "001", "x", "0", "-3", "0.004", "5",
		"9",
		"0",
	)

	assert.Contains(t, out, "Account number is required")
	assert.Contains(t, out, "Owner name cannot be empty")
	assert.Contains(t, out, "Invalid format. Valid example: 0 or 150.00")
	assert.Contains(t, out, "Initial balance cannot be negative")
	assert.Contains(t, out, "Invalid format. Valid example: 150.00")
	assert.Equal(t, 3, strings.Count(out, "Amount must be greater than 0."))
	assert.Contains(t, out, "Invalid option.")

	view, err := bank.GetAccount("001")
	require.NoError(t, err)
	assert.Equal(t, "5.00", domain.FormatMoney(view.Balance))
}

func TestConsole_History(t *testing.T) {
	bank := newBank()

	out := runSession(t, bank,
		"1", "001", "A", "0",
		"2", "001", "50",
		"6", "001",
		"0",
	)

	assert.Contains(t, out, "=== History of 001 ===")
	assert.Contains(t, out, "| ACCOUNT_CREATED | amt=0.00 | before=0.00 | after=0.00 | Account created")
	assert.Contains(t, out, "| DEPOSIT | amt=50.00 | before=0.00 | after=50.00 | Deposit")
}

func TestConsole_LedgerReport(t *testing.T) {
	bank := newBank()

	out := runSession(t, bank, "7", "1", "002", "B", "2.5", "1", "001", "A", "1", "7", "0")

	assert.Contains(t, out, "No accounts.")
	assert.Contains(t, out, "001 | A | 1.00\n002 | B | 2.50")
	assert.Contains(t, out, "Total balance: 3.50")
	assert.Contains(t, out, "Reconciled: 2/2")
	assert.NotContains(t, out, "Discrepancy")
}

func TestConsole_EOFEndsSession(t *testing.T) {
	bank := newBank()

	var out bytes.Buffer
	c := console.New(bank, strings.NewReader("1\n001\n"), &out)

	require.NoError(t, c.Run())
	assert.NotContains(t, out.String(), "Account created")
	assert.Empty(t, bank.ListAccounts())
}

func TestConsole_FormatTransaction(t *testing.T) {
	tx := domain.Transaction{
		ID:            "tx-1",
		AccountID:     "001",
		Kind:          domain.TransactionTransferOut,
		Amount:        decimal.RequireFromString("150"),
		BalanceBefore: decimal.RequireFromString("1000"),
		BalanceAfter:  decimal.RequireFromString("850"),
		Description:   "Transfer to 002",
		OccurredAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	assert.Equal(t,
		"2024-03-01T12:00:00Z | TRANSFER_OUT | amt=150.00 | before=1000.00 | after=850.00 | Transfer to 002",
		console.FormatTransaction(tx),
	)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestConsole_ReadErrorIsReturned(t *testing.T) {
	var out bytes.Buffer
	c := console.New(newBank(), failingReader{}, &out)

	err := c.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read failed")
}
