// Package console implements an interactive text session over a Bank.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// Bank is the subset of the ledger the console drives.
type Bank interface {
	CreateAccount(id, ownerName string, initialBalance decimal.Decimal) (domain.AccountView, error)
	GetAccount(id string) (domain.AccountView, error)
	Deposit(id string, amount decimal.Decimal) (domain.Transaction, error)
	Withdraw(id string, amount decimal.Decimal) (domain.Transaction, error)
	Transfer(fromID, toID string, amount decimal.Decimal) (usecase.TransferResult, error)
	GetTransactions(id string) ([]domain.Transaction, error)
	ListAccounts() []domain.AccountView
	Reconcile() usecase.ReconciliationReport
}

const menu = `1) Create account
2) Deposit
3) Withdraw
4) Transfer
5) Show balance
6) Show history
7) Ledger report
0) Exit`

// Console reads menu choices from in and writes results to out.
type Console struct {
	bank    Bank
	scanner *bufio.Scanner
	out     io.Writer
}

// New creates a Console over bank reading from in and writing to out.
func New(bank Bank, in io.Reader, out io.Writer) *Console {
	return &Console{
		bank:    bank,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Run loops until the user exits or input is exhausted. Engine errors are
// printed and do not end the session; only read failures are returned.
func (c *Console) Run() error {
	c.println("=== Banking System Console ===")

	for {
		c.println(menu)

		option, err := c.readLine("Select an option: ")
		if err != nil {
			return c.finish(err)
		}

		var actionErr error
		switch option {
		case "1":
			actionErr = c.createAccount()
		case "2":
			actionErr = c.deposit()
		case "3":
			actionErr = c.withdraw()
		case "4":
			actionErr = c.transfer()
		case "5":
			actionErr = c.showBalance()
		case "6":
			actionErr = c.showHistory()
		case "7":
			c.showReport()
		case "0":
			c.println("Goodbye")
			return nil
		default:
			c.println("Invalid option.")
		}

		if actionErr != nil {
			if isInputError(actionErr) {
				return c.finish(actionErr)
			}
			c.printf("Error: %s\n", actionErr)
		}

		c.println("")
	}
}

func (c *Console) createAccount() error {
	id, err := c.readRequired("Account number: ", "Account number is required")
	if err != nil {
		return err
	}

	owner, err := c.readRequired("Owner name: ", "Owner name cannot be empty")
	if err != nil {
		return err
	}

	initial, err := c.readMoney("Initial balance: ", domain.NormalizeInitialBalance, "Initial balance cannot be negative", "0 or 150.00")
	if err != nil {
		return err
	}

	if _, err := c.bank.CreateAccount(id, owner, initial); err != nil {
		return err
	}

	c.println("Account created")
	return nil
}

func (c *Console) deposit() error {
	id, err := c.readRequired("Account number: ", "Account number is required")
	if err != nil {
		return err
	}

	amount, err := c.readAmount("Amount to deposit: ")
	if err != nil {
		return err
	}

	if _, err := c.bank.Deposit(id, amount); err != nil {
		return err
	}

	c.println("Deposit completed")
	return nil
}

func (c *Console) withdraw() error {
	id, err := c.readRequired("Account number: ", "Account number is required")
	if err != nil {
		return err
	}

	amount, err := c.readAmount("Amount to withdraw: ")
	if err != nil {
		return err
	}

	if _, err := c.bank.Withdraw(id, amount); err != nil {
		return err
	}

	c.println("Withdrawal completed")
	return nil
}

func (c *Console) transfer() error {
	from, err := c.readRequired("Source account number: ", "Account number is required")
	if err != nil {
		return err
	}

	to, err := c.readRequired("Destination account number: ", "Account number is required")
	if err != nil {
		return err
	}

	amount, err := c.readAmount("Amount to transfer: ")
	if err != nil {
		return err
	}

	if _, err := c.bank.Transfer(from, to, amount); err != nil {
		return err
	}

	c.println("Transfer completed")
	return nil
}

func (c *Console) showBalance() error {
	id, err := c.readRequired("Account number: ", "Account number is required")
	if err != nil {
		return err
	}

	view, err := c.bank.GetAccount(id)
	if err != nil {
		return err
	}

	c.printf("Current balance: %s\n", domain.FormatMoney(view.Balance))
	return nil
}

func (c *Console) showHistory() error {
	id, err := c.readRequired("Account number: ", "Account number is required")
	if err != nil {
		return err
	}

	txs, err := c.bank.GetTransactions(id)
	if err != nil {
		return err
	}

	if len(txs) == 0 {
		c.println("No transactions.")
		return nil
	}

	c.printf("=== History of %s ===\n", id)
	for _, tx := range txs {
		c.println(FormatTransaction(tx))
	}

	return nil
}

func (c *Console) showReport() {
	accounts := c.bank.ListAccounts()
	if len(accounts) == 0 {
		c.println("No accounts.")
		return
	}

	c.println("=== Accounts ===")
	for _, a := range accounts {
		c.printf("%s | %s | %s\n", a.ID, a.OwnerName, domain.FormatMoney(a.Balance))
	}

	report := c.bank.Reconcile()
	c.printf("Total balance: %s\n", domain.FormatMoney(report.TotalBalance))
	c.printf("Reconciled: %d/%d\n", report.ReconciledAccounts, report.TotalAccounts)

	for _, d := range report.Discrepancies {
		for _, p := range d.Problems {
			c.printf("Discrepancy %s: %s\n", d.AccountID, p)
		}
	}
}

// FormatTransaction renders one history line.
func FormatTransaction(tx domain.Transaction) string {
	return fmt.Sprintf("%s | %s | amt=%s | before=%s | after=%s | %s",
		tx.OccurredAt.Format(time.RFC3339Nano),
		tx.Kind,
		domain.FormatMoney(tx.Amount),
		domain.FormatMoney(tx.BalanceBefore),
		domain.FormatMoney(tx.BalanceAfter),
		tx.Description,
	)
}

// inputError marks a failure to read from the session input.
type inputError struct{ err error }

func (e inputError) Error() string { return e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

func isInputError(err error) bool {
	var ie inputError
	return errors.As(err, &ie)
}

func (c *Console) finish(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", inputError{err: err}
		}
		return "", inputError{err: io.EOF}
	}

	return strings.TrimSpace(c.scanner.Text()), nil
}

func (c *Console) readRequired(prompt, missing string) (string, error) {
	for {
		input, err := c.readLine(prompt)
		if err != nil {
			return "", err
		}
		if input != "" {
			return input, nil
		}
		c.println(missing)
	}
}

func (c *Console) readAmount(prompt string) (decimal.Decimal, error) {
	return c.readMoney(prompt, domain.NormalizeAmount, "Amount must be greater than 0.", "150.00")
}

// readMoney re-prompts until the input parses and passes normalize.
func (c *Console) readMoney(
	prompt string,
	normalize func(decimal.Decimal) (decimal.Decimal, error),
	outOfRange, example string,
) (decimal.Decimal, error) {
	for {
		input, err := c.readLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}

		value, err := domain.ParseMoney(input)
		if err != nil {
			c.printf("Invalid format. Valid example: %s\n", example)
			continue
		}

		normalized, err := normalize(value)
		if err != nil {
			c.println(outOfRange)
			continue
		}

		return normalized, nil
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
