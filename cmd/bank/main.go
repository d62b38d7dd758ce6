package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/adapter/console"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/idgen"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/usecase"
)

// loadConfig is swapped in tests.
var loadConfig = config.Load

type options struct {
	logLevel    string
	logFormat   string
	dumpMetrics bool
}

// app is the wired ledger shared by all subcommands.
type app struct {
	ledger  *usecase.Ledger
	metrics *metrics.Metrics
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opts options
		a    *app
	)

	rootCmd := &cobra.Command{
		Use:           "bank",
		Short:         "In-memory bank ledger",
		Long:          `An in-memory bank ledger with an interactive console and a scripted demo.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = opts.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = opts.logFormat
			}

			a, err = newApp(cfg, cmd.ErrOrStderr())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.dumpMetrics || a == nil || a.metrics == nil {
				return nil
			}
			return a.metrics.WriteText(cmd.OutOrStdout())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "Log format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&opts.dumpMetrics, "dump-metrics", false, "Print metrics in Prometheus text format on exit")

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.New(a.ledger, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Create two accounts, transfer between them and print balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(a.ledger, cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(consoleCmd, demoCmd)

	return rootCmd
}

func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, logOut)

	ledgerCfg := usecase.Config{
		IDGenerator: idgen.NewULIDGenerator(),
		Logger:      &log,
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		ledgerCfg.Recorder = m
	}

	a := &app{
		ledger:  usecase.NewLedger(ledgerCfg),
		metrics: m,
	}

	if m != nil {
		if err := m.TrackTotalBalance(a.ledger.TotalBalance); err != nil {
			return nil, err
		}
	}

	if cfg.SeedDemoAccounts {
		if err := seedDemoAccounts(a.ledger); err != nil {
			return nil, fmt.Errorf("failed to seed demo accounts: %w", err)
		}
		log.Info().Msg("demo accounts seeded")
	}

	return a, nil
}

func seedDemoAccounts(l *usecase.Ledger) error {
	if _, err := l.CreateAccount("001", "Mauricio", decimal.RequireFromString("1000.00")); err != nil {
		return err
	}
	if _, err := l.CreateAccount("002", "Cliente", decimal.RequireFromString("250.00")); err != nil {
		return err
	}
	return nil
}

func runDemo(l *usecase.Ledger, out io.Writer) error {
	if _, err := l.GetAccount("001"); errors.Is(err, domain.ErrAccountNotFound) {
		if err := seedDemoAccounts(l); err != nil {
			return err
		}
	}

	if _, err := l.Transfer("001", "002", decimal.RequireFromString("150.00")); err != nil {
		return err
	}

	for _, id := range []string{"001", "002"} {
		view, err := l.GetAccount(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Balance %s: %s\n", id, domain.FormatMoney(view.Balance))
	}

	return nil
}
