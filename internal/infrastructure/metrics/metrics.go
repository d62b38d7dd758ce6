package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// Metrics holds all Prometheus metrics. It implements usecase.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	// Account metrics
	AccountsCreated prometheus.Counter

	// Operation metrics
	Operations      *prometheus.CounterVec
	OperationErrors *prometheus.CounterVec
	OperationAmount *prometheus.HistogramVec

	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransferVolume   prometheus.Counter
}

var _ usecase.Recorder = (*Metrics)(nil)

// New creates all metrics and registers them on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_operations_total",
				Help: "Total successful ledger operations by type",
			},
			[]string{"operation"},
		),
		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_operation_errors_total",
				Help: "Total rejected ledger operations by type and error kind",
			},
			[]string{"operation", "error_type"},
		),
		OperationAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_operation_amount",
				Help:    "Normalized amounts of successful operations",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),

		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_transfers_created_total",
			Help: "Total number of transfers executed",
		}),
		TransferVolume: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_transfer_volume_total",
			Help: "Sum of all transferred amounts",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Succeeded implements usecase.Recorder.
func (m *Metrics) Succeeded(op string, amount decimal.Decimal) {
	m.Operations.WithLabelValues(op).Inc()
	m.OperationAmount.WithLabelValues(op).Observe(amount.InexactFloat64())

	switch op {
	case usecase.OpCreateAccount:
		m.AccountsCreated.Inc()
	case usecase.OpTransfer:
		m.TransfersCreated.Inc()
		m.TransferVolume.Add(amount.InexactFloat64())
	}
}

// Failed implements usecase.Recorder.
func (m *Metrics) Failed(op string, err error) {
	m.OperationErrors.WithLabelValues(op, string(domain.KindOf(err))).Inc()
}

// TrackTotalBalance registers a gauge reporting fn on every scrape.
func (m *Metrics) TrackTotalBalance(fn func() decimal.Decimal) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "bankledger_total_balance",
		Help: "Sum of all account balances",
	}, func() float64 {
		return fn().InexactFloat64()
	})

	if err := m.registry.Register(gauge); err != nil {
		return fmt.Errorf("register total balance gauge: %w", err)
	}

	return nil
}

// WriteText writes every registered metric in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}

	return nil
}
