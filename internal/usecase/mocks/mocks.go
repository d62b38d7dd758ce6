package mocks

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// SequenceIDGenerator returns "tx-1", "tx-2", ... and is safe for concurrent use.
type SequenceIDGenerator struct {
	n atomic.Int64
}

// NewSequenceIDGenerator creates a generator starting at "tx-1".
func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

// Generate returns the next id in the sequence.
func (g *SequenceIDGenerator) Generate() string {
	return fmt.Sprintf("tx-%d", g.n.Add(1))
}

// CountingRecorder tallies Recorder calls. It is safe for concurrent use.
type CountingRecorder struct {
	mu        sync.Mutex
	succeeded map[string]int
	failed    map[string]map[domain.ErrorKind]int
	volume    map[string]decimal.Decimal
}

// NewCountingRecorder creates an empty CountingRecorder.
func NewCountingRecorder() *CountingRecorder {
	return &CountingRecorder{
		succeeded: make(map[string]int),
		failed:    make(map[string]map[domain.ErrorKind]int),
		volume:    make(map[string]decimal.Decimal),
	}
}

func (r *CountingRecorder) Succeeded(op string, amount decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.succeeded[op]++
	r.volume[op] = r.volume[op].Add(amount)
}

func (r *CountingRecorder) Failed(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed[op] == nil {
		r.failed[op] = make(map[domain.ErrorKind]int)
	}
	r.failed[op][domain.KindOf(err)]++
}

// SucceededCount returns how many times op succeeded.
func (r *CountingRecorder) SucceededCount(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.succeeded[op]
}

// FailedCount returns how many times op failed with an error of kind.
func (r *CountingRecorder) FailedCount(op string, kind domain.ErrorKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed[op][kind]
}

// Volume is the sum of amounts reported as succeeded for op.
func (r *CountingRecorder) Volume(op string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume[op]
}
