package services

import (
	"context"
	"log"
	"time"
)

// SweeperService reconciles orphaned ledger entries. Initiation leaves a
// pending transaction behind when the gateway call fails or the customer
// abandons the redirect; the sweeper periodically fails attempts that have
// been pending longer than the configured age.
type SweeperService struct {
	txns     TransactionRepositoryInterface
	interval time.Duration
	maxAge   time.Duration
}

// NewSweeperService creates a new pending-transaction sweeper
func NewSweeperService(txns TransactionRepositoryInterface, interval, maxAge time.Duration) *SweeperService {
	return &SweeperService{txns: txns, interval: interval, maxAge: maxAge}
}

// Start runs the sweep loop until the context is cancelled
func (s *SweeperService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce()
			}
		}
	}()
}

// RunOnce performs a single sweep
func (s *SweeperService) RunOnce() {
	swept, err := s.txns.FailStale(s.maxAge)
	if err != nil {
		log.Printf("sweeper: failed to sweep stale transactions: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("sweeper: marked %d stale pending transactions as failed", swept)
	}
}
