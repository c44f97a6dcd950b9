package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"dotfolio/internal/domain/entity"
)

// SchedulerState is the refresh loop's lifecycle state.
type SchedulerState string

const (
	// StateIdle: no active account, nothing polls.
	StateIdle SchedulerState = "idle"
	// StatePolling: an account is active and periodic refresh is armed.
	StatePolling SchedulerState = "polling"
	// StateFetching: a refresh cycle is in flight.
	StateFetching SchedulerState = "fetching"
)

// RefreshService owns the portfolio polling lifecycle for the current
// account. It re-runs the aggregator on a fixed interval and on manual
// request, and guarantees the visible portfolio is always the output of the
// most recently completed cycle for the current identity: results of cycles
// started under an older session are discarded on arrival.
type RefreshService struct {
	aggregator *PortfolioService
	interval   time.Duration
	logger     *zap.Logger

	mu         sync.Mutex
	state      SchedulerState
	address    string
	generation uint64
	portfolio  *entity.Portfolio
	cancelLoop context.CancelFunc
}

// NewRefreshService creates a scheduler in the Idle state.
func NewRefreshService(aggregator *PortfolioService, interval time.Duration, logger *zap.Logger) *RefreshService {
	return &RefreshService{
		aggregator: aggregator,
		interval:   interval,
		logger:     logger.Named("RefreshService"),
		state:      StateIdle,
	}
}

// Start begins polling for the given address. Any previous session is torn
// down first; its in-flight results, if any, will be discarded on arrival.
func (s *RefreshService) Start(address string) {
	s.mu.Lock()
	s.teardownLocked()
	s.generation++
	gen := s.generation
	s.address = address
	s.state = StatePolling
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelLoop = cancel
	s.mu.Unlock()

	s.logger.Info("Polling started", zap.String("address", address))
	go s.loop(ctx, gen, address)
}

// Stop cancels polling and discards the current portfolio. Safe to call in
// any state.
func (s *RefreshService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.logger.Info("Polling stopped")
}

// Refresh requests an immediate cycle. It reports false when the scheduler
// is idle or a cycle is already in flight; an in-flight cycle is allowed to
// complete rather than queueing a concurrent one for the same account.
func (s *RefreshService) Refresh() bool {
	s.mu.Lock()
	if s.state != StatePolling {
		s.mu.Unlock()
		return false
	}
	gen, address := s.generation, s.address
	s.mu.Unlock()

	go s.runCycle(context.Background(), gen, address)
	return true
}

// Current returns the portfolio of the last completed cycle, if any.
func (s *RefreshService) Current() (*entity.Portfolio, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio, s.portfolio != nil
}

// State returns the scheduler state.
func (s *RefreshService) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *RefreshService) loop(ctx context.Context, gen uint64, address string) {
	// First cycle runs immediately; the ticker covers the steady state.
	s.runCycle(ctx, gen, address)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx, gen, address)
		}
	}
}

func (s *RefreshService) runCycle(ctx context.Context, gen uint64, address string) {
	s.mu.Lock()
	if s.generation != gen || s.state != StatePolling {
		// Session changed under us, or a cycle is already in flight.
		s.mu.Unlock()
		return
	}
	s.state = StateFetching
	s.mu.Unlock()

	p := s.aggregator.Aggregate(ctx, address)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		// The session this cycle was started for is gone; nothing may land
		// after a disconnect or account switch.
		s.logger.Debug("Discarding stale cycle result", zap.String("address", address))
		return
	}
	s.portfolio = p
	s.state = StatePolling
}

// teardownLocked cancels the loop and clears session-owned state. Callers
// hold s.mu.
func (s *RefreshService) teardownLocked() {
	if s.cancelLoop != nil {
		s.cancelLoop()
		s.cancelLoop = nil
	}
	s.generation++
	s.state = StateIdle
	s.address = ""
	s.portfolio = nil
}
