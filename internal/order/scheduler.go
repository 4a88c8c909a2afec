package order

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
)

const (
	DefaultMinStepDelay = 8 * time.Second
	DefaultMaxStepDelay = 15 * time.Second
)

// SchedulerOptions tune the automatic progression. Zero values fall back to
// the defaults above; Rand may be seeded for deterministic tests.
type SchedulerOptions struct {
	MinStepDelay time.Duration
	MaxStepDelay time.Duration
	Rand         *rand.Rand
}

// Scheduler drives tracked orders one step along the canonical status
// sequence after a randomized delay, simulating kitchen progress. Each
// tracked order holds one cancellable timer; a fire always advances from the
// order's current status, so a manual staff move can never be undone by a
// stale timer.
type Scheduler struct {
	store  *Store
	logger apt.Logger

	minDelay time.Duration
	maxDelay time.Duration

	mu      sync.Mutex
	rng     *rand.Rand
	timers  map[string]*time.Timer
	stopped bool
}

func NewScheduler(store *Store, opts SchedulerOptions, logger apt.Logger) *Scheduler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if opts.MinStepDelay <= 0 {
		opts.MinStepDelay = DefaultMinStepDelay
	}
	if opts.MaxStepDelay < opts.MinStepDelay {
		opts.MaxStepDelay = DefaultMaxStepDelay
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{
		store:    store,
		logger:   logger,
		minDelay: opts.MinStepDelay,
		maxDelay: opts.MaxStepDelay,
		rng:      opts.Rand,
		timers:   make(map[string]*time.Timer),
	}
}

// Track starts automatic progression for the order. Tracking a terminal or
// unknown order is a no-op; tracking an already tracked order resets its
// timer.
func (s *Scheduler) Track(orderID string) error {
	order, err := s.store.Get(orderID)
	if err != nil {
		return err
	}
	if order.Terminal() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return errors.New("scheduler is stopped")
	}

	s.scheduleLocked(orderID)
	return nil
}

// Untrack cancels the pending timer for the order, if any.
func (s *Scheduler) Untrack(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(orderID)
}

// Tracked returns the number of orders with a pending timer.
func (s *Scheduler) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer. The scheduler accepts no new orders
// afterwards; registered as a lifecycle OnStop hook.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id := range s.timers {
		s.cancelLocked(id)
	}
	s.logger.Info("scheduler stopped")
}

// scheduleLocked arms the timer for the order's next step. Caller must hold
// the lock.
func (s *Scheduler) scheduleLocked(orderID string) {
	s.cancelLocked(orderID)

	delay := s.minDelay
	if jitter := s.maxDelay - s.minDelay; jitter > 0 {
		delay += time.Duration(s.rng.Int63n(int64(jitter)))
	}

	s.timers[orderID] = time.AfterFunc(delay, func() {
		s.fire(orderID)
	})
}

// fire advances the order one step and re-arms the timer while the order
// stays non-terminal. A timer that was already past Stop's reach when the
// scheduler shut down must not touch the store.
func (s *Scheduler) fire(orderID string) {
	s.mu.Lock()
	if s.stopped {
		delete(s.timers, orderID)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	advanced := s.advanceOnce(orderID)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers, orderID)
	if advanced && !s.stopped {
		s.scheduleLocked(orderID)
	}
}

// advanceOnce moves the order exactly one step along the canonical sequence,
// based on its status at call time. Stale fires, terminal orders and vanished
// orders are silently discarded; the store never observes a backward move.
// It reports whether the order should stay tracked.
func (s *Scheduler) advanceOnce(orderID string) bool {
	order, err := s.store.Get(orderID)
	if err != nil {
		return false
	}

	next, ok := order.StatusValue().Next()
	if !ok {
		// Terminal or off-path, nothing left to simulate
		return false
	}

	updated, err := s.store.UpdateStatus(orderID, next)
	if err != nil {
		// A concurrent manual move won the race; drop the stale step
		s.logger.Debug("stale automatic transition discarded",
			"order_id", orderID, "target", next.Code())
		return false
	}

	s.logger.Info("order auto-advanced",
		"order_id", orderID, "status", updated.Status)
	return !updated.Terminal()
}

// cancelLocked stops and forgets the order's timer. Caller must hold the
// lock.
func (s *Scheduler) cancelLocked(orderID string) {
	if timer, ok := s.timers[orderID]; ok {
		timer.Stop()
		delete(s.timers, orderID)
	}
}
