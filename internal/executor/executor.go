// Package executor serializes and reconciles optimistic ledger
// operations for a single user.
//
// Every intent walks the same path: validate preconditions against a
// snapshot of the stores, apply the tentative delta, dispatch the
// request to the backend, then either overwrite local state with the
// authoritative response (commit) or restore the snapshot (rollback).
// One worker goroutine drains a bounded queue, so no two operations
// ever apply deltas against the same pre-operation snapshot.
package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/orbitalfinances/orbital/internal/domain"
	"github.com/orbitalfinances/orbital/internal/ledger"
	"github.com/orbitalfinances/orbital/internal/notification"
)

const (
	defaultQueueCapacity    = 16
	defaultOperationTimeout = 30 * time.Second
)

// ErrClosed is returned by Submit after the executor has been closed.
var ErrClosed = errors.New("executor is closed")

// backend issues ledger mutations against the Orbital API and returns
// the authoritative post-operation state.
type backend interface {
	Deposit(ctx context.Context, amount decimal.Decimal) (domain.Confirmation, error)
	Withdraw(ctx context.Context, amount decimal.Decimal) (domain.Confirmation, error)
	Buy(ctx context.Context, ticker string, quantity decimal.Decimal) (domain.Confirmation, error)
	Sell(ctx context.Context, ticker string, quantity decimal.Decimal) (domain.Confirmation, error)
}

// journal records committed operations.
type journal interface {
	Save(receipt domain.Receipt) error
}

// Operation states, exposed for observability.
const (
	StateIdle = iota
	StateApplying
	StateAwaitingServer
)

type task struct {
	// ctx is the submitting context. It gates notification delivery
	// only; backend calls run on the executor's own context so a torn
	// down caller never leaves the stores unreconciled.
	ctx    context.Context
	intent domain.Intent
	result chan domain.Outcome
}

// Executor applies optimistic mutations for one user and reconciles
// them with the backend. Intents submitted while one is in flight are
// queued; a full queue yields ErrBusy.
type Executor struct {
	creds    domain.Credentials
	backend  backend
	quotes   *ledger.QuoteStore
	balances *ledger.BalanceStore
	holdings *ledger.HoldingStore
	journal  journal
	notifier notification.Notifier
	logger   *zap.Logger

	opTimeout time.Duration
	state     atomic.Int32

	queue   chan task
	quit    chan struct{}
	stopped chan struct{}

	mu     sync.RWMutex
	closed bool
}

// Option configures the Executor.
type Option func(*Executor)

// WithJournal records committed operations in the given journal.
func WithJournal(j journal) Option {
	return func(e *Executor) {
		e.journal = j
	}
}

// WithNotifier reports outcomes to the given notifier.
func WithNotifier(n notification.Notifier) Option {
	return func(e *Executor) {
		e.notifier = n
	}
}

// WithQueueCapacity bounds the number of queued intents.
func WithQueueCapacity(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.queue = make(chan task, n)
		}
	}
}

// WithOperationTimeout bounds the time a single backend call may take.
func WithOperationTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.opTimeout = d
		}
	}
}

// NewExecutor creates an executor for the given user and starts its
// worker goroutine. Close must be called to release it.
func NewExecutor(creds domain.Credentials, api backend, quotes *ledger.QuoteStore,
	balances *ledger.BalanceStore, holdings *ledger.HoldingStore, logger *zap.Logger, opts ...Option) (*Executor, error) {

	if api == nil {
		return nil, errors.New("backend is required")
	}
	if quotes == nil || balances == nil || holdings == nil {
		return nil, errors.New("quote, balance and holding stores are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Executor{
		creds:     creds,
		backend:   api,
		quotes:    quotes,
		balances:  balances,
		holdings:  holdings,
		notifier:  notification.NopNotifier{},
		logger:    logger.With(zap.String("user_id", creds.UserID)),
		opTimeout: defaultOperationTimeout,
		queue:     make(chan task, defaultQueueCapacity),
		quit:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	go e.run()
	return e, nil
}

// State returns the current operation state for observability.
func (e *Executor) State() int32 {
	return e.state.Load()
}

// Submit queues an intent and returns a channel that delivers its
// terminal outcome. It returns ErrBusy when the queue is full and
// ErrClosed after Close. The context gates only caller-facing
// notification; the operation always resolves against the stores.
func (e *Executor) Submit(ctx context.Context, intent domain.Intent) (<-chan domain.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}

	t := task{ctx: ctx, intent: intent, result: make(chan domain.Outcome, 1)}
	select {
	case e.queue <- t:
		return t.result, nil
	default:
		return nil, domain.ErrBusy
	}
}

// Execute submits an intent and waits for its outcome. When ctx ends
// first, the operation still resolves in the background and only the
// wait is abandoned.
func (e *Executor) Execute(ctx context.Context, intent domain.Intent) (domain.Outcome, error) {
	result, err := e.Submit(ctx, intent)
	if err != nil {
		return domain.Outcome{}, err
	}

	select {
	case outcome := <-result:
		return outcome, nil
	case <-ctx.Done():
		return domain.Outcome{}, ctx.Err()
	}
}

// Close stops the worker after the in-flight operation resolves.
// Queued but unstarted intents are rejected with ErrClosed.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	close(e.quit)
	<-e.stopped
}

func (e *Executor) run() {
	defer close(e.stopped)

	for {
		// quit wins over a backlog: intents still queued when Close
		// begins are rejected, never started
		select {
		case <-e.quit:
			e.drain()
			return
		default:
		}

		select {
		case <-e.quit:
			e.drain()
			return
		case t := <-e.queue:
			e.process(t)
		}
	}
}

func (e *Executor) drain() {
	for {
		select {
		case t := <-e.queue:
			t.result <- domain.Outcome{
				Intent:     t.intent,
				Status:     domain.StatusRejected,
				Err:        ErrClosed,
				ResolvedAt: time.Now(),
			}
		default:
			return
		}
	}
}

// process runs one intent through the full state machine. It always
// delivers exactly one outcome and leaves the stores on a consistent
// snapshot: the server-confirmed state on commit, the pre-operation
// state otherwise.
func (e *Executor) process(t task) {
	e.state.Store(StateApplying)
	defer e.state.Store(StateIdle)

	opID := uuid.NewString()
	logger := e.logger.With(zap.String("operation_id", opID), zap.String("intent", t.intent.String()))

	if !e.creds.Present() {
		e.resolve(t, logger, domain.Outcome{
			OperationID: opID,
			Intent:      t.intent,
			Status:      domain.StatusRejected,
			Err:         domain.NewPreconditionError(domain.RuleNotAuthenticated, "no credentials"),
			ResolvedAt:  time.Now(),
		})
		return
	}

	snap := ledger.TakeSnapshot(e.balances, e.holdings, e.creds.UserID, t.intent.Ticker)

	var quote domain.Quote
	quoteKnown := false
	if t.intent.Ticker != "" {
		quote, quoteKnown = e.quotes.Get(t.intent.Ticker)
	}

	delta, err := ledger.ComputeDelta(t.intent, snap, quote, quoteKnown)
	if err != nil {
		e.resolve(t, logger, domain.Outcome{
			OperationID: opID,
			Intent:      t.intent,
			Status:      domain.StatusRejected,
			Err:         err,
			ResolvedAt:  time.Now(),
		})
		return
	}

	// optimistic write
	delta.Apply(snap, e.balances, e.holdings)
	logger.Debug("optimistic delta applied",
		zap.String("balance_delta", delta.Balance.String()),
		zap.String("holding_delta", delta.Holding.String()))

	e.state.Store(StateAwaitingServer)

	opCtx, cancel := context.WithTimeout(context.Background(), e.opTimeout)
	conf, err := e.dispatch(opCtx, t.intent)
	cancel()

	if err == nil && t.intent.Ticker != "" && !conf.HoldingKnown {
		err = &domain.ConsistencyError{Field: "holding", Reason: "is missing"}
	}

	if err != nil {
		snap.Restore(e.balances, e.holdings)
		logger.Warn("operation rolled back", zap.Error(err))
		e.resolve(t, logger, domain.Outcome{
			OperationID: opID,
			Intent:      t.intent,
			Status:      domain.StatusRolledBack,
			Err:         err,
			ResolvedAt:  time.Now(),
		})
		return
	}

	// overwrite with authoritative values, not the optimistic delta
	e.balances.Set(e.creds.UserID, conf.Balance)
	if t.intent.Ticker != "" {
		e.holdings.Set(e.creds.UserID, t.intent.Ticker, conf.Holding)
	}

	outcome := domain.Outcome{
		OperationID: opID,
		Intent:      t.intent,
		Status:      domain.StatusCommitted,
		Balance:     conf.Balance,
		Holding:     conf.Holding,
		ResolvedAt:  time.Now(),
	}

	e.record(logger, outcome, snap)
	e.resolve(t, logger, outcome)
}

func (e *Executor) dispatch(ctx context.Context, intent domain.Intent) (domain.Confirmation, error) {
	switch intent.Kind {
	case domain.KindDeposit:
		return e.backend.Deposit(ctx, intent.Amount)
	case domain.KindWithdraw:
		return e.backend.Withdraw(ctx, intent.Amount)
	case domain.KindBuy:
		return e.backend.Buy(ctx, intent.Ticker, intent.Quantity)
	case domain.KindSell:
		return e.backend.Sell(ctx, intent.Ticker, intent.Quantity)
	default:
		return domain.Confirmation{}, errors.Errorf("unknown operation kind %s", intent.Kind)
	}
}

// record journals a committed operation. Journalling is best effort:
// a write failure is logged, never surfaced as an operation failure.
func (e *Executor) record(logger *zap.Logger, outcome domain.Outcome, snap ledger.Snapshot) {
	if e.journal == nil {
		return
	}

	receipt := domain.Receipt{
		OperationID:  outcome.OperationID,
		UserID:       e.creds.UserID,
		Kind:         outcome.Intent.Kind.String(),
		Ticker:       outcome.Intent.Ticker,
		BalanceAfter: outcome.Balance.StringFixed(domain.CurrencyScale),
		ResolvedAt:   outcome.ResolvedAt,
	}
	switch outcome.Intent.Kind {
	case domain.KindDeposit, domain.KindWithdraw:
		receipt.Amount = outcome.Intent.Amount.StringFixed(domain.CurrencyScale)
	default:
		receipt.Quantity = outcome.Intent.Quantity.String()
		// trade value as confirmed by the server
		receipt.Amount = outcome.Balance.Sub(snap.Balance).Abs().StringFixed(domain.CurrencyScale)
	}

	if err := e.journal.Save(receipt); err != nil {
		logger.Error("failed to journal receipt", zap.Error(err))
	}
}

// resolve delivers the outcome to the caller and, unless the
// submitting context is already gone, to the notifier. Store state is
// final before this point, so a torn down view only suppresses the
// user-facing notification.
func (e *Executor) resolve(t task, logger *zap.Logger, outcome domain.Outcome) {
	t.result <- outcome

	if t.ctx.Err() != nil {
		logger.Debug("caller gone, suppressing notification",
			zap.String("status", outcome.Status.String()))
		return
	}
	e.notifier.OperationResolved(outcome)
}
