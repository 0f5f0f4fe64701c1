// Package ledger holds the client-side copies of wallet and portfolio
// state plus the reconciliation policy applied to them. The backend is
// the source of truth; these stores are caches written only by the
// executor and overwritten with authoritative values on every commit.
package ledger

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/orbitalfinances/orbital/internal/domain"
)

// QuoteStore thread-safe read-mostly store of last known prices.
// The ledger never mutates it; the quote feed replaces its contents
// wholesale on refresh.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]domain.Quote
}

// NewQuoteStore creates an empty QuoteStore.
func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]domain.Quote)}
}

// Get returns the quote for a ticker, if known.
func (s *QuoteStore) Get(ticker string) (domain.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[ticker]
	return q, ok
}

// All returns every known quote.
func (s *QuoteStore) All() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	return out
}

// Replace swaps the full quote set for a freshly fetched one.
func (s *QuoteStore) Replace(quotes []domain.Quote) {
	next := make(map[string]domain.Quote, len(quotes))
	for _, q := range quotes {
		next[q.Ticker] = q
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = next
}

// BalanceStore thread-safe store of cash balances keyed by user.
type BalanceStore struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

// NewBalanceStore creates an empty BalanceStore.
func NewBalanceStore() *BalanceStore {
	return &BalanceStore{balances: make(map[string]decimal.Decimal)}
}

// Get returns the cached balance for a user, zero if never set.
func (s *BalanceStore) Get(userID string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[userID]
}

// Set overwrites the cached balance for a user.
func (s *BalanceStore) Set(userID string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[userID] = amount
}

// HoldingStore thread-safe store of share quantities keyed by user and ticker.
type HoldingStore struct {
	mu       sync.RWMutex
	holdings map[string]map[string]decimal.Decimal
}

// NewHoldingStore creates an empty HoldingStore.
func NewHoldingStore() *HoldingStore {
	return &HoldingStore{holdings: make(map[string]map[string]decimal.Decimal)}
}

// Get returns the cached quantity a user owns of a ticker, zero if never set.
func (s *HoldingStore) Get(userID, ticker string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holdings[userID][ticker]
}

// Set overwrites the cached quantity a user owns of a ticker.
func (s *HoldingStore) Set(userID, ticker string, quantity decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byTicker, ok := s.holdings[userID]
	if !ok {
		byTicker = make(map[string]decimal.Decimal)
		s.holdings[userID] = byTicker
	}
	byTicker[ticker] = quantity
}

// ByUser returns all holdings of a user.
func (s *HoldingStore) ByUser(userID string) []domain.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Holding, 0, len(s.holdings[userID]))
	for ticker, qty := range s.holdings[userID] {
		out = append(out, domain.Holding{UserID: userID, Ticker: ticker, Quantity: qty})
	}
	return out
}

// Snapshot pre-operation values retained for rollback. Restoring a
// snapshot puts both stores back to exactly these decimals.
type Snapshot struct {
	UserID  string
	Ticker  string
	Balance decimal.Decimal
	Holding decimal.Decimal
}

// TakeSnapshot captures the current balance and, when ticker is set,
// the current holding quantity for it.
func TakeSnapshot(balances *BalanceStore, holdings *HoldingStore, userID, ticker string) Snapshot {
	snap := Snapshot{
		UserID:  userID,
		Ticker:  ticker,
		Balance: balances.Get(userID),
	}
	if ticker != "" {
		snap.Holding = holdings.Get(userID, ticker)
	}
	return snap
}

// Restore writes the snapshot values back to the stores.
func (s Snapshot) Restore(balances *BalanceStore, holdings *HoldingStore) {
	balances.Set(s.UserID, s.Balance)
	if s.Ticker != "" {
		holdings.Set(s.UserID, s.Ticker, s.Holding)
	}
}
