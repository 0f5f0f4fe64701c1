package quotefeed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalfinances/orbital/internal/domain"
)

type fakeLister struct {
	mu     sync.Mutex
	quotes []domain.Quote
	err    error
	calls  int
}

func (f *fakeLister) Stocks(ctx context.Context) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

type fakeReplacer struct {
	mu       sync.Mutex
	replaced [][]domain.Quote
}

func (f *fakeReplacer) Replace(quotes []domain.Quote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced = append(f.replaced, quotes)
}

func (f *fakeReplacer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.replaced)
}

func TestFeed_RefreshReplacesQuotes(t *testing.T) {
	lister := &fakeLister{quotes: []domain.Quote{
		{Ticker: "AAPL", Name: "Apple Inc.", Price: decimal.RequireFromString("189.30")},
	}}
	store := &fakeReplacer{}

	feed, err := NewFeed(lister, store, time.Second, nil)
	require.NoError(t, err)

	require.NoError(t, feed.Refresh(context.Background()))
	require.Equal(t, 1, store.count())
	assert.Equal(t, "AAPL", store.replaced[0][0].Ticker)
}

func TestFeed_RefreshFailureLeavesStoreUntouched(t *testing.T) {
	lister := &fakeLister{err: errors.New("backend down")}
	store := &fakeReplacer{}

	feed, err := NewFeed(lister, store, time.Second, nil)
	require.NoError(t, err)

	require.Error(t, feed.Refresh(context.Background()))
	assert.Zero(t, store.count())
}

func TestFeed_RunPollsUntilContextEnds(t *testing.T) {
	lister := &fakeLister{quotes: []domain.Quote{{Ticker: "AAPL"}}}
	store := &fakeReplacer{}

	feed, err := NewFeed(lister, store, 5*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	require.Eventually(t, func() bool {
		return store.count() >= 3
	}, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestNewFeed_Validation(t *testing.T) {
	_, err := NewFeed(nil, &fakeReplacer{}, time.Second, nil)
	require.Error(t, err)

	_, err = NewFeed(&fakeLister{}, nil, time.Second, nil)
	require.Error(t, err)
}
