// Package quotefeed keeps the local quote store fresh by polling the
// backend stock listing.
package quotefeed

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/orbitalfinances/orbital/internal/domain"
)

const defaultPollInterval = 30 * time.Second

type stockLister interface {
	Stocks(ctx context.Context) ([]domain.Quote, error)
}

type quoteReplacer interface {
	Replace(quotes []domain.Quote)
}

// Feed polls the backend and replaces the quote store contents
// wholesale. The ledger never writes quotes; on a refresh failure the
// last good set keeps serving.
type Feed struct {
	api      stockLister
	store    quoteReplacer
	interval time.Duration
	logger   *zap.Logger
}

// NewFeed creates a quote feed. A non-positive interval falls back to
// the default.
func NewFeed(api stockLister, store quoteReplacer, interval time.Duration, logger *zap.Logger) (*Feed, error) {
	if api == nil {
		return nil, errors.New("stock lister is required")
	}
	if store == nil {
		return nil, errors.New("quote store is required")
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{api: api, store: store, interval: interval, logger: logger}, nil
}

// Refresh fetches the stock listing once and swaps it into the store.
func (f *Feed) Refresh(ctx context.Context) error {
	quotes, err := f.api.Stocks(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch stock listing")
	}

	f.store.Replace(quotes)
	f.logger.Debug("quotes refreshed", zap.Int("count", len(quotes)))
	return nil
}

// Run refreshes quotes on the configured interval until ctx ends.
// Refresh failures are logged and the loop continues.
func (f *Feed) Run(ctx context.Context) error {
	if err := f.Refresh(ctx); err != nil {
		f.logger.Warn("initial quote refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("quote feed stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := f.Refresh(ctx); err != nil {
				f.logger.Warn("quote refresh failed, keeping last known quotes", zap.Error(err))
			}
		}
	}
}
