package internal

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/orbitalfinances/orbital/config"
	"github.com/orbitalfinances/orbital/internal/clients"
	"github.com/orbitalfinances/orbital/internal/domain"
	"github.com/orbitalfinances/orbital/internal/executor"
	"github.com/orbitalfinances/orbital/internal/ledger"
	"github.com/orbitalfinances/orbital/internal/notification"
	"github.com/orbitalfinances/orbital/internal/services/quotefeed"
	"github.com/orbitalfinances/orbital/internal/storage/receipts"
	"github.com/orbitalfinances/orbital/internal/web"
)

// App wires the API client, the local ledger stores, the optimistic
// executor, the quote feed and the dashboard into a single client
// instance bound to one logged-in user.
type App struct {
	Config   config.Config
	Creds    domain.Credentials
	API      *clients.API
	Quotes   *ledger.QuoteStore
	Balances *ledger.BalanceStore
	Holdings *ledger.HoldingStore
	Executor *executor.Executor
	Feed     *quotefeed.Feed
	Receipts *receipts.WALStore
	Web      *web.Server

	logger *zap.Logger
}

// NewApp creates an unauthenticated app. Login must be called before
// operations can be executed.
func NewApp(cfg config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		Config:   cfg,
		API:      clients.NewAPI(cfg.APIURL, domain.Credentials{}, logger),
		Quotes:   ledger.NewQuoteStore(),
		Balances: ledger.NewBalanceStore(),
		Holdings: ledger.NewHoldingStore(),
		logger:   logger,
	}
}

// Register creates a backend account. New accounts cannot trade until
// an administrator approves them.
func (a *App) Register(ctx context.Context, name, email, password string) (domain.Credentials, error) {
	creds, err := a.API.Register(ctx, name, email, password)
	if err != nil {
		return domain.Credentials{}, errors.Wrap(err, "register")
	}
	a.logger.Info("account registered", zap.String("user_id", creds.UserID))
	return creds, nil
}

// Login authenticates against the backend and assembles the per-user
// components: authenticated API client, receipts journal, executor,
// quote feed and dashboard server.
func (a *App) Login(ctx context.Context, email, password string) error {
	creds, err := a.API.Login(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "login")
	}

	a.Creds = creds
	a.API = a.API.WithCredentials(creds)
	a.logger.Info("logged in", zap.String("user_id", creds.UserID))

	journal, err := receipts.NewWALStore(a.Config.WalDir)
	if err != nil {
		return errors.Wrap(err, "open receipts journal")
	}
	a.Receipts = journal

	exec, err := executor.NewExecutor(creds, a.API, a.Quotes, a.Balances, a.Holdings, a.logger,
		executor.WithJournal(journal),
		executor.WithNotifier(notification.NewLogNotifier(a.logger)),
		executor.WithQueueCapacity(a.Config.QueueCapacity),
		executor.WithOperationTimeout(a.Config.OperationTimeout),
	)
	if err != nil {
		return errors.Wrap(err, "create executor")
	}
	a.Executor = exec

	feed, err := quotefeed.NewFeed(a.API, a.Quotes, a.Config.PollQuoteInterval, a.logger)
	if err != nil {
		return errors.Wrap(err, "create quote feed")
	}
	a.Feed = feed

	a.Web = web.NewServer(a.Config.DashboardAddr, journal)
	return nil
}

// Bootstrap seeds the local stores with server-confirmed state: the
// wallet balance, the portfolio and the stock listing.
func (a *App) Bootstrap(ctx context.Context) error {
	if !a.Creds.Present() {
		return errors.New("not logged in")
	}

	balance, err := a.API.Wallet(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch wallet")
	}
	a.Balances.Set(a.Creds.UserID, balance)

	holdings, err := a.API.Portfolio(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch portfolio")
	}
	for _, holding := range holdings {
		a.Holdings.Set(holding.UserID, holding.Ticker, holding.Quantity)
	}

	if err := a.Feed.Refresh(ctx); err != nil {
		return err
	}

	a.logger.Info("ledger bootstrapped",
		zap.String("balance", balance.StringFixed(domain.CurrencyScale)),
		zap.Int("holdings", len(holdings)))
	return nil
}

// Run serves the quote feed and the dashboard until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a.Feed == nil || a.Web == nil {
		return errors.New("not logged in")
	}

	feedErr := make(chan error, 1)
	go func() {
		feedErr <- a.Feed.Run(ctx)
	}()

	a.logger.Info("dashboard listening", zap.String("addr", a.Config.DashboardAddr))
	if err := a.Web.Start(ctx); err != nil {
		return errors.Wrap(err, "dashboard server")
	}
	return <-feedErr
}

// Execute runs a single intent through the executor.
func (a *App) Execute(ctx context.Context, intent domain.Intent) (domain.Outcome, error) {
	if a.Executor == nil {
		return domain.Outcome{}, errors.New("not logged in")
	}
	return a.Executor.Execute(ctx, intent)
}

// Close releases the executor and the journal.
func (a *App) Close() {
	if a.Executor != nil {
		a.Executor.Close()
	}
	if a.Receipts != nil {
		if err := a.Receipts.Close(); err != nil {
			a.logger.Warn("failed to close receipts journal", zap.Error(err))
		}
	}
}
