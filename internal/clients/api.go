// Package clients implements the HTTP client for the Orbital Finances
// backend REST API.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/orbitalfinances/orbital/internal/domain"
	"github.com/orbitalfinances/orbital/pkg/retrier"
)

const defaultRequestTimeout = 15 * time.Second

// API talks to the Orbital backend. Read endpoints are retried with
// backoff; trade and wallet mutations are issued exactly once because
// they are not idempotent.
type API struct {
	baseURL string
	creds   domain.Credentials
	httpc   *http.Client
	retrier *retrier.Retrier
	logger  *zap.Logger
}

// NewAPI creates a client for the backend at baseURL acting as the
// given user. Credentials may be empty for auth calls.
func NewAPI(baseURL string, creds domain.Credentials, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		baseURL: baseURL,
		creds:   creds,
		httpc:   &http.Client{Timeout: defaultRequestTimeout},
		retrier: retrier.New(retrier.WithRetryableFunc(isRetryable)),
		logger:  logger,
	}
}

// WithCredentials returns a copy of the client acting as the given user.
func (a *API) WithCredentials(creds domain.Credentials) *API {
	clone := *a
	clone.creds = creds
	return &clone
}

// isRetryable accepts transport failures and server-side errors;
// client errors (4xx) are final.
func isRetryable(err error) bool {
	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		return backendErr.StatusCode >= http.StatusInternalServerError
	}
	var netErr *domain.NetworkError
	return errors.As(err, &netErr)
}

type errorResponse struct {
	Message string `json:"message"`
}

type confirmationResponse struct {
	Balance *string `json:"balance"`
	Holding *string `json:"holding"`
}

type walletResponse struct {
	Balance *string `json:"balance"`
}

type portfolioItem struct {
	Ticker   string `json:"ticker"`
	Quantity string `json:"quantity"`
}

type stockItem struct {
	Ticker       string `json:"ticker"`
	CompanyName  string `json:"company_name"`
	CurrentPrice string `json:"current_price"`
}

// Deposit requests a wallet deposit and returns the confirmed state.
func (a *API) Deposit(ctx context.Context, amount decimal.Decimal) (domain.Confirmation, error) {
	body := map[string]string{"amount": amount.StringFixed(domain.CurrencyScale)}
	return a.mutate(ctx, "/wallet/deposit", body)
}

// Withdraw requests a wallet withdrawal and returns the confirmed state.
func (a *API) Withdraw(ctx context.Context, amount decimal.Decimal) (domain.Confirmation, error) {
	body := map[string]string{"amount": amount.StringFixed(domain.CurrencyScale)}
	return a.mutate(ctx, "/wallet/withdraw", body)
}

// Buy requests a stock purchase and returns the confirmed state.
func (a *API) Buy(ctx context.Context, ticker string, quantity decimal.Decimal) (domain.Confirmation, error) {
	body := map[string]string{"ticker": ticker, "quantity": quantity.String()}
	return a.mutate(ctx, "/portfolio/buy", body)
}

// Sell requests a stock sale and returns the confirmed state.
func (a *API) Sell(ctx context.Context, ticker string, quantity decimal.Decimal) (domain.Confirmation, error) {
	body := map[string]string{"ticker": ticker, "quantity": quantity.String()}
	return a.mutate(ctx, "/portfolio/sell", body)
}

func (a *API) mutate(ctx context.Context, path string, body any) (domain.Confirmation, error) {
	payload, err := a.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return domain.Confirmation{}, err
	}

	var resp confirmationResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.Confirmation{}, &domain.ConsistencyError{Field: "body", Reason: "is not valid JSON"}
	}
	if resp.Balance == nil {
		return domain.Confirmation{}, &domain.ConsistencyError{Field: "balance", Reason: "is missing"}
	}
	balance, err := decimal.NewFromString(*resp.Balance)
	if err != nil {
		return domain.Confirmation{}, &domain.ConsistencyError{Field: "balance", Reason: "is not a decimal"}
	}

	conf := domain.Confirmation{Balance: balance}
	if resp.Holding != nil {
		holding, err := decimal.NewFromString(*resp.Holding)
		if err != nil {
			return domain.Confirmation{}, &domain.ConsistencyError{Field: "holding", Reason: "is not a decimal"}
		}
		conf.Holding = holding
		conf.HoldingKnown = true
	}
	return conf, nil
}

// Wallet fetches the current confirmed cash balance.
func (a *API) Wallet(ctx context.Context) (decimal.Decimal, error) {
	payload, err := retrier.DoWithData(a.retrier, ctx, func(ctx context.Context) ([]byte, error) {
		return a.do(ctx, http.MethodGet, "/wallet", nil)
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	var resp walletResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "decode wallet response")
	}
	if resp.Balance == nil {
		return decimal.Decimal{}, &domain.ConsistencyError{Field: "balance", Reason: "is missing"}
	}
	balance, err := decimal.NewFromString(*resp.Balance)
	if err != nil {
		return decimal.Decimal{}, &domain.ConsistencyError{Field: "balance", Reason: "is not a decimal"}
	}
	return balance, nil
}

// Portfolio fetches the current confirmed holdings.
func (a *API) Portfolio(ctx context.Context) ([]domain.Holding, error) {
	payload, err := retrier.DoWithData(a.retrier, ctx, func(ctx context.Context) ([]byte, error) {
		return a.do(ctx, http.MethodGet, "/portfolio", nil)
	})
	if err != nil {
		return nil, err
	}

	var items []portfolioItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, errors.Wrap(err, "decode portfolio response")
	}

	holdings := make([]domain.Holding, 0, len(items))
	for _, item := range items {
		qty, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return nil, errors.Wrapf(err, "decode quantity for %s", item.Ticker)
		}
		holdings = append(holdings, domain.Holding{
			UserID:   a.creds.UserID,
			Ticker:   item.Ticker,
			Quantity: qty,
		})
	}
	return holdings, nil
}

// Stocks fetches the full list of tradable instruments with prices.
func (a *API) Stocks(ctx context.Context) ([]domain.Quote, error) {
	payload, err := retrier.DoWithData(a.retrier, ctx, func(ctx context.Context) ([]byte, error) {
		return a.do(ctx, http.MethodGet, "/stocks", nil)
	})
	if err != nil {
		return nil, err
	}

	var items []stockItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, errors.Wrap(err, "decode stocks response")
	}

	now := time.Now()
	quotes := make([]domain.Quote, 0, len(items))
	for _, item := range items {
		price, err := decimal.NewFromString(item.CurrentPrice)
		if err != nil {
			a.logger.Warn("skipping stock with unparseable price",
				zap.String("ticker", item.Ticker),
				zap.String("price", item.CurrentPrice))
			continue
		}
		quotes = append(quotes, domain.Quote{
			Ticker: item.Ticker,
			Name:   item.CompanyName,
			Price:  price,
			AsOf:   now,
		})
	}
	return quotes, nil
}

// do issues a single request and returns the response body on 2xx.
// Transport failures map to NetworkError, non-2xx to BackendError with
// the backend-provided message when present.
func (a *API) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.creds.Token != "" {
		req.Header.Set("Authorization", a.creds.Token)
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp errorResponse
		_ = json.Unmarshal(payload, &errResp)
		a.logger.Debug("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", errResp.Message))
		return nil, &domain.BackendError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	return payload, nil
}
