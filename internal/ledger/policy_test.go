package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/orbitalfinances/orbital/internal/domain"
)

func testSnapshot(balance, holding string) Snapshot {
	return Snapshot{
		UserID:  "user-1",
		Ticker:  "AAPL",
		Balance: decimal.RequireFromString(balance),
		Holding: decimal.RequireFromString(holding),
	}
}

func testQuote(price string) domain.Quote {
	return domain.Quote{Ticker: "AAPL", Price: decimal.RequireFromString(price), AsOf: time.Now()}
}

func TestComputeDelta_Deposit(t *testing.T) {
	snap := testSnapshot("100.00", "0")

	delta, err := ComputeDelta(domain.DepositIntent(decimal.RequireFromString("50")), snap, domain.Quote{}, false)
	require.NoError(t, err)
	require.Equal(t, "50", delta.Balance.String())
	require.True(t, delta.Holding.IsZero())
}

func TestComputeDelta_WithdrawWithinBalance(t *testing.T) {
	snap := testSnapshot("100.00", "0")

	delta, err := ComputeDelta(domain.WithdrawIntent(decimal.RequireFromString("40")), snap, domain.Quote{}, false)
	require.NoError(t, err)
	require.Equal(t, "-40", delta.Balance.String())
}

func TestComputeDelta_WithdrawExceedsBalance(t *testing.T) {
	snap := testSnapshot("100.00", "0")

	_, err := ComputeDelta(domain.WithdrawIntent(decimal.RequireFromString("100.01")), snap, domain.Quote{}, false)

	var precondition *domain.PreconditionError
	require.ErrorAs(t, err, &precondition)
	require.Equal(t, domain.RuleInsufficientFunds, precondition.Rule)
}

func TestComputeDelta_WithdrawExactBalanceAllowed(t *testing.T) {
	snap := testSnapshot("100.00", "0")

	delta, err := ComputeDelta(domain.WithdrawIntent(decimal.RequireFromString("100.00")), snap, domain.Quote{}, false)
	require.NoError(t, err)
	require.Equal(t, "-100.00", delta.Balance.StringFixed(2))
}

func TestComputeDelta_NonPositiveAmounts(t *testing.T) {
	snap := testSnapshot("100.00", "10")
	quote := testQuote("10.00")

	cases := []struct {
		name   string
		intent domain.Intent
	}{
		{"zero deposit", domain.DepositIntent(decimal.Zero)},
		{"negative deposit", domain.DepositIntent(decimal.NewFromInt(-5))},
		{"zero withdraw", domain.WithdrawIntent(decimal.Zero)},
		{"zero buy", domain.BuyIntent("AAPL", decimal.Zero)},
		{"negative sell", domain.SellIntent("AAPL", decimal.NewFromInt(-1))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeDelta(tc.intent, snap, quote, true)

			var precondition *domain.PreconditionError
			require.ErrorAs(t, err, &precondition)
			require.Equal(t, domain.RuleNonPositiveAmount, precondition.Rule)
		})
	}
}

func TestComputeDelta_Buy(t *testing.T) {
	snap := testSnapshot("100.00", "0")

	delta, err := ComputeDelta(domain.BuyIntent("AAPL", decimal.NewFromInt(5)), snap, testQuote("10.00"), true)
	require.NoError(t, err)
	require.Equal(t, "-50.00", delta.Balance.StringFixed(2))
	require.Equal(t, "5", delta.Holding.String())
}

func TestComputeDelta_BuyCostExceedsBalance(t *testing.T) {
	snap := testSnapshot("100.00", "0")

	_, err := ComputeDelta(domain.BuyIntent("AAPL", decimal.NewFromInt(11)), snap, testQuote("10.00"), true)

	var precondition *domain.PreconditionError
	require.ErrorAs(t, err, &precondition)
	require.Equal(t, domain.RuleInsufficientFunds, precondition.Rule)
}

func TestComputeDelta_BuyMissingQuote(t *testing.T) {
	snap := testSnapshot("100.00", "0")

	_, err := ComputeDelta(domain.BuyIntent("AAPL", decimal.NewFromInt(1)), snap, domain.Quote{}, false)

	var precondition *domain.PreconditionError
	require.ErrorAs(t, err, &precondition)
	require.Equal(t, domain.RuleMissingQuote, precondition.Rule)
}

func TestComputeDelta_BuyNonPositiveQuotePrice(t *testing.T) {
	snap := testSnapshot("100.00", "0")

	_, err := ComputeDelta(domain.BuyIntent("AAPL", decimal.NewFromInt(1)), snap, testQuote("0"), true)

	var precondition *domain.PreconditionError
	require.ErrorAs(t, err, &precondition)
	require.Equal(t, domain.RuleMissingQuote, precondition.Rule)
}

func TestComputeDelta_Sell(t *testing.T) {
	snap := testSnapshot("100.00", "10")

	delta, err := ComputeDelta(domain.SellIntent("AAPL", decimal.NewFromInt(10)), snap, testQuote("20.00"), true)
	require.NoError(t, err)
	require.Equal(t, "200.00", delta.Balance.StringFixed(2))
	require.Equal(t, "-10", delta.Holding.String())
}

func TestComputeDelta_SellExceedsHolding(t *testing.T) {
	snap := testSnapshot("100.00", "10")

	_, err := ComputeDelta(domain.SellIntent("AAPL", decimal.NewFromInt(11)), snap, testQuote("20.00"), true)

	var precondition *domain.PreconditionError
	require.ErrorAs(t, err, &precondition)
	require.Equal(t, domain.RuleInsufficientShares, precondition.Rule)
}

func TestDelta_ApplyOnTopOfSnapshot(t *testing.T) {
	balances := NewBalanceStore()
	holdings := NewHoldingStore()
	balances.Set("user-1", decimal.RequireFromString("100.00"))
	holdings.Set("user-1", "AAPL", decimal.NewFromInt(2))

	snap := TakeSnapshot(balances, holdings, "user-1", "AAPL")
	delta := Delta{Balance: decimal.NewFromInt(-50), Holding: decimal.NewFromInt(5)}
	delta.Apply(snap, balances, holdings)

	require.Equal(t, "50.00", balances.Get("user-1").StringFixed(2))
	require.Equal(t, "7", holdings.Get("user-1", "AAPL").String())
}
