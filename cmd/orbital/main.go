// Command orbital is the terminal client for the Orbital Finances
// backend: wallet deposits and withdrawals, stock trading with
// optimistic local state, transaction history and a local dashboard.
//
// Usage:
//
//	orbital setup
//	orbital <command> [args] [--config config.yaml]
//
// Commands: register <name>, deposit <amount>, withdraw <amount>,
// buy <ticker> <qty>, sell <ticker> <qty>, wallet, portfolio, stocks,
// receipts, dashboard, admin <users|approve|reject|update>.
//
// Required environment variables: ORBITAL_EMAIL, ORBITAL_PASSWORD.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/orbitalfinances/orbital/config"
	"github.com/orbitalfinances/orbital/internal"
	"github.com/orbitalfinances/orbital/internal/domain"
	"github.com/orbitalfinances/orbital/internal/setup"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if command == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	// positional arguments come before flags
	var positional []string
	for len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		positional = append(positional, args[0])
		args = args[1:]
	}

	cfg, err := config.Get(args)
	if err != nil {
		log.Fatal(err)
	}

	creds, err := config.GetCredentials()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := internal.NewApp(cfg, logger)

	// registration happens before any login exists
	if command == "register" {
		if len(positional) != 1 {
			log.Fatal("usage: orbital register <name>")
		}
		registered, err := app.Register(ctx, positional[0], creds.Email, creds.Password)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("account %s created for %s; ask an administrator to approve trading\n",
			registered.UserID, creds.Email)
		return
	}

	if err := app.Login(ctx, creds.Email, creds.Password); err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	// admin commands act on backend records, not on this user's ledger
	if command != "admin" {
		if err := app.Bootstrap(ctx); err != nil {
			log.Fatal(err)
		}
	}

	if err := run(ctx, app, command, positional); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, app *internal.App, command string, args []string) error {
	switch command {
	case "dashboard":
		return app.Run(ctx)

	case "deposit", "withdraw":
		if len(args) != 1 {
			return fmt.Errorf("usage: orbital %s <amount>", command)
		}
		amount, err := domain.ParseAmount(args[0])
		if err != nil {
			return err
		}
		intent := domain.DepositIntent(amount)
		if command == "withdraw" {
			intent = domain.WithdrawIntent(amount)
		}
		return execute(ctx, app, intent)

	case "buy", "sell":
		if len(args) != 2 {
			return fmt.Errorf("usage: orbital %s <ticker> <quantity>", command)
		}
		ticker := strings.ToUpper(args[0])
		qty, err := domain.ParseQuantity(args[1])
		if err != nil {
			return err
		}
		intent := domain.BuyIntent(ticker, qty)
		if command == "sell" {
			intent = domain.SellIntent(ticker, qty)
		}
		return execute(ctx, app, intent)

	case "wallet":
		balance := app.Balances.Get(app.Creds.UserID)
		fmt.Printf("balance: %s\n", balance.StringFixed(domain.CurrencyScale))
		return nil

	case "portfolio":
		holdings := app.Holdings.ByUser(app.Creds.UserID)
		if len(holdings) == 0 {
			fmt.Println("portfolio is empty")
			return nil
		}
		for _, holding := range holdings {
			fmt.Printf("%-8s %s shares\n", holding.Ticker, holding.Quantity.String())
		}
		return nil

	case "stocks":
		for _, quote := range app.Quotes.All() {
			fmt.Printf("%-8s %-30s %s\n", quote.Ticker, quote.Name,
				quote.Price.StringFixed(domain.CurrencyScale))
		}
		return nil

	case "receipts":
		records, err := app.Receipts.RecordsAfter(0)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no receipts yet")
			return nil
		}
		for _, record := range records {
			receipt := record.Receipt
			fmt.Printf("%s  %-8s %-8s qty=%-6s amount=%-10s balance=%s\n",
				receipt.ResolvedAt.Format("2006-01-02 15:04:05"),
				receipt.Kind, orDash(receipt.Ticker), orDash(receipt.Quantity),
				orDash(receipt.Amount), receipt.BalanceAfter)
		}
		return nil

	case "admin":
		return admin(ctx, app, args)

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func admin(ctx context.Context, app *internal.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: orbital admin users|approve|reject|update")
	}

	switch args[0] {
	case "users":
		users, err := app.API.Users(ctx)
		if err != nil {
			return err
		}
		for _, user := range users {
			status := "pending"
			if user.Approved {
				status = "approved"
			}
			fmt.Printf("%-36s %-10s %-8s %-20s %s\n", user.ID, status, user.Role, user.Name, user.Email)
		}
		return nil

	case "approve", "reject":
		if len(args) != 2 {
			return fmt.Errorf("usage: orbital admin %s <user-id>", args[0])
		}
		if args[0] == "approve" {
			if err := app.API.ApproveTrader(ctx, args[1]); err != nil {
				return err
			}
			fmt.Printf("trader %s approved\n", args[1])
			return nil
		}
		if err := app.API.RejectTrader(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("trader %s rejected\n", args[1])
		return nil

	case "update":
		if len(args) < 3 {
			return fmt.Errorf("usage: orbital admin update <user-id> <field>=<value> ...")
		}
		fields := make(map[string]string, len(args)-2)
		for _, pair := range args[2:] {
			key, value, ok := strings.Cut(pair, "=")
			if !ok || key == "" {
				return fmt.Errorf("malformed field %q, want <field>=<value>", pair)
			}
			fields[key] = value
		}
		if err := app.API.UpdateUser(ctx, args[1], fields); err != nil {
			return err
		}
		fmt.Printf("user %s updated\n", args[1])
		return nil

	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

func execute(ctx context.Context, app *internal.App, intent domain.Intent) error {
	outcome, err := app.Execute(ctx, intent)
	if err != nil {
		return err
	}

	if outcome.Committed() {
		fmt.Printf("%s: committed, balance %s\n", intent, outcome.Balance.StringFixed(domain.CurrencyScale))
		return nil
	}
	return fmt.Errorf("%s: %s: %v", intent, outcome.Status, outcome.Err)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: orbital <command> [args] [flags]

commands:
  setup                      interactive configuration wizard
  register <name>            create an account for ORBITAL_EMAIL
  deposit <amount>           deposit cash into the wallet
  withdraw <amount>          withdraw cash from the wallet
  buy <ticker> <quantity>    buy shares at the current quote
  sell <ticker> <quantity>   sell shares at the current quote
  wallet                     show the confirmed cash balance
  portfolio                  show confirmed holdings
  stocks                     list tradable stocks with prices
  receipts                   print the local transaction journal
  dashboard                  serve the local web dashboard
  admin users                list backend accounts (admin only)
  admin approve <user-id>    approve a pending trader (admin only)
  admin reject <user-id>     reject a pending trader (admin only)
  admin update <user-id> <field>=<value> ...
                             edit a user record (admin only)`)
}
