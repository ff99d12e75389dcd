package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/coinfolio"
	"github.com/etnz/coinfolio/renderer"
	"github.com/google/subcommands"
)

// trade is a simulated operation given on the command line as
// "buy:<id>:<quantity>" or "sell:<id>:<quantity>".
type trade struct {
	kind     coinfolio.Kind
	id       string
	quantity coinfolio.Quantity
}

func (t trade) String() string {
	return fmt.Sprintf("%s:%s:%s", strings.ToLower(string(t.kind)), t.id, t.quantity)
}

// parseTrade parses "buy:<id>:<quantity>" or "sell:<id>:<quantity>".
func parseTrade(s string) (trade, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return trade{}, fmt.Errorf("%w: %q is not <buy|sell>:<id>:<quantity>", coinfolio.ErrInvalidArgument, s)
	}
	var t trade
	switch strings.ToLower(parts[0]) {
	case "buy":
		t.kind = coinfolio.KindBuy
	case "sell":
		t.kind = coinfolio.KindSell
	default:
		return trade{}, fmt.Errorf("%w: unknown operation %q in %q", coinfolio.ErrInvalidArgument, parts[0], s)
	}
	t.id = strings.TrimSpace(parts[1])
	if t.id == "" {
		return trade{}, fmt.Errorf("%w: missing asset id in %q", coinfolio.ErrInvalidArgument, s)
	}
	q, err := coinfolio.ParseQuantity(parts[2])
	if err != nil {
		return trade{}, err
	}
	if !q.IsPositive() {
		return trade{}, fmt.Errorf("%w: quantity must be positive in %q", coinfolio.ErrInvalidArgument, s)
	}
	t.quantity = q
	return t, nil
}

// simulation is the result of a simulate run.
type simulation struct {
	Transactions   []coinfolio.Transaction `json:"transactions"`
	Valuation      *coinfolio.Valuation    `json:"valuation"`
	RealizedProfit coinfolio.Money         `json:"realizedProfit"`
	Change24h      *coinfolio.DailyChange  `json:"change24h,omitempty"`
	Errors         []string                `json:"errors,omitempty"`
}

type simulateCmd struct {
	json    bool
	returns bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate trades at the live price" }
func (*simulateCmd) Usage() string {
	return `cfs simulate [-json] [-returns] <buy|sell>:<id>:<quantity>...

  Runs the trades, in order, against an empty ledger at the live price of
  each asset. Then prints the transactions and the value of the holdings.

  A trade that fails (unknown asset, selling more than held, ...) is reported
  and skipped, the following ones are still run.

  With -returns, also prints the change in value of the holdings over the
  last 24h.

Usage Examples:
$ cfs simulate buy:bitcoin:0.5 buy:ethereum:2 sell:bitcoin:0.25
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the result as JSON")
	f.BoolVar(&c.returns, "returns", false, "print the 24h change of the holdings")
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return fail("simulate requires at least one trade")
	}
	// all trades are checked before any request.
	var trades []trade
	var errs []error
	for _, arg := range f.Args() {
		t, err := parseTrade(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		trades = append(trades, t)
	}
	if err := errors.Join(errs...); err != nil {
		return fail("%v", err)
	}

	client := newClient()
	ledger := coinfolio.NewLedger(client)
	res := simulation{}
	for _, t := range trades {
		var err error
		switch t.kind {
		case coinfolio.KindBuy:
			_, err = ledger.Buy(ctx, t.id, t.quantity)
		case coinfolio.KindSell:
			_, err = ledger.Sell(ctx, t.id, t.quantity)
		}
		if err != nil {
			err = fmt.Errorf("%v: %w", t, err)
			errs = append(errs, err)
			res.Errors = append(res.Errors, err.Error())
		}
	}

	v, err := ledger.Valuation(ctx)
	if err != nil {
		return fail("cannot value the holdings: %v", err)
	}
	res.Transactions = ledger.History()
	res.Valuation = v
	res.RealizedProfit = ledger.RealizedProfit()

	if c.returns {
		positions := make(map[string]coinfolio.Quantity)
		var ids []string
		for _, h := range ledger.Holdings() {
			positions[h.AssetID] = h.Quantity
			ids = append(ids, h.AssetID)
		}
		quotes, err := client.Quotes(ctx, ids)
		if err != nil {
			return fail("cannot get the 24h change: %v", err)
		}
		change := coinfolio.Change24h(positions, quotes)
		res.Change24h = &change
	}

	if c.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fail("cannot encode the result: %v", err)
		}
	} else {
		md := renderer.Transactions(res.Transactions) + "\n" + renderer.Valuation(res.Valuation, res.RealizedProfit)
		if res.Change24h != nil {
			md += "\n" + renderer.DailyChange(*res.Change24h)
		}
		printMarkdown(md)
	}

	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
