package cmd

import (
	"context"
	"flag"

	"github.com/etnz/coinfolio/renderer"
	"github.com/google/subcommands"
)

type priceCmd struct{}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "show the current price of assets" }
func (*priceCmd) Usage() string {
	return `cfs price <id>...

  Shows the current price of assets, fetched in a single request. Unknown
  assets are printed as n/a.
`
}

func (*priceCmd) SetFlags(f *flag.FlagSet) {}

func (*priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ids := f.Args()
	if len(ids) == 0 {
		return fail("price requires at least one asset id")
	}
	prices, err := newClient().CurrentPrices(ctx, ids)
	if err != nil {
		return fail("cannot get prices: %v", err)
	}
	printMarkdown(renderer.Prices(ids, prices))
	return subcommands.ExitSuccess
}
