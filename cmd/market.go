package cmd

import (
	"context"
	"flag"

	"github.com/etnz/coinfolio/renderer"
	"github.com/google/subcommands"
)

type marketCmd struct {
	page   int
	limit  int
	movers bool
}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "list assets ranked by market capitalization" }
func (*marketCmd) Usage() string {
	return `cfs market [-page <n>] [-n <count>] [-movers]

  Lists a page of 100 assets ranked by market capitalization, with their price
  and their 24h and 7d change. Only the first -n assets are printed.

  With -movers, also prints the top gainer and the top loser of the page.
`
}

func (c *marketCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.page, "page", 1, "page of the listing, starting at 1")
	f.IntVar(&c.limit, "n", 10, "number of assets to print, 0 for the whole page")
	f.BoolVar(&c.movers, "movers", false, "print the top gainer and loser")
}

func (c *marketCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		return fail("market takes no argument")
	}
	if c.limit < 0 {
		return fail("-n must not be negative, got %d", c.limit)
	}

	quotes, err := newClient().ListMarket(ctx, c.page)
	if err != nil {
		return fail("cannot list the market: %v", err)
	}

	md := renderer.Quotes(quotes, c.limit)
	if c.movers {
		md += "\n" + renderer.Movers(quotes)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
