package cmd

import (
	"context"
	"flag"

	"github.com/etnz/coinfolio/coingecko"
	"github.com/etnz/coinfolio/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	days int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the price history of an asset" }
func (*historyCmd) Usage() string {
	return `cfs history [-days <n>] <id>

  Shows the price of an asset over the last days: the change over the
  period, its high and low, and the last price of each day.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 30, "number of days, from 1 to 365")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail("history requires exactly one asset id")
	}
	id := f.Arg(0)
	if c.days < 1 || c.days > coingecko.MaxHistoryDays {
		return fail("-days must be within [1, %d], got %d", coingecko.MaxHistoryDays, c.days)
	}

	points, err := newClient().History(ctx, id, c.days)
	if err != nil {
		return fail("cannot get the history of %q: %v", id, err)
	}
	printMarkdown(renderer.History(id, points))
	return subcommands.ExitSuccess
}
