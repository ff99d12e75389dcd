package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/coinfolio"
	"github.com/etnz/coinfolio/renderer"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type detailCmd struct {
	parallel int
}

func (*detailCmd) Name() string     { return "detail" }
func (*detailCmd) Synopsis() string { return "show the description and market data of assets" }
func (*detailCmd) Usage() string {
	return `cfs detail <id>...

  Shows the description, market data, and all time high and low of each
  asset. Assets are identified by their CoinGecko id, like "bitcoin".

  Lookups run in parallel, at most -p at a time, but they share the same
  request pacing. A failed lookup does not stop the others: every failure is
  reported, and the assets found are still printed.
`
}

func (c *detailCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.parallel, "p", 4, "maximum number of lookups in flight")
}

func (c *detailCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ids := f.Args()
	if len(ids) == 0 {
		return fail("detail requires at least one asset id")
	}
	if c.parallel < 1 {
		return fail("-p must be at least 1, got %d", c.parallel)
	}

	client := newClient()
	details := make([]*coinfolio.AssetDetail, len(ids))
	errs := make([]error, len(ids))

	// the group only bounds the lookups in flight: each one keeps its error in
	// errs, so that a failure never cancels or hides the others.
	var g errgroup.Group
	g.SetLimit(c.parallel)
	for i, id := range ids {
		g.Go(func() error {
			details[i], errs[i] = client.Detail(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	var sections []string
	for i, d := range details {
		if errs[i] != nil {
			if errors.Is(errs[i], coinfolio.ErrNotFound) {
				errs[i] = fmt.Errorf("unknown asset %q", ids[i])
			}
			continue
		}
		sections = append(sections, renderer.Detail(d))
	}
	if len(sections) > 0 {
		printMarkdown(strings.Join(sections, "\n"))
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
