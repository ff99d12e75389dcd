package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/coinfolio/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `cfs topic [-list] [<topic>...]

  Shows documentation for the given topics, or the readme if none is given.
  Use '*' for all of them.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "list the topics with their title")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		topics, err := docs.GetAllTopics()
		if err != nil {
			return fail("cannot list topics: %v", err)
		}
		for _, topic := range topics {
			title, err := docs.Title(topic)
			if err != nil {
				return fail("cannot read topic %q: %v", topic, err)
			}
			fmt.Fprintf(out, "%-12s %s\n", topic, title)
		}
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Readme}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return fail("cannot read doc: %v", err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
