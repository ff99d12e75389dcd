package cmd

import (
	"flag"

	"github.com/etnz/coinfolio/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of cfs, built from the flags
// of each command.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(f)}
		if c.Name() == "topic" {
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(append(topics, "*"))
			}
		}
		root.Sub[c.Name()] = sub
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

// boolFlag is implemented by the flag values that need no argument.
type boolFlag interface {
	IsBoolFlag() bool
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(boolFlag); ok && b.IsBoolFlag() {
			res[fl.Name] = predict.Nothing
			return
		}
		res[fl.Name] = predict.Something
	})
	return res
}
