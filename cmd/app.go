// Package cmd implements the cfs command line application: market data
// lookups and trade simulations against the CoinGecko public API.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/coinfolio/coingecko"
	"github.com/etnz/coinfolio/gate"
	"github.com/google/subcommands"
)

// Environment variables used as default values for the global flags. They
// are also passed to extensions.
const (
	EnvAPIURL      = "COINFOLIO_API_URL"
	EnvAPIKey      = "COINFOLIO_API_KEY"
	EnvMinInterval = "COINFOLIO_MIN_INTERVAL"
	EnvMaxRetries  = "COINFOLIO_MAX_RETRIES"
	EnvTimeout     = "COINFOLIO_TIMEOUT"
	EnvVerbose     = "COINFOLIO_VERBOSE"
)

// Commands are all the cfs subcommands.
var Commands = []subcommands.Command{
	&marketCmd{},
	&detailCmd{},
	&historyCmd{},
	&priceCmd{},
	&simulateCmd{},
	&topicCmd{},
}

// Register registers the subcommands, grouped.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	for _, cmd := range Commands {
		group := "market data"
		switch cmd.Name() {
		case "simulate":
			group = "portfolio"
		case "topic":
			group = "help"
		}
		c.Register(cmd, group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

// envErrs collects the invalid environment values found while setting up the
// flags.
var envErrs []error

var (
	apiURL      = flag.String("api-url", envString(EnvAPIURL, coingecko.BaseURL), "market data API base URL")
	apiKey      = flag.String("api-key", envString(EnvAPIKey, ""), "CoinGecko demo API key, sent in the "+coingecko.APIKeyHeader+" header")
	minInterval = flag.Duration("min-interval", envDuration(EnvMinInterval, gate.DefaultMinInterval), "minimum delay between two API requests")
	maxRetries  = flag.Int("max-retries", envInt(EnvMaxRetries, gate.DefaultMaxRetries), "maximum number of requests per API call")
	timeout     = flag.Duration("timeout", envDuration(EnvTimeout, gate.DefaultTimeout), "deadline of an API call, waits and retries included")
	Verbose     = flag.Bool("v", envBool(EnvVerbose, false), "log every API request")
	plain       = flag.Bool("plain", false, "print raw markdown, without styling")
)

// out is where commands print their results.
var out io.Writer = os.Stdout

// Validate checks the global flags and their environment values.
func Validate() error {
	errs := append([]error(nil), envErrs...)
	if *apiURL == "" {
		errs = append(errs, errors.New("-api-url is empty"))
	}
	if *minInterval < 0 {
		errs = append(errs, fmt.Errorf("-min-interval must not be negative, got %v", *minInterval))
	}
	if *maxRetries < 1 {
		errs = append(errs, fmt.Errorf("-max-retries must be at least 1, got %d", *maxRetries))
	}
	if *timeout <= 0 {
		errs = append(errs, fmt.Errorf("-timeout must be positive, got %v", *timeout))
	}
	return errors.Join(errs...)
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		envErrs = append(envErrs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		envErrs = append(envErrs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		envErrs = append(envErrs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return b
}

// newGate returns the gate shared by all the requests of a command.
func newGate() *gate.Gate {
	logger := log.New(io.Discard, "", 0)
	if *Verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	opts := []gate.Option{
		gate.WithMinInterval(*minInterval),
		gate.WithMaxRetries(*maxRetries),
		gate.WithTimeout(*timeout),
		gate.WithLogger(logger),
	}
	if *apiKey != "" {
		opts = append(opts, gate.WithHeader(coingecko.APIKeyHeader, *apiKey))
	}
	return gate.New(*apiURL, opts...)
}

// newClient returns a market data client paced by a new gate.
func newClient() *coingecko.Client {
	return coingecko.New(newGate())
}

// printMarkdown prints md, styled for the terminal unless -plain is set.
func printMarkdown(md string) {
	if *plain {
		fmt.Fprint(out, md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Fprint(out, md)
		return
	}
	styled, err := r.Render(md)
	if err != nil {
		fmt.Fprint(out, md)
		return
	}
	fmt.Fprint(out, styled)
}

// fail prints an error and returns the failure status.
func fail(format string, a ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", a...)
	return subcommands.ExitFailure
}
