package renderer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/coinfolio"
)

func ptr[T any](v T) *T { return &v }

func usd(v float64) *coinfolio.Money { return ptr(coinfolio.USD(v)) }

var quotes = []coinfolio.AssetQuote{
	{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Price: coinfolio.USD(64000.5), Rank: ptr(1), MarketCap: usd(1.26e12), Change24h: ptr(coinfolio.Percent(2.5))},
	{ID: "ethereum", Symbol: "ETH", Name: "Ethereum", Price: coinfolio.USD(3100), Rank: ptr(2), Change24h: ptr(coinfolio.Percent(-4))},
	{ID: "pepe", Symbol: "PEPE", Name: "Pepe", Price: coinfolio.USD(0.00001234)},
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output does not contain %q:\n%s", w, got)
		}
	}
}

func assertNotContains(t *testing.T, got string, unwanted ...string) {
	t.Helper()
	for _, w := range unwanted {
		if strings.Contains(got, w) {
			t.Errorf("output contains %q:\n%s", w, got)
		}
	}
}

func TestChange(t *testing.T) {
	testCases := []struct {
		p    *coinfolio.Percent
		want string
	}{
		{nil, "n/a"},
		{ptr(coinfolio.Percent(2.5)), "▲ +2.50%"},
		{ptr(coinfolio.Percent(-1)), "▼ -1.00%"},
		{ptr(coinfolio.Percent(0)), "0.00%"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := change(tc.p); got != tc.want {
				t.Errorf("change() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestQuotes(t *testing.T) {
	testCases := []struct {
		name     string
		limit    int
		want     []string
		unwanted []string
	}{
		{"all", 0, []string{"Bitcoin", "Ethereum", "Pepe", "$0.00001234", "n/a"}, nil},
		{"limited", 2, []string{"Bitcoin", "BTC", "$64,000.50", "▲ +2.50%", "Ethereum", "▼ -4.00%"}, []string{"Pepe"}},
		{"over", 10, []string{"Bitcoin", "Ethereum", "Pepe"}, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Quotes(quotes, tc.limit)
			assertContains(t, got, tc.want...)
			assertNotContains(t, got, tc.unwanted...)
		})
	}

	assertContains(t, Quotes(nil, 10), "No market data available.")
}

func TestMovers(t *testing.T) {
	got := Movers(quotes)
	assertContains(t, got, "Top Gainer", "Bitcoin (BTC)", "Top Loser", "Ethereum (ETH)")

	got = Movers(quotes[2:])
	assertContains(t, got, "No 24h change available.")
}

func TestDetail(t *testing.T) {
	d := &coinfolio.AssetDetail{
		AssetQuote:  quotes[0],
		PriceKnown:  true,
		Description: ptr("The first decentralized cryptocurrency."),
		AllTimeHigh: usd(73738),
		Homepage:    ptr(""),
	}
	got := Detail(d)
	assertContains(t, got, "Bitcoin (BTC)", "$64,000.50", "$73,738.00", "Description", "The first decentralized cryptocurrency.")
	// no all time low nor homepage
	if n := strings.Count(got, "n/a"); n < 2 {
		t.Errorf("got %d n/a, want at least 2:\n%s", n, got)
	}
}

func TestDetailUnknownPrice(t *testing.T) {
	got := Detail(&coinfolio.AssetDetail{AssetQuote: coinfolio.AssetQuote{ID: "obscure", Symbol: "OBS", Name: "Obscure"}})
	assertContains(t, got, "Obscure (OBS)", "**n/a**")
	if strings.Contains(got, "$0.00") {
		t.Errorf("an unknown price is printed as zero:\n%s", got)
	}
}

func TestHistory(t *testing.T) {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	points := []coinfolio.HistoricalPoint{
		{Time: day.Add(1 * time.Hour), Price: coinfolio.USD(100)},
		{Time: day.Add(13 * time.Hour), Price: coinfolio.USD(90)},
		{Time: day.Add(25 * time.Hour), Price: coinfolio.USD(120)},
		{Time: day.Add(30 * time.Hour), Price: coinfolio.USD(110)},
	}
	got := History("bitcoin", points)
	assertContains(t, got,
		"History for bitcoin",
		"▲ +10.00%",
		"$120.00", // high
		"$90.00",  // low, and first day close
		"2025-03-01",
		"2025-03-02",
	)

	assertContains(t, History("bitcoin", nil), "No price history available.")
}

func TestPrices(t *testing.T) {
	got := Prices([]string{"bitcoin", "unknown"}, map[string]coinfolio.Money{"bitcoin": coinfolio.USD(64000)})
	assertContains(t, got, "bitcoin", "$64,000.00", "unknown", "n/a")
}

type prices map[string]coinfolio.Money

func (p prices) CurrentPrices(_ context.Context, ids []string) (map[string]coinfolio.Money, error) {
	res := make(map[string]coinfolio.Money)
	for _, id := range ids {
		if v, ok := p[id]; ok {
			res[id] = v
		}
	}
	return res, nil
}

func TestLedgerRendering(t *testing.T) {
	ctx := context.Background()
	p := prices{"bitcoin": coinfolio.USD(150), "dogecoin": coinfolio.USD(0.1)}
	l := coinfolio.NewLedger(p)
	for _, op := range []func() (coinfolio.Transaction, error){
		func() (coinfolio.Transaction, error) { return l.Buy(ctx, "bitcoin", coinfolio.Q(2)) },
		func() (coinfolio.Transaction, error) { return l.Buy(ctx, "dogecoin", coinfolio.Q(100)) },
	} {
		if _, err := op(); err != nil {
			t.Fatal(err)
		}
	}
	p["bitcoin"] = coinfolio.USD(180)
	if _, err := l.Sell(ctx, "bitcoin", coinfolio.Q(1)); err != nil {
		t.Fatal(err)
	}
	delete(p, "dogecoin")

	txs := l.History()
	assertContains(t, Transactions(txs), "BUY", "SELL", "bitcoin", "dogecoin", "+$30.00")
	assertContains(t, Transaction(txs[2]), "Sold 1 bitcoin at $180.00", "realized +$30.00")
	assertContains(t, Transactions(nil), "No transactions yet.")

	v, err := l.Valuation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := Valuation(v, l.RealizedProfit())
	assertContains(t, got, "Total Value", "$180.00", "+$30.00", "dogecoin", "n/a", "Price unavailable")
}

func TestDailyChange(t *testing.T) {
	c := coinfolio.Change24h(
		map[string]coinfolio.Quantity{"bitcoin": coinfolio.Q(1), "pepe": coinfolio.Q(1000)},
		[]coinfolio.AssetQuote{{ID: "bitcoin", Price: coinfolio.USD(110), Change24h: ptr(coinfolio.Percent(10))}},
	)
	got := DailyChange(c)
	assertContains(t, got, "24h Change", "+$10.00", "+10.00%", "$110.00", "$100.00", "pepe")
}
