package renderer

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/etnz/coinfolio"
	md "github.com/nao1215/markdown"
)

// Quotes renders the first limit quotes as a table. limit <= 0 renders them
// all.
func Quotes(quotes []coinfolio.AssetQuote, limit int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Market")
	if len(quotes) == 0 {
		doc.PlainText("No market data available.")
		return doc.String()
	}
	if limit > 0 && limit < len(quotes) {
		quotes = quotes[:limit]
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"#", "Name", "Symbol", "Price", "24h", "7d", "Market Cap"},
	}
	for _, q := range quotes {
		table.Rows = append(table.Rows, []string{
			optInt(q.Rank),
			q.Name,
			q.Symbol,
			q.Price.String(),
			change(q.Change24h),
			change(q.Change7d),
			optMoney(q.MarketCap),
		})
	}
	doc.Table(table)
	return doc.String()
}

// Movers renders the top gainer and the top loser over the last 24h. Quotes
// without a 24h change are ignored.
func Movers(quotes []coinfolio.AssetQuote) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Market Performance Summary")
	var gainer, loser *coinfolio.AssetQuote
	for i := range quotes {
		q := &quotes[i]
		if q.Change24h == nil {
			continue
		}
		if gainer == nil || *q.Change24h > *gainer.Change24h {
			gainer = q
		}
		if loser == nil || *q.Change24h < *loser.Change24h {
			loser = q
		}
	}
	if gainer == nil {
		doc.PlainText("No 24h change available.")
		return doc.String()
	}

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"", "Asset", "24h"},
		Rows: [][]string{
			{md.Bold("Top Gainer"), fmt.Sprintf("%s (%s)", gainer.Name, gainer.Symbol), change(gainer.Change24h)},
			{md.Bold("Top Loser"), fmt.Sprintf("%s (%s)", loser.Name, loser.Symbol), change(loser.Change24h)},
		},
	})
	return doc.String()
}

// Detail renders the descriptive data of an asset.
func Detail(d *coinfolio.AssetDetail) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	price := na
	if d.PriceKnown {
		price = d.Price.String()
	}

	doc.H1(fmt.Sprintf("%s (%s)", d.Name, d.Symbol))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Price"), md.Bold(price)},
		Rows: [][]string{
			{"Rank", optInt(d.Rank)},
			{"Market Cap", optMoney(d.MarketCap)},
			{"24h Volume", optMoney(d.Volume)},
			{"24h Change", change(d.Change24h)},
			{"7d Change", change(d.Change7d)},
			{"All Time High", optMoney(d.AllTimeHigh)},
			{"All Time Low", optMoney(d.AllTimeLow)},
			{"Homepage", optString(d.Homepage)},
		},
	})

	if d.Description != nil && strings.TrimSpace(*d.Description) != "" {
		doc.H2("Description")
		doc.PlainText(strings.TrimSpace(*d.Description))
	}
	return doc.String()
}

// History renders a price history: a summary of the period, and the last
// price of each day.
func History(id string, points []coinfolio.HistoricalPoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("History for %s", id))
	if len(points) == 0 {
		doc.PlainText("No price history available.")
		return doc.String()
	}

	first, last := points[0], points[len(points)-1]
	high, low := first.Price, first.Price
	for _, p := range points {
		if p.Price.GreaterThan(high) {
			high = p.Price
		}
		if p.Price.LessThan(low) {
			low = p.Price
		}
	}
	var period *coinfolio.Percent
	if pct, ok := coinfolio.PercentChange(first.Price, last.Price); ok {
		period = &pct
	}

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Change"), md.Bold(change(period))},
		Rows: [][]string{
			{fmt.Sprintf("Start (%s)", first.Time.Format(time.DateTime)), first.Price.String()},
			{fmt.Sprintf("End (%s)", last.Time.Format(time.DateTime)), last.Price.String()},
			{"High", high.String()},
			{"Low", low.String()},
		},
	})

	// last price of each day, points are sorted.
	closes := make(map[string]coinfolio.HistoricalPoint)
	for _, p := range points {
		closes[p.Time.Format(time.DateOnly)] = p
	}
	doc.H2("Daily Closes")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Date", "Price"},
	}
	for _, day := range slices.Sorted(maps.Keys(closes)) {
		table.Rows = append(table.Rows, []string{day, closes[day].Price.String()})
	}
	doc.Table(table)
	return doc.String()
}

// Prices renders current prices by asset id. ids lists the requested assets,
// so that the ones without a price are shown too.
func Prices(ids []string, prices map[string]coinfolio.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Current Prices")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Asset", "Price"},
	}
	for _, id := range ids {
		price := na
		if p, ok := prices[id]; ok {
			price = p.String()
		}
		table.Rows = append(table.Rows, []string{id, price})
	}
	doc.Table(table)
	return doc.String()
}
