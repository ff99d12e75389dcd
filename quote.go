package coinfolio

import (
	"slices"
	"time"
)

// AssetQuote is a market snapshot of a single asset, in the quote currency.
//
// Optional values are nil when the provider did not publish them.
type AssetQuote struct {
	ID        string
	Symbol    string
	Name      string
	Price     Money
	MarketCap *Money
	Rank      *int
	Volume    *Money
	Change24h *Percent
	Change7d  *Percent
}

// AssetDetail extends AssetQuote with descriptive data about an asset.
//
// Like for the quote, absent values are nil. A value published empty by the
// provider is a pointer to the empty string. Price is only meaningful when
// PriceKnown is set: some assets have no current price.
type AssetDetail struct {
	AssetQuote
	PriceKnown  bool
	Description *string
	AllTimeHigh *Money
	AllTimeLow  *Money
	Homepage    *string
}

// HistoricalPoint is a price at a given instant.
type HistoricalPoint struct {
	Time  time.Time
	Price Money
}

// SortHistory sorts points by ascending time. Points sharing the same instant
// are kept, in their original order.
func SortHistory(points []HistoricalPoint) {
	slices.SortStableFunc(points, func(a, b HistoricalPoint) int {
		return a.Time.Compare(b.Time)
	})
}
