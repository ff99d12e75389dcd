package coinfolio

import "slices"

// minChange24h is the lowest 24h change used to derive a previous price.
// Below it, price / (1 + change/100) explodes, so the asset is skipped.
const minChange24h Percent = -99.99

// DailyChange is the change in value of a set of positions over the last 24h,
// derived from the quotes' 24h percent change.
type DailyChange struct {
	Value    Money    // current value of the positions
	Previous Money    // value 24h ago
	Change   Money    // Value - Previous
	Percent  Percent  // Change / Previous, 0 when Previous is 0
	Skipped  []string // held assets without a usable quote
}

// Change24h computes the 24h change of positions (quantity per asset id).
//
// The previous price of each asset is derived from its quote:
// price / (1 + change/100). Assets without a quote, without a 24h change, or
// with a change at or below -99.99% are skipped.
func Change24h(positions map[string]Quantity, quotes []AssetQuote) DailyChange {
	byID := make(map[string]AssetQuote, len(quotes))
	for _, q := range quotes {
		byID[q.ID] = q
	}

	res := DailyChange{Value: USD(0), Previous: USD(0), Change: USD(0)}
	for id, quantity := range positions {
		q, ok := byID[id]
		if !ok || q.Change24h == nil || *q.Change24h <= minChange24h {
			res.Skipped = append(res.Skipped, id)
			continue
		}
		previous := Money{value: q.Price.value.DivRound(q.Change24h.Factor(), costPrecision), cur: q.Price.cur}

		res.Value = res.Value.Add(q.Price.Mul(quantity))
		res.Previous = res.Previous.Add(previous.Mul(quantity))
	}
	res.Change = res.Value.Sub(res.Previous)
	res.Percent, _ = PercentChange(res.Previous, res.Value)
	slices.Sort(res.Skipped)
	return res
}
