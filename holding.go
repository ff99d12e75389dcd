package coinfolio

// Holding is the current position in a single asset.
//
// A Holding exists only while its quantity is positive. AvgCost is the
// quantity weighted average cost of the position: buys blend it, sales never
// change it.
type Holding struct {
	AssetID  string
	Quantity Quantity
	AvgCost  Money

	// exact fraction that AvgCost rounds.
	costNum Money
	costDen Quantity
}

// CostBasis returns what the current quantity cost: Quantity x AvgCost.
func (h Holding) CostBasis() Money { return h.AvgCost.Mul(h.Quantity) }

// buy returns the holding after purchasing quantity at price.
//
// From an empty holding, the average cost is the purchase price. Otherwise it
// is blended: (q*avg + bq*bp) / (q + bq), without rounding the intermediate
// averages, so that the result does not depend on the order of the buys.
func (h Holding) buy(quantity Quantity, price Money) Holding {
	if h.Quantity.IsZero() {
		return Holding{
			AssetID:  h.AssetID,
			Quantity: quantity,
			AvgCost:  price,
			costNum:  price.Mul(quantity),
			costDen:  quantity,
		}
	}
	if h.Quantity.Equal(h.costDen) {
		// no sale since the position was opened: plain sums.
		h.costNum = h.costNum.Add(price.Mul(quantity))
		h.costDen = h.costDen.Add(quantity)
	} else {
		// q*num/den + bq*bp = (q*num + bq*bp*den) / den
		h.costNum = h.costNum.Mul(h.Quantity).Add(price.Mul(quantity).Mul(h.costDen))
		h.costDen = h.costDen.Mul(h.Quantity.Add(quantity))
	}
	h.Quantity = h.Quantity.Add(quantity)
	h.AvgCost = h.costNum.Div(h.costDen)
	return h
}

// sell returns the holding after selling quantity at price, and the realized
// profit (price - avg) * quantity. Caller must check the quantity is held.
func (h Holding) sell(quantity Quantity, price Money) (Holding, Money) {
	cost := h.costNum.Mul(quantity).Div(h.costDen)
	profit := price.Mul(quantity).Sub(cost)
	h.Quantity = h.Quantity.Sub(quantity)
	return h, profit
}
