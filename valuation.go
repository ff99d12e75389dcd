package coinfolio

import (
	"context"
)

// AssetValue is the valuation of a single holding.
//
// When the price of the asset could not be resolved, Resolved is false, and
// Price, Value and UnrealizedGain are zero.
type AssetValue struct {
	AssetID        string
	Quantity       Quantity
	AvgCost        Money
	Price          Money
	Value          Money
	UnrealizedGain Money
	Resolved       bool
}

// Valuation is the market value of all holdings at live prices.
type Valuation struct {
	Assets []AssetValue // sorted by asset id
	Total  Money        // sum of resolved values only
}

// Unresolved returns the ids of the assets whose price is unknown.
func (v *Valuation) Unresolved() []string {
	var ids []string
	for _, a := range v.Assets {
		if !a.Resolved {
			ids = append(ids, a.AssetID)
		}
	}
	return ids
}

// Valuation values every holding at its current price, using a single batched
// price lookup. It never changes the ledger.
//
// Holdings whose price is unknown are kept in the breakdown, flagged as
// unresolved. If the lookup itself fails, a *PriceUnavailableError is returned.
func (l *Ledger) Valuation(ctx context.Context) (*Valuation, error) {
	holdings := l.Holdings()
	v := &Valuation{
		Assets: make([]AssetValue, 0, len(holdings)),
		Total:  USD(0),
	}
	if len(holdings) == 0 {
		return v, nil
	}

	ids := make([]string, 0, len(holdings))
	for _, h := range holdings {
		ids = append(ids, h.AssetID)
	}
	prices, err := l.prices.CurrentPrices(ctx, ids)
	if err != nil {
		return nil, &PriceUnavailableError{Err: err}
	}

	for _, h := range holdings {
		av := AssetValue{
			AssetID:        h.AssetID,
			Quantity:       h.Quantity,
			AvgCost:        h.AvgCost,
			Price:          USD(0),
			Value:          USD(0),
			UnrealizedGain: USD(0),
		}
		if price, ok := prices[h.AssetID]; ok {
			av.Resolved = true
			av.Price = price
			av.Value = price.Mul(h.Quantity)
			av.UnrealizedGain = av.Value.Sub(h.CostBasis())
			v.Total = v.Total.Add(av.Value)
		}
		v.Assets = append(v.Assets, av)
	}
	return v, nil
}

func (a AssetValue) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("asset", a.AssetID)
	w.Append("quantity", a.Quantity)
	w.Append("avgCost", a.AvgCost)
	w.Append("resolved", a.Resolved)
	if a.Resolved {
		w.Append("price", a.Price)
		w.Append("value", a.Value)
		w.Append("unrealizedGain", a.UnrealizedGain)
	}
	return w.MarshalJSON()
}

func (v *Valuation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("total", v.Total)
	w.Append("assets", v.Assets)
	w.Optional("unresolved", v.Unresolved())
	return w.MarshalJSON()
}
