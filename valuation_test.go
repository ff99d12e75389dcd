package coinfolio

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestLedger_Valuation(t *testing.T) {
	prices := newFakePrices()
	l := NewLedger(prices)
	prices.set("bitcoin", 100)
	mustBuy(t, l, "bitcoin", 2)
	prices.set("solana", 10)
	mustBuy(t, l, "solana", 3)
	prices.set("dogecoin", 0.1)
	mustBuy(t, l, "dogecoin", 1000)

	prices.set("bitcoin", 120)
	prices.unset("dogecoin")
	callsBefore := prices.count()

	v, err := l.Valuation(context.Background())
	if err != nil {
		t.Fatalf("Valuation() error = %v", err)
	}
	if got := prices.count() - callsBefore; got != 1 {
		t.Errorf("price lookups = %d, want a single batched lookup", got)
	}
	if asked := prices.asked[len(prices.asked)-1]; !slices.Equal(asked, []string{"bitcoin", "dogecoin", "solana"}) {
		t.Errorf("asked ids = %v, want every held id", asked)
	}

	wantIDs := []string{"bitcoin", "dogecoin", "solana"}
	if len(v.Assets) != len(wantIDs) {
		t.Fatalf("len(Assets) = %d, want %d", len(v.Assets), len(wantIDs))
	}
	for i, id := range wantIDs {
		if v.Assets[i].AssetID != id {
			t.Errorf("Assets[%d].AssetID = %q, want %q", i, v.Assets[i].AssetID, id)
		}
	}

	btc := v.Assets[0]
	if !btc.Resolved || !btc.Value.Equal(USD(240)) || !btc.UnrealizedGain.Equal(USD(40)) {
		t.Errorf("bitcoin = %+v, want resolved value 240 gain 40", btc)
	}
	doge := v.Assets[1]
	if doge.Resolved {
		t.Errorf("dogecoin Resolved = true, want false")
	}
	if !doge.Value.IsZero() {
		t.Errorf("dogecoin Value = %v, want 0", doge.Value)
	}
	if !doge.Quantity.Equal(Q(1000)) {
		t.Errorf("dogecoin Quantity = %v, want 1000", doge.Quantity)
	}

	if want := USD(270); !v.Total.Equal(want) {
		t.Errorf("Total = %v, want %v", v.Total, want)
	}
	if got := v.Unresolved(); !slices.Equal(got, []string{"dogecoin"}) {
		t.Errorf("Unresolved() = %v, want [dogecoin]", got)
	}
	if got := len(l.History()); got != 3 {
		t.Errorf("len(History()) = %d, want 3 (valuation is read only)", got)
	}
}

func TestLedger_ValuationEmpty(t *testing.T) {
	prices := newFakePrices()
	l := NewLedger(prices)
	v, err := l.Valuation(context.Background())
	if err != nil {
		t.Fatalf("Valuation() error = %v", err)
	}
	if len(v.Assets) != 0 || !v.Total.IsZero() {
		t.Errorf("Valuation() = %+v, want empty", v)
	}
	if got := prices.count(); got != 0 {
		t.Errorf("price lookups = %d, want 0", got)
	}
}

func TestLedger_ValuationFailure(t *testing.T) {
	prices := newFakePrices()
	prices.set("bitcoin", 100)
	l := NewLedger(prices)
	mustBuy(t, l, "bitcoin", 1)

	cause := errors.New("connection reset")
	prices.fail(cause)
	_, err := l.Valuation(context.Background())
	var unavailable *PriceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Valuation() error = %v, want *PriceUnavailableError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Valuation() error = %v, want cause %v", err, cause)
	}
}
