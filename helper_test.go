package coinfolio

import (
	"context"
	"sync"
)

// fakePrices is a PriceSource for tests with settable prices and a failure
// switch. It counts the lookups it serves.
type fakePrices struct {
	mu     sync.Mutex
	prices map[string]Money
	err    error
	calls  int
	asked  [][]string
}

func newFakePrices() *fakePrices {
	return &fakePrices{prices: make(map[string]Money)}
}

// set sets the price of id in USD.
func (f *fakePrices) set(id string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[id] = USD(price)
}

// unset removes id, so that its price is unknown.
func (f *fakePrices) unset(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.prices, id)
}

func (f *fakePrices) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakePrices) CurrentPrices(_ context.Context, ids []string) (map[string]Money, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.asked = append(f.asked, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	res := make(map[string]Money)
	for _, id := range ids {
		if p, ok := f.prices[id]; ok {
			res[id] = p
		}
	}
	return res, nil
}

func (f *fakePrices) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
