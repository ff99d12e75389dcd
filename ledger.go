package coinfolio

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// PriceSource resolves the current price of assets in the quote currency.
//
// Unknown assets are absent from the returned map: absence means the price is
// unknown, never zero.
type PriceSource interface {
	CurrentPrices(ctx context.Context, ids []string) (map[string]Money, error)
}

// Ledger holds simulated holdings and the log of the transactions that built
// them, against live prices.
//
// Buy and Sell are serialized, so that each read-modify-write of a holding is
// applied in call order. Readers (Valuation, History, Holdings) can run
// concurrently and always see the state before or after a transaction, never
// in between.
type Ledger struct {
	prices PriceSource
	now    func() time.Time

	writer sync.Mutex // serializes Buy and Sell end to end

	mu           sync.RWMutex // guards holdings and transactions
	holdings     map[string]Holding
	transactions []Transaction
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithClock sets the clock used to timestamp transactions.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates an empty ledger pricing assets with prices.
func NewLedger(prices PriceSource, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		prices:       prices,
		now:          time.Now,
		holdings:     make(map[string]Holding),
		transactions: make([]Transaction, 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// validate checks the arguments common to Buy and Sell.
func validate(id string, quantity Quantity) error {
	if id == "" {
		return fmt.Errorf("%w: asset id is missing", ErrInvalidArgument)
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive, got %s", ErrInvalidArgument, quantity)
	}
	return nil
}

// price fetches the current price of a single asset.
func (l *Ledger) price(ctx context.Context, id string) (Money, error) {
	prices, err := l.prices.CurrentPrices(ctx, []string{id})
	if err != nil {
		return Money{}, &PriceUnavailableError{AssetID: id, Err: err}
	}
	price, ok := prices[id]
	if !ok {
		return Money{}, &PriceUnavailableError{AssetID: id, Err: fmt.Errorf("%w: no price for %q", ErrNotFound, id)}
	}
	return price, nil
}

// Buy purchases quantity of asset id at its current price.
//
// If the price cannot be resolved, nothing is recorded and a
// *PriceUnavailableError is returned.
func (l *Ledger) Buy(ctx context.Context, id string, quantity Quantity) (Transaction, error) {
	if err := validate(id, quantity); err != nil {
		return Transaction{}, err
	}

	l.writer.Lock()
	defer l.writer.Unlock()

	price, err := l.price(ctx, id)
	if err != nil {
		return Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.holdings[id]
	if !ok {
		h = Holding{AssetID: id}
	}
	l.holdings[id] = h.buy(quantity, price)
	tx := newBuy(l.now(), id, quantity, price)
	l.transactions = append(l.transactions, tx)
	return tx, nil
}

// Sell sells quantity of asset id at its current price.
//
// Selling more than held fails with an *InsufficientHoldingsError before any
// price is fetched. Selling the whole position removes the holding.
func (l *Ledger) Sell(ctx context.Context, id string, quantity Quantity) (Transaction, error) {
	if err := validate(id, quantity); err != nil {
		return Transaction{}, err
	}

	l.writer.Lock()
	defer l.writer.Unlock()

	// Only writers change holdings, and we are the only writer.
	held := l.Holding(id).Quantity
	if quantity.GreaterThan(held) {
		return Transaction{}, &InsufficientHoldingsError{AssetID: id, Held: held, Requested: quantity}
	}

	price, err := l.price(ctx, id)
	if err != nil {
		return Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	h, profit := l.holdings[id].sell(quantity, price)
	if h.Quantity.IsZero() {
		delete(l.holdings, id)
	} else {
		l.holdings[id] = h
	}
	tx := newSell(l.now(), id, quantity, price, profit)
	l.transactions = append(l.transactions, tx)
	return tx, nil
}

// Holding returns the current holding of asset id. The zero Holding (with
// the AssetID set) is returned for assets not held.
func (l *Ledger) Holding(id string) Holding {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h, ok := l.holdings[id]
	if !ok {
		return Holding{AssetID: id}
	}
	return h
}

// Holdings returns a snapshot of all holdings sorted by asset id.
func (l *Ledger) Holdings() []Holding {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := slices.Sorted(maps.Keys(l.holdings))
	res := make([]Holding, 0, len(ids))
	for _, id := range ids {
		res = append(res, l.holdings[id])
	}
	return res
}

// History returns the transactions in the order they occurred.
func (l *Ledger) History() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.transactions)
}

// RealizedProfit returns the sum of the profits realized by all sales.
func (l *Ledger) RealizedProfit() Money {
	total := USD(0)
	for _, tx := range l.History() {
		if profit, ok := tx.RealizedProfit(); ok {
			total = total.Add(profit)
		}
	}
	return total
}
