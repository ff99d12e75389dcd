package coinfolio

import (
	"time"

	"github.com/google/uuid"
)

// Kind is a typed string for identifying transactions.
type Kind string

// Transaction kinds.
const (
	KindBuy  Kind = "BUY"
	KindSell Kind = "SELL"
)

// Transaction is a simulated trade recorded in the ledger at the live price.
//
// Transactions are values: the ledger hands out copies, and never changes a
// recorded transaction.
type Transaction struct {
	ID       uuid.UUID
	Kind     Kind
	AssetID  string
	Quantity Quantity
	Price    Money // unit price at execution
	Time     time.Time

	profit Money // only set for KindSell
}

// newBuy creates a BUY transaction.
func newBuy(on time.Time, id string, quantity Quantity, price Money) Transaction {
	return Transaction{
		ID:       uuid.New(),
		Kind:     KindBuy,
		AssetID:  id,
		Quantity: quantity,
		Price:    price,
		Time:     on,
	}
}

// newSell creates a SELL transaction that realized profit.
func newSell(on time.Time, id string, quantity Quantity, price, profit Money) Transaction {
	return Transaction{
		ID:       uuid.New(),
		Kind:     KindSell,
		AssetID:  id,
		Quantity: quantity,
		Price:    price,
		Time:     on,
		profit:   profit,
	}
}

// Amount returns the total amount exchanged: quantity times price.
func (t Transaction) Amount() Money { return t.Price.Mul(t.Quantity) }

// RealizedProfit returns the profit realized by a sale. ok is false for any
// other kind of transaction.
func (t Transaction) RealizedProfit() (profit Money, ok bool) {
	if t.Kind != KindSell {
		return Money{}, false
	}
	return t.profit, true
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("kind", t.Kind)
	w.Append("asset", t.AssetID)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	if profit, ok := t.RealizedProfit(); ok {
		w.Append("profit", profit)
	}
	w.Append("time", t.Time.UTC().Format(time.RFC3339Nano))
	return w.MarshalJSON()
}
