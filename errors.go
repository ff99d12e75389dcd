package coinfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned, wrapped, when a caller supplied value is
	// out of contract (history window, non-positive quantity, empty id...).
	// Such errors are never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned, wrapped, when the market data provider has no
	// such asset. It is distinct from transport or throttling failures.
	ErrNotFound = errors.New("not found")
)

// PriceUnavailableError reports that the price of an asset could not be
// resolved. Err is the originating failure.
type PriceUnavailableError struct {
	AssetID string // empty for batched lookups
	Err     error
}

func (e *PriceUnavailableError) Error() string {
	if e.AssetID == "" {
		return fmt.Sprintf("prices unavailable: %v", e.Err)
	}
	return fmt.Sprintf("price unavailable for %q: %v", e.AssetID, e.Err)
}

func (e *PriceUnavailableError) Unwrap() error { return e.Err }

// InsufficientHoldingsError reports a sale larger than the current position.
type InsufficientHoldingsError struct {
	AssetID   string
	Held      Quantity
	Requested Quantity
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings of %q: held %s, requested %s", e.AssetID, e.Held, e.Requested)
}
