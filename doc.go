// Package coinfolio simulates a cryptocurrency portfolio against live market
// prices.
//
// The core functionalities include:
//   - Market records: AssetQuote, AssetDetail and HistoricalPoint, produced
//     fresh by a market data provider (see package coingecko), with optional
//     values kept explicit (nil means the provider did not publish them).
//   - Ledger: simulated buys and sells at the live price, a weighted average
//     cost basis per holding, realized profit on each sale, and an append-only
//     transaction log.
//   - Valuation: the market value of all holdings in a single batched price
//     lookup, flagging the assets whose price is unknown instead of dropping
//     them.
//
// Prices are always expressed in QuoteCurrency. Nothing is persisted: a Ledger
// lives as long as the process that created it.
//
// This package serves as the foundational logic for the `cfs` command-line
// tool.
package coinfolio
