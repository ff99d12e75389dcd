// Package coingecko maps the CoinGecko v3 public API to coinfolio market
// records.
//
// Every request goes through a Getter, normally a *gate.Gate, which owns the
// pacing and the retries. This package only builds requests and decodes
// payloads. Amounts are decoded as decimals, never as floats.
package coingecko

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/coinfolio"
	"github.com/etnz/coinfolio/gate"
	"github.com/shopspring/decimal"
)

// BaseURL is the public CoinGecko v3 API.
const BaseURL = "https://api.coingecko.com/api/v3"

// APIKeyHeader is the header carrying a demo API key. Keyed requests get a
// higher rate limit.
const APIKeyHeader = "x-cg-demo-api-key"

// vsCurrency is the CoinGecko name of coinfolio.QuoteCurrency.
const vsCurrency = "usd"

// PageSize is the number of assets per market listing page.
const PageSize = 100

// MaxHistoryDays is the longest history window that can be requested.
const MaxHistoryDays = 365

// Getter issues GET requests and returns the 2xx body.
type Getter interface {
	Get(ctx context.Context, req gate.Request) ([]byte, error)
}

// Client fetches market data from CoinGecko.
type Client struct {
	g Getter
}

// New returns a Client sending its requests through g.
func New(g Getter) *Client {
	return &Client{g: g}
}

// get performs req, turning a 404 into coinfolio.ErrNotFound.
func (c *Client) get(ctx context.Context, req gate.Request, what string) ([]byte, error) {
	body, err := c.g.Get(ctx, req)
	var upstream *gate.UpstreamError
	if errors.As(err, &upstream) && upstream.Status == http.StatusNotFound {
		// not found is not an upstream failure: the cause is only printed.
		return nil, fmt.Errorf("%w: %s: %v", coinfolio.ErrNotFound, what, err)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot get %s: %w", what, err)
	}
	return body, nil
}

// decode unmarshals a payload keeping numbers as json.Number.
func decode(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

// marketEntry is an element of the coins/markets payload.
type marketEntry struct {
	ID             string       `json:"id"`
	Symbol         string       `json:"symbol"`
	Name           string       `json:"name"`
	CurrentPrice   *json.Number `json:"current_price"`
	MarketCap      *json.Number `json:"market_cap"`
	MarketCapRank  *json.Number `json:"market_cap_rank"`
	TotalVolume    *json.Number `json:"total_volume"`
	Change24h      *json.Number `json:"price_change_percentage_24h"`
	Change24hInCur *json.Number `json:"price_change_percentage_24h_in_currency"`
	Change7dInCur  *json.Number `json:"price_change_percentage_7d_in_currency"`
}

// quote converts the entry, ok is false if it has no id or no valid price.
func (e marketEntry) quote() (q coinfolio.AssetQuote, ok bool) {
	if e.ID == "" {
		return q, false
	}
	price := money(e.CurrentPrice)
	if price == nil || price.IsNegative() {
		return q, false
	}
	q = coinfolio.AssetQuote{
		ID:        e.ID,
		Symbol:    strings.ToUpper(e.Symbol),
		Name:      e.Name,
		Price:     *price,
		MarketCap: money(e.MarketCap),
		Rank:      integer(e.MarketCapRank),
		Volume:    money(e.TotalVolume),
		Change24h: percent(e.Change24h),
		Change7d:  percent(e.Change7dInCur),
	}
	if q.Change24h == nil {
		q.Change24h = percent(e.Change24hInCur)
	}
	return q, true
}

// marketQuery is the query shared by listings.
func marketQuery() url.Values {
	return url.Values{
		"vs_currency":             {vsCurrency},
		"order":                   {"market_cap_desc"},
		"per_page":                {strconv.Itoa(PageSize)},
		"sparkline":               {"false"},
		"price_change_percentage": {"24h,7d"},
	}
}

// parseMarket decodes a coins/markets payload. Entries that cannot be decoded
// are skipped, and a payload that is not a list yields no quote.
func parseMarket(body []byte) []coinfolio.AssetQuote {
	var raw []json.RawMessage
	if err := decode(body, &raw); err != nil {
		return []coinfolio.AssetQuote{}
	}
	quotes := make([]coinfolio.AssetQuote, 0, len(raw))
	for _, r := range raw {
		var e marketEntry
		if err := json.Unmarshal(r, &e); err != nil {
			continue
		}
		if q, ok := e.quote(); ok {
			quotes = append(quotes, q)
		}
	}
	return quotes
}

// ListMarket returns a page of assets ranked by market capitalization,
// starting at page 1.
func (c *Client) ListMarket(ctx context.Context, page int) ([]coinfolio.AssetQuote, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1, got %d", coinfolio.ErrInvalidArgument, page)
	}
	query := marketQuery()
	query.Set("page", strconv.Itoa(page))
	body, err := c.get(ctx, gate.Request{Path: "coins/markets", Query: query}, "market listing")
	if err != nil {
		return nil, err
	}
	return parseMarket(body), nil
}

// Quotes returns the market quotes of the given assets, in market cap order.
// Unknown ids are absent from the result.
func (c *Client) Quotes(ctx context.Context, ids []string) ([]coinfolio.AssetQuote, error) {
	ids = unique(ids)
	if len(ids) == 0 {
		return []coinfolio.AssetQuote{}, nil
	}
	query := marketQuery()
	query.Set("ids", strings.Join(ids, ","))
	body, err := c.get(ctx, gate.Request{Path: "coins/markets", Query: query}, "quotes")
	if err != nil {
		return nil, err
	}
	return parseMarket(body), nil
}

// Detail returns the descriptive data of asset id.
//
// It fails with an error wrapping coinfolio.ErrNotFound if CoinGecko does not
// know the asset.
func (c *Client) Detail(ctx context.Context, id string) (*coinfolio.AssetDetail, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: asset id is missing", coinfolio.ErrInvalidArgument)
	}
	req := gate.Request{
		Path: "coins/" + url.PathEscape(id),
		Query: url.Values{
			"localization":   {"false"},
			"tickers":        {"false"},
			"community_data": {"false"},
			"developer_data": {"false"},
		},
	}
	body, err := c.get(ctx, req, fmt.Sprintf("detail of %q", id))
	if err != nil {
		return nil, err
	}
	var obj any
	if err := decode(body, &obj); err != nil {
		return nil, fmt.Errorf("cannot decode detail of %q: %w", id, err)
	}
	if _, ok := obj.(map[string]any); !ok {
		return nil, fmt.Errorf("cannot decode detail of %q: not an object", id)
	}
	return parseDetail(id, obj), nil
}

// parseDetail extracts the detail fields from a decoded coins/{id} payload.
func parseDetail(id string, obj any) *coinfolio.AssetDetail {
	d := &coinfolio.AssetDetail{
		AssetQuote: coinfolio.AssetQuote{
			ID:        id,
			Price:     coinfolio.USD(0),
			MarketCap: pathMoney(obj, "$.market_data.market_cap.usd"),
			Rank:      pathInt(obj, "$.market_cap_rank"),
			Volume:    pathMoney(obj, "$.market_data.total_volume.usd"),
			Change24h: pathPercent(obj, "$.market_data.price_change_percentage_24h"),
			Change7d:  pathPercent(obj, "$.market_data.price_change_percentage_7d"),
		},
		Description: pathString(obj, "$.description.en"),
		AllTimeHigh: pathMoney(obj, "$.market_data.ath.usd"),
		AllTimeLow:  pathMoney(obj, "$.market_data.atl.usd"),
		Homepage:    pathString(obj, "$.links.homepage[0]"),
	}
	if v := pathString(obj, "$.id"); v != nil && *v != "" {
		d.ID = *v
	}
	if v := pathString(obj, "$.symbol"); v != nil {
		d.Symbol = strings.ToUpper(*v)
	}
	if v := pathString(obj, "$.name"); v != nil {
		d.Name = *v
	}
	if price := pathMoney(obj, "$.market_data.current_price.usd"); price != nil {
		d.Price, d.PriceKnown = *price, true
	}
	if d.Rank == nil {
		d.Rank = pathInt(obj, "$.market_data.market_cap_rank")
	}
	return d
}

// History returns the price of asset id over the last days, sorted by
// ascending time. days must be in [1, MaxHistoryDays].
func (c *Client) History(ctx context.Context, id string, days int) ([]coinfolio.HistoricalPoint, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: asset id is missing", coinfolio.ErrInvalidArgument)
	}
	if days < 1 || days > MaxHistoryDays {
		return nil, fmt.Errorf("%w: days must be within [1, %d], got %d", coinfolio.ErrInvalidArgument, MaxHistoryDays, days)
	}
	req := gate.Request{
		Path:  "coins/" + url.PathEscape(id) + "/market_chart",
		Query: url.Values{"vs_currency": {vsCurrency}, "days": {strconv.Itoa(days)}},
	}
	body, err := c.get(ctx, req, fmt.Sprintf("history of %q", id))
	if err != nil {
		return nil, err
	}
	var chart struct {
		Prices [][]json.Number `json:"prices"`
	}
	if err := decode(body, &chart); err != nil {
		return nil, fmt.Errorf("cannot decode history of %q: %w", id, err)
	}

	points := make([]coinfolio.HistoricalPoint, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		if len(p) < 2 {
			continue
		}
		ms, err := p[0].Int64()
		if err != nil {
			f, ferr := p[0].Float64()
			if ferr != nil {
				continue
			}
			ms = int64(f)
		}
		price := money(&p[1])
		if price == nil {
			continue
		}
		points = append(points, coinfolio.HistoricalPoint{Time: time.UnixMilli(ms).UTC(), Price: *price})
	}
	coinfolio.SortHistory(points)
	return points, nil
}

// CurrentPrices returns the current price of each asset. Assets without a
// price are absent from the map. An empty list is answered without a request.
func (c *Client) CurrentPrices(ctx context.Context, ids []string) (map[string]coinfolio.Money, error) {
	ids = unique(ids)
	prices := make(map[string]coinfolio.Money, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}
	req := gate.Request{
		Path:  "simple/price",
		Query: url.Values{"ids": {strings.Join(ids, ",")}, "vs_currencies": {vsCurrency}},
	}
	body, err := c.get(ctx, req, "prices")
	if err != nil {
		return nil, err
	}
	var data map[string]map[string]json.Number
	if err := decode(body, &data); err != nil {
		return nil, fmt.Errorf("cannot decode prices: %w", err)
	}
	for _, id := range ids {
		v, ok := data[id][vsCurrency]
		if !ok {
			continue
		}
		if price := money(&v); price != nil && !price.IsNegative() {
			prices[id] = *price
		}
	}
	return prices, nil
}

// unique removes empty and duplicated ids, keeping the first occurrence.
func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	return res
}

func money(n *json.Number) *coinfolio.Money {
	if n == nil || *n == "" {
		return nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return nil
	}
	m := coinfolio.USD(d)
	return &m
}

func percent(n *json.Number) *coinfolio.Percent {
	if n == nil || *n == "" {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	p := coinfolio.Percent(f)
	return &p
}

func integer(n *json.Number) *int {
	if n == nil || *n == "" {
		return nil
	}
	i, err := n.Int64()
	if err != nil {
		return nil
	}
	v := int(i)
	return &v
}
