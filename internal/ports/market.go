package ports

import (
	"context"
	"encoding/json"
)

// MarketSource fetches market data from the upstream provider. Each call is a
// single attempt; failures carry the upstream status and are never retried
// here. Payloads are passed through unparsed where the server only proxies.
type MarketSource interface {
	Trending(ctx context.Context) (json.RawMessage, error)
	GlobalMarket(ctx context.Context) (json.RawMessage, error)
	Markets(ctx context.Context, page, perPage int, currency string) (json.RawMessage, error)
	CoinDetail(ctx context.Context, coinID string) (json.RawMessage, error)
	MarketChart(ctx context.Context, coinID, days, currency string) (json.RawMessage, error)
	SimplePrices(ctx context.Context, coinIDs []string, currency string) (map[string]float64, error)
}
