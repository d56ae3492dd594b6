package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptodash/internal/adapters/cache"
	"cryptodash/internal/adapters/storage"
	"cryptodash/internal/domain"
)

type fakeMarket struct {
	mu     sync.Mutex
	calls  map[string]int
	prices map[string]float64
	err    error
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{calls: make(map[string]int)}
}

func (f *fakeMarket) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeMarket) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeMarket) Trending(context.Context) (json.RawMessage, error) {
	if err := f.hit("trending"); err != nil {
		return nil, err
	}
	return json.RawMessage(`{"coins":[]}`), nil
}

func (f *fakeMarket) GlobalMarket(context.Context) (json.RawMessage, error) {
	if err := f.hit("global"); err != nil {
		return nil, err
	}
	return json.RawMessage(`{"data":{}}`), nil
}

func (f *fakeMarket) Markets(_ context.Context, page, perPage int, currency string) (json.RawMessage, error) {
	if err := f.hit("markets"); err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(map[string]any{"page": page, "perPage": perPage, "currency": currency})
	return payload, nil
}

func (f *fakeMarket) CoinDetail(_ context.Context, coinID string) (json.RawMessage, error) {
	if err := f.hit("detail"); err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(map[string]string{"id": coinID})
	return payload, nil
}

func (f *fakeMarket) MarketChart(_ context.Context, coinID, days, currency string) (json.RawMessage, error) {
	if err := f.hit("chart"); err != nil {
		return nil, err
	}
	return json.RawMessage(`{"prices":[[1000,42.5]]}`), nil
}

func (f *fakeMarket) SimplePrices(_ context.Context, coinIDs []string, currency string) (map[string]float64, error) {
	if err := f.hit("simple"); err != nil {
		return nil, err
	}
	return f.prices, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(ttl time.Duration) (*Service, *fakeMarket, *storage.MemoryStore) {
	market := newFakeMarket()
	store := storage.NewMemoryStore()
	svc := NewService(discardLogger(), cache.NewMemoryCache(ttl), market, store)
	return svc, market, store
}

func TestCoinsServedFromCacheWithinTTL(t *testing.T) {
	ctx := context.Background()
	svc, market, _ := newTestService(60 * time.Millisecond)

	first, err := svc.Coins(ctx, 1, 5, "usd")
	require.NoError(t, err)
	second, err := svc.Coins(ctx, 1, 5, "usd")
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 1, market.count("markets"), "second call within TTL must be a cache hit")

	time.Sleep(80 * time.Millisecond)

	_, err = svc.Coins(ctx, 1, 5, "usd")
	require.NoError(t, err)
	assert.Equal(t, 2, market.count("markets"), "call after TTL must reach the gateway again")
}

func TestCoinsParameterCombinationsCachedSeparately(t *testing.T) {
	ctx := context.Background()
	svc, market, _ := newTestService(time.Minute)

	page1, err := svc.Coins(ctx, 1, 10, "usd")
	require.NoError(t, err)
	page2, err := svc.Coins(ctx, 2, 10, "usd")
	require.NoError(t, err)

	assert.NotEqual(t, string(page1), string(page2))
	assert.Equal(t, 2, market.count("markets"))
}

func TestGatewayFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	svc, market, _ := newTestService(time.Minute)

	market.err = errors.New("boom")
	_, err := svc.Trending(ctx)
	require.Error(t, err)

	market.err = nil
	payload, err := svc.Trending(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"coins":[]}`, string(payload))
	assert.Equal(t, 2, market.count("trending"))
}

func TestNewsIsStaticAndCached(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(time.Minute)

	first, err := svc.News(ctx)
	require.NoError(t, err)
	second, err := svc.News(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	var articles []domain.NewsArticle
	require.NoError(t, json.Unmarshal(first, &articles))
	require.Len(t, articles, 2)
	assert.Equal(t, "CoinDesk", articles[0].Source)
}

func TestPortfolioSummary(t *testing.T) {
	ctx := context.Background()
	svc, market, _ := newTestService(time.Minute)
	market.prices = map[string]float64{"bitcoin": 30000}

	amount, price := 1.5, 20000.0
	svc.AddPortfolioItem(1, domain.AddPortfolioRequest{
		CoinID: "bitcoin", Symbol: "btc", Name: "Bitcoin",
		Amount: &amount, PurchasePrice: &price,
	})

	summary, err := svc.PortfolioSummary(ctx, 1)
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 45000.0, summary.Items[0].Value)
	assert.Equal(t, 30000.0, summary.Items[0].Cost)
	assert.Equal(t, 15000.0, summary.Items[0].GainLoss)
	assert.Equal(t, 45000.0, summary.TotalValue)
	assert.Equal(t, 30000.0, summary.TotalCost)
	assert.Equal(t, 15000.0, summary.GainLoss)
	assert.Equal(t, 50.0, summary.GainLossPct)
}

func TestPortfolioSummaryEmptySkipsUpstream(t *testing.T) {
	ctx := context.Background()
	svc, market, _ := newTestService(time.Minute)

	summary, err := svc.PortfolioSummary(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Zero(t, summary.TotalValue)
	assert.Equal(t, 0, market.count("simple"))
}

func TestRecordDelegation(t *testing.T) {
	svc, _, _ := newTestService(time.Minute)

	item := svc.AddToWatchlist(1, "bitcoin")
	again := svc.AddToWatchlist(1, "bitcoin")
	assert.Equal(t, item.ID, again.ID)

	require.NoError(t, svc.RemoveFromWatchlist(item.ID))
	assert.ErrorIs(t, svc.RemoveFromWatchlist(item.ID), domain.ErrNotFound)

	_, err := svc.UpdatePortfolioItem(99, domain.UpdatePortfolioRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeletePortfolioItem(99), domain.ErrNotFound)

	settings := svc.Settings(1)
	assert.Equal(t, "dark", settings.Theme)
}
