package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"cryptodash/internal/domain"
	"cryptodash/internal/ports"
)

// Service ties the payload cache, the upstream market source and the record
// store together. Market reads go cache-first; record operations go straight
// to the store, which is local and cheap.
type Service struct {
	logger *slog.Logger
	cache  ports.Cache
	market ports.MarketSource
	store  ports.Store
	now    func() time.Time
}

func NewService(logger *slog.Logger, cache ports.Cache, market ports.MarketSource, store ports.Store) *Service {
	return &Service{
		logger: logger,
		cache:  cache,
		market: market,
		store:  store,
		now:    time.Now,
	}
}

// cached serves the payload from the cache when fresh, otherwise fetches it
// from upstream and stores the result. No lock is held across the fetch.
func (s *Service) cached(ctx context.Context, key ports.Key, fetch func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	if payload, ok := s.cache.Get(ctx, key); ok {
		return payload, nil
	}

	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, payload); err != nil {
		s.logger.Warn("cache set failed", "resource", key.Resource, "err", err)
	}
	return payload, nil
}

// --- market data, proxied and cached ---

func (s *Service) Trending(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, ports.NewKey("trending"), s.market.Trending)
}

func (s *Service) MarketData(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, ports.NewKey("market-data"), s.market.GlobalMarket)
}

func (s *Service) Coins(ctx context.Context, page, limit int, currency string) (json.RawMessage, error) {
	key := ports.NewKey("coins", strconv.Itoa(page), strconv.Itoa(limit), currency)
	return s.cached(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.market.Markets(ctx, page, limit, currency)
	})
}

func (s *Service) CoinDetail(ctx context.Context, coinID string) (json.RawMessage, error) {
	key := ports.NewKey("coin", coinID)
	return s.cached(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.market.CoinDetail(ctx, coinID)
	})
}

func (s *Service) CoinChart(ctx context.Context, coinID, days, currency string) (json.RawMessage, error) {
	key := ports.NewKey("chart", coinID, days, currency)
	return s.cached(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.market.MarketChart(ctx, coinID, days, currency)
	})
}

// News serves a fixed feed through the same cache path as the proxied
// resources. There is no real news provider behind it.
func (s *Service) News(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, ports.NewKey("news"), func(context.Context) (json.RawMessage, error) {
		return json.Marshal(s.newsFeed())
	})
}

func (s *Service) newsFeed() []domain.NewsArticle {
	now := s.now()
	return []domain.NewsArticle{
		{
			ID:          1,
			Title:       "Bitcoin Surpasses $63K as Institutional Adoption Continues",
			Summary:     "The world's largest cryptocurrency by market cap has reached new heights as institutional investors continue to...",
			Source:      "CoinDesk",
			PublishedAt: now.Add(-2 * time.Hour),
			ImageURL:    "https://images.unsplash.com/photo-1621761663457-38c28f830623?ixlib=rb-1.2.1&auto=format&fit=crop&w=100&q=80",
			URL:         "https://www.coindesk.com/",
		},
		{
			ID:          2,
			Title:       "Ethereum's Shanghai Upgrade on Track for March Release",
			Summary:     "Ethereum developers have confirmed the Shanghai upgrade is proceeding as planned, which will enable staked ETH withdrawals...",
			Source:      "The Block",
			PublishedAt: now.Add(-5 * time.Hour),
			ImageURL:    "https://images.unsplash.com/photo-1639152201720-5e6e620cce34?ixlib=rb-1.2.1&auto=format&fit=crop&w=100&q=80",
			URL:         "https://www.theblock.co/",
		},
	}
}

// --- records, delegated to the store ---

func (s *Service) Portfolio(userID int) []domain.PortfolioItem {
	return s.store.PortfolioByUser(userID)
}

func (s *Service) AddPortfolioItem(userID int, req domain.AddPortfolioRequest) domain.PortfolioItem {
	return s.store.AddPortfolioItem(domain.PortfolioItem{
		UserID:        userID,
		CoinID:        req.CoinID,
		Symbol:        req.Symbol,
		Name:          req.Name,
		Amount:        *req.Amount,
		PurchasePrice: *req.PurchasePrice,
	})
}

func (s *Service) UpdatePortfolioItem(id int, req domain.UpdatePortfolioRequest) (domain.PortfolioItem, error) {
	item, ok := s.store.UpdatePortfolioItem(id, req)
	if !ok {
		return domain.PortfolioItem{}, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) DeletePortfolioItem(id int) error {
	if !s.store.DeletePortfolioItem(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Watchlist(userID int) []domain.WatchlistItem {
	return s.store.WatchlistByUser(userID)
}

func (s *Service) AddToWatchlist(userID int, coinID string) domain.WatchlistItem {
	return s.store.AddToWatchlist(userID, coinID)
}

func (s *Service) RemoveFromWatchlist(id int) error {
	if !s.store.RemoveFromWatchlist(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Settings(userID int) domain.UserSettings {
	settings, created := s.store.GetOrCreateSettings(userID)
	if created {
		s.logger.Info("settings created with defaults", "user", userID)
	}
	return settings
}

func (s *Service) UpdateSettings(userID int, req domain.UpdateSettingsRequest) domain.UserSettings {
	return s.store.UpdateSettings(userID, req)
}

// --- portfolio summary ---

// SummaryItem is one holding valued at the current market price.
type SummaryItem struct {
	ID            int     `json:"id"`
	CoinID        string  `json:"coinId"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	PurchasePrice float64 `json:"purchasePrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	Value         float64 `json:"value"`
	Cost          float64 `json:"cost"`
	GainLoss      float64 `json:"gainLoss"`
}

type PortfolioSummary struct {
	TotalValue  float64       `json:"totalValue"`
	TotalCost   float64       `json:"totalCost"`
	GainLoss    float64       `json:"gainLoss"`
	GainLossPct float64       `json:"gainLossPct"`
	Items       []SummaryItem `json:"items"`
}

// PortfolioSummary values the user's holdings at current upstream prices in
// the currency from the user's settings. An empty portfolio short-circuits
// without touching upstream.
func (s *Service) PortfolioSummary(ctx context.Context, userID int) (PortfolioSummary, error) {
	items := s.store.PortfolioByUser(userID)
	summary := PortfolioSummary{Items: make([]SummaryItem, 0, len(items))}
	if len(items) == 0 {
		return summary, nil
	}

	settings, _ := s.store.GetOrCreateSettings(userID)

	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.CoinID]; ok {
			continue
		}
		seen[item.CoinID] = struct{}{}
		ids = append(ids, item.CoinID)
	}

	prices, err := s.simplePrices(ctx, ids, settings.Currency)
	if err != nil {
		return PortfolioSummary{}, err
	}

	totalValue := decimal.Zero
	totalCost := decimal.Zero
	for _, item := range items {
		amount := decimal.NewFromFloat(item.Amount)
		price := decimal.NewFromFloat(prices[item.CoinID])
		cost := amount.Mul(decimal.NewFromFloat(item.PurchasePrice))
		value := amount.Mul(price)

		totalValue = totalValue.Add(value)
		totalCost = totalCost.Add(cost)

		summary.Items = append(summary.Items, SummaryItem{
			ID:            item.ID,
			CoinID:        item.CoinID,
			Symbol:        item.Symbol,
			Name:          item.Name,
			Amount:        item.Amount,
			PurchasePrice: item.PurchasePrice,
			CurrentPrice:  round8(price),
			Value:         round8(value),
			Cost:          round8(cost),
			GainLoss:      round8(value.Sub(cost)),
		})
	}

	gainLoss := totalValue.Sub(totalCost)
	summary.TotalValue = round8(totalValue)
	summary.TotalCost = round8(totalCost)
	summary.GainLoss = round8(gainLoss)
	if !totalCost.IsZero() {
		summary.GainLossPct = round8(gainLoss.Div(totalCost).Mul(decimal.NewFromInt(100)))
	}
	return summary, nil
}

// simplePrices goes through the cache like every other upstream resource; the
// map is stored as its JSON encoding.
func (s *Service) simplePrices(ctx context.Context, coinIDs []string, currency string) (map[string]float64, error) {
	key := ports.NewKey("simple-price", append(append([]string{}, coinIDs...), currency)...)

	if payload, ok := s.cache.Get(ctx, key); ok {
		var prices map[string]float64
		if err := json.Unmarshal(payload, &prices); err == nil {
			return prices, nil
		}
	}

	prices, err := s.market.SimplePrices(ctx, coinIDs, currency)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(prices); err == nil {
		if err := s.cache.Set(ctx, key, payload); err != nil {
			s.logger.Warn("cache set failed", "resource", key.Resource, "err", err)
		}
	}
	return prices, nil
}

func round8(d decimal.Decimal) float64 {
	f, _ := d.Round(8).Float64()
	return f
}
