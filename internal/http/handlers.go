package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"cryptodash/internal/domain"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// --- market data ---

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	payload, err := s.svc.Trending(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to fetch trending coins")
		return
	}
	writeRaw(w, payload)
}

func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	payload, err := s.svc.MarketData(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to fetch market data")
		return
	}
	writeRaw(w, payload)
}

func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "page must be a number")
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "limit must be a number")
		return
	}
	currency := queryString(r, "currency", "usd")

	payload, err := s.svc.Coins(r.Context(), page, limit, currency)
	if err != nil {
		s.fail(w, err, "Failed to fetch coins")
		return
	}
	writeRaw(w, payload)
}

func (s *Server) handleCoinDetail(w http.ResponseWriter, r *http.Request) {
	coinID := r.PathValue("id")
	payload, err := s.svc.CoinDetail(r.Context(), coinID)
	if err != nil {
		s.fail(w, err, "Failed to fetch coin "+coinID)
		return
	}
	writeRaw(w, payload)
}

func (s *Server) handleCoinChart(w http.ResponseWriter, r *http.Request) {
	coinID := r.PathValue("id")
	days := queryString(r, "days", "1")
	currency := queryString(r, "currency", "usd")

	payload, err := s.svc.CoinChart(r.Context(), coinID, days, currency)
	if err != nil {
		s.fail(w, err, "Failed to fetch chart data for "+coinID)
		return
	}
	writeRaw(w, payload)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	payload, err := s.svc.News(r.Context())
	if err != nil {
		s.fail(w, err, "Failed to fetch news")
		return
	}
	writeRaw(w, payload)
}

// --- portfolio ---

func (s *Server) handlePortfolio(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Portfolio(demoUserID))
}

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.PortfolioSummary(r.Context(), demoUserID)
	if err != nil {
		s.fail(w, err, "Failed to compute portfolio summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAddPortfolio(w http.ResponseWriter, r *http.Request) {
	var req domain.AddPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err, "Failed to add portfolio item")
		return
	}
	writeJSON(w, http.StatusCreated, s.svc.AddPortfolioItem(demoUserID, req))
}

func (s *Server) handleUpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "id must be a number")
		return
	}

	var req domain.UpdatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err, "Failed to update portfolio item")
		return
	}

	item, err := s.svc.UpdatePortfolioItem(id, req)
	if err != nil {
		s.fail(w, err, "Portfolio item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "id must be a number")
		return
	}
	if err := s.svc.DeletePortfolioItem(id); err != nil {
		s.fail(w, err, "Portfolio item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- watchlist ---

func (s *Server) handleWatchlist(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Watchlist(demoUserID))
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	var req domain.AddWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err, "Failed to add to watchlist")
		return
	}
	writeJSON(w, http.StatusCreated, s.svc.AddToWatchlist(demoUserID, req.CoinID))
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "id must be a number")
		return
	}
	if err := s.svc.RemoveFromWatchlist(id); err != nil {
		s.fail(w, err, "Watchlist item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- settings ---

func (s *Server) handleSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Settings(demoUserID))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err, "Failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.UpdateSettings(demoUserID, req))
}

// --- request helpers ---

func queryString(r *http.Request, name, def string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return def
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func pathInt(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}
