package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"cryptodash/internal/app"
	"cryptodash/internal/domain"
)

// demoUserID is the seeded "guest" user every record handler operates as.
// There is no authentication in this service.
const demoUserID = 1

type Server struct {
	addr   string
	svc    *app.Service
	logger *slog.Logger
	srv    *http.Server
}

func NewServer(addr string, svc *app.Service, logger *slog.Logger) *Server {
	return &Server{
		addr:   addr,
		svc:    svc,
		logger: logger,
	}
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /trending", s.handleTrending)
	mux.HandleFunc("GET /market-data", s.handleMarketData)
	mux.HandleFunc("GET /coins", s.handleCoins)
	mux.HandleFunc("GET /coins/{id}", s.handleCoinDetail)
	mux.HandleFunc("GET /coins/{id}/chart", s.handleCoinChart)
	mux.HandleFunc("GET /news", s.handleNews)

	mux.HandleFunc("GET /portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /portfolio/summary", s.handlePortfolioSummary)
	mux.HandleFunc("POST /portfolio", s.handleAddPortfolio)
	mux.HandleFunc("PUT /portfolio/{id}", s.handleUpdatePortfolio)
	mux.HandleFunc("DELETE /portfolio/{id}", s.handleDeletePortfolio)

	mux.HandleFunc("GET /watchlist", s.handleWatchlist)
	mux.HandleFunc("POST /watchlist", s.handleAddWatchlist)
	mux.HandleFunc("DELETE /watchlist/{id}", s.handleRemoveWatchlist)

	mux.HandleFunc("GET /settings", s.handleSettings)
	mux.HandleFunc("PUT /settings", s.handleUpdateSettings)

	return s.withLogging(mux)
}

func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		// graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http server starting", "addr", s.addr)
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// fail maps an error to a response. Gateway failures are logged with detail
// but the caller only sees the generic message.
func (s *Server) fail(w http.ResponseWriter, err error, generic string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeMessage(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, generic)
	default:
		s.logger.Error(generic, "err", err)
		writeMessage(w, http.StatusInternalServerError, generic)
	}
}
