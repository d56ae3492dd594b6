package ports

import "cryptodash/internal/domain"

// Store keeps user records in memory for the lifetime of the process.
// All inputs are copied in and all outputs are copied out; callers never
// share references with the store.
type Store interface {
	CreateUser(username, password string) (domain.User, error)
	GetUser(id int) (domain.User, bool)
	GetUserByUsername(username string) (domain.User, bool)

	PortfolioByUser(userID int) []domain.PortfolioItem
	GetPortfolioItem(id int) (domain.PortfolioItem, bool)
	AddPortfolioItem(item domain.PortfolioItem) domain.PortfolioItem
	UpdatePortfolioItem(id int, upd domain.UpdatePortfolioRequest) (domain.PortfolioItem, bool)
	DeletePortfolioItem(id int) bool

	WatchlistByUser(userID int) []domain.WatchlistItem
	AddToWatchlist(userID int, coinID string) domain.WatchlistItem
	RemoveFromWatchlist(id int) bool

	// GetOrCreateSettings reports whether the record was created on this call.
	GetOrCreateSettings(userID int) (domain.UserSettings, bool)
	UpdateSettings(userID int, upd domain.UpdateSettingsRequest) domain.UserSettings
}
