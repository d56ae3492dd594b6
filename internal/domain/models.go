package domain

import "time"

// User is a registered account. Passwords are stored as-is: the service runs
// in single-user demo mode and authentication is out of scope.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// PortfolioItem is a recorded holding of a coin for one user.
type PortfolioItem struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	CoinID        string    `json:"coinId"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Amount        float64   `json:"amount"`
	PurchasePrice float64   `json:"purchasePrice"`
	CreatedAt     time.Time `json:"createdAt"`
}

// WatchlistItem marks a coin a user follows without holding a position.
// At most one entry exists per (UserID, CoinID) pair.
type WatchlistItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	CoinID    string    `json:"coinId"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSettings holds per-user UI preferences. Exactly one record per user.
type UserSettings struct {
	ID          int            `json:"id"`
	UserID      int            `json:"userId"`
	Theme       string         `json:"theme"`
	Currency    string         `json:"currency"`
	Preferences map[string]any `json:"preferences"`
}

// DefaultSettings returns the settings a user starts with.
func DefaultSettings(userID int) UserSettings {
	return UserSettings{
		UserID:      userID,
		Theme:       "dark",
		Currency:    "usd",
		Preferences: map[string]any{},
	}
}

// NewsArticle is one entry of the static news feed.
type NewsArticle struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	ImageURL    string    `json:"imageUrl"`
	URL         string    `json:"url"`
}
