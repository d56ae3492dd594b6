package domain

// Inbound payloads. Numeric fields are pointers so "missing" and "zero" can
// be told apart during validation.

// AddPortfolioRequest is the body of POST /portfolio.
type AddPortfolioRequest struct {
	CoinID        string   `json:"coinId"`
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Amount        *float64 `json:"amount"`
	PurchasePrice *float64 `json:"purchasePrice"`
}

func (r *AddPortfolioRequest) Validate() error {
	if r.CoinID == "" {
		return invalid("coinId", "is required")
	}
	if r.Symbol == "" {
		return invalid("symbol", "is required")
	}
	if r.Name == "" {
		return invalid("name", "is required")
	}
	if r.Amount == nil {
		return invalid("amount", "is required")
	}
	if *r.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	if r.PurchasePrice == nil {
		return invalid("purchasePrice", "is required")
	}
	if *r.PurchasePrice <= 0 {
		return invalid("purchasePrice", "must be positive")
	}
	return nil
}

// UpdatePortfolioRequest is the body of PUT /portfolio/{id}. Absent fields
// keep their stored value. Present fields face the same positivity rules as
// on create.
type UpdatePortfolioRequest struct {
	Amount        *float64 `json:"amount"`
	PurchasePrice *float64 `json:"purchasePrice"`
}

func (r *UpdatePortfolioRequest) Validate() error {
	if r.Amount != nil && *r.Amount <= 0 {
		return invalid("amount", "must be positive")
	}
	if r.PurchasePrice != nil && *r.PurchasePrice <= 0 {
		return invalid("purchasePrice", "must be positive")
	}
	return nil
}

// AddWatchlistRequest is the body of POST /watchlist.
type AddWatchlistRequest struct {
	CoinID string `json:"coinId"`
}

func (r *AddWatchlistRequest) Validate() error {
	if r.CoinID == "" {
		return invalid("coinId", "is required")
	}
	return nil
}

// UpdateSettingsRequest is the body of PUT /settings (upsert).
type UpdateSettingsRequest struct {
	Theme       *string        `json:"theme"`
	Currency    *string        `json:"currency"`
	Preferences map[string]any `json:"preferences"`
}

func (r *UpdateSettingsRequest) Validate() error {
	if r.Theme != nil && *r.Theme != "dark" && *r.Theme != "light" {
		return invalid("theme", `must be "dark" or "light"`)
	}
	if r.Currency != nil && *r.Currency == "" {
		return invalid("currency", "must not be empty")
	}
	return nil
}
