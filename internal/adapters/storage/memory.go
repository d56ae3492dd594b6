// Package storage holds the in-memory record store. Records live for the
// lifetime of the process; identifiers count up per entity type and are
// never reused, even after deletion.
package storage

import (
	"sort"
	"sync"
	"time"

	"cryptodash/internal/domain"
)

// MemoryStore is a thread-safe in-memory implementation of ports.Store.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[int]domain.User
	portfolios map[int]domain.PortfolioItem
	watchlists map[int]domain.WatchlistItem
	settings   map[int]domain.UserSettings

	nextUserID      int
	nextPortfolioID int
	nextWatchlistID int
	nextSettingsID  int

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:           make(map[int]domain.User),
		portfolios:      make(map[int]domain.PortfolioItem),
		watchlists:      make(map[int]domain.WatchlistItem),
		settings:        make(map[int]domain.UserSettings),
		nextUserID:      1,
		nextPortfolioID: 1,
		nextWatchlistID: 1,
		nextSettingsID:  1,
		now:             time.Now,
	}

	// демо-пользователь, от имени которого работают все обработчики
	_, _ = s.CreateUser("guest", "password")

	return s
}

// --- users ---

func (s *MemoryStore) CreateUser(username, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return domain.User{}, domain.ErrUsernameTaken
		}
	}

	user := domain.User{
		ID:       s.nextUserID,
		Username: username,
		Password: password,
	}
	s.nextUserID++
	s.users[user.ID] = user

	// каждый пользователь сразу получает настройки по умолчанию
	s.createSettingsLocked(user.ID)

	return user, nil
}

func (s *MemoryStore) GetUser(id int) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *MemoryStore) GetUserByUsername(username string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return domain.User{}, false
}

// --- portfolio ---

func (s *MemoryStore) PortfolioByUser(userID int) []domain.PortfolioItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.PortfolioItem, 0)
	for _, p := range s.portfolios {
		if p.UserID == userID {
			items = append(items, p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (s *MemoryStore) GetPortfolioItem(id int) (domain.PortfolioItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[id]
	return p, ok
}

func (s *MemoryStore) AddPortfolioItem(item domain.PortfolioItem) domain.PortfolioItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.nextPortfolioID
	s.nextPortfolioID++
	item.CreatedAt = s.now()
	s.portfolios[item.ID] = item
	return item
}

// UpdatePortfolioItem merges the present fields into the stored item.
// ID and UserID never change.
func (s *MemoryStore) UpdatePortfolioItem(id int, upd domain.UpdatePortfolioRequest) (domain.PortfolioItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.portfolios[id]
	if !ok {
		return domain.PortfolioItem{}, false
	}
	if upd.Amount != nil {
		item.Amount = *upd.Amount
	}
	if upd.PurchasePrice != nil {
		item.PurchasePrice = *upd.PurchasePrice
	}
	s.portfolios[id] = item
	return item, true
}

func (s *MemoryStore) DeletePortfolioItem(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.portfolios[id]; !ok {
		return false
	}
	delete(s.portfolios, id)
	return true
}

// --- watchlist ---

func (s *MemoryStore) WatchlistByUser(userID int) []domain.WatchlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.WatchlistItem, 0)
	for _, w := range s.watchlists {
		if w.UserID == userID {
			items = append(items, w)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// AddToWatchlist is idempotent: a second add of the same (user, coin) pair
// returns the existing record unchanged.
func (s *MemoryStore) AddToWatchlist(userID int, coinID string) domain.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.watchlists {
		if w.UserID == userID && w.CoinID == coinID {
			return w
		}
	}

	item := domain.WatchlistItem{
		ID:        s.nextWatchlistID,
		UserID:    userID,
		CoinID:    coinID,
		CreatedAt: s.now(),
	}
	s.nextWatchlistID++
	s.watchlists[item.ID] = item
	return item
}

func (s *MemoryStore) RemoveFromWatchlist(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watchlists[id]; !ok {
		return false
	}
	delete(s.watchlists, id)
	return true
}

// --- settings ---

// GetOrCreateSettings returns the user's settings, creating defaults on first
// access. The second result reports whether this call created the record.
func (s *MemoryStore) GetOrCreateSettings(userID int) (domain.UserSettings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.settingsByUserLocked(userID); ok {
		return copySettings(st), false
	}
	return copySettings(s.createSettingsLocked(userID)), true
}

// UpdateSettings is an upsert: absent records are created with defaults, then
// the present fields are merged in.
func (s *MemoryStore) UpdateSettings(userID int, upd domain.UpdateSettingsRequest) domain.UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.settingsByUserLocked(userID)
	if !ok {
		st = s.createSettingsLocked(userID)
	}
	if upd.Theme != nil {
		st.Theme = *upd.Theme
	}
	if upd.Currency != nil {
		st.Currency = *upd.Currency
	}
	if upd.Preferences != nil {
		st.Preferences = copyPreferences(upd.Preferences)
	}
	s.settings[st.ID] = st
	return copySettings(st)
}

func (s *MemoryStore) settingsByUserLocked(userID int) (domain.UserSettings, bool) {
	for _, st := range s.settings {
		if st.UserID == userID {
			return st, true
		}
	}
	return domain.UserSettings{}, false
}

func (s *MemoryStore) createSettingsLocked(userID int) domain.UserSettings {
	st := domain.DefaultSettings(userID)
	st.ID = s.nextSettingsID
	s.nextSettingsID++
	s.settings[st.ID] = st
	return st
}

func copySettings(st domain.UserSettings) domain.UserSettings {
	st.Preferences = copyPreferences(st.Preferences)
	return st
}

func copyPreferences(prefs map[string]any) map[string]any {
	out := make(map[string]any, len(prefs))
	for k, v := range prefs {
		out[k] = v
	}
	return out
}
