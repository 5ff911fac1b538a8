package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/liamwears/vibeflix/internal/database"
	"github.com/liamwears/vibeflix/internal/models"
)

// Storage keys shared with existing clients
const (
	PrefsKey     = "vibeFlixPrefs"
	MoodKey      = "vibeFlixMood"
	WatchlistKey = "vibeFlixWatchlist"
	RatingsKey   = "vibeFlixRatings"
)

var (
	ErrInvalidRating = errors.New("rating must be one of 2, 4, 6, 8 or 10")
	ErrInvalidMood   = errors.New("unknown mood")
)

// watchlistShape is the layout detected from the first stored element
type watchlistShape int

const (
	shapeEmpty watchlistShape = iota
	shapeLegacyIDs
	shapeMovies
	shapeUnknown
)

func (s watchlistShape) String() string {
	switch s {
	case shapeEmpty:
		return "empty"
	case shapeLegacyIDs:
		return "legacy-ids"
	case shapeMovies:
		return "movies"
	default:
		return "unknown"
	}
}

// ClientStores hands out stores scoped to a single client
type ClientStores struct {
	backend database.Backend
	known   map[int]models.Movie
	logger  hclog.Logger
	locks   sync.Map
}

// NewClientStores creates a factory; known nil uses KnownMovies
func NewClientStores(backend database.Backend, known map[int]models.Movie, logger hclog.Logger) *ClientStores {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ClientStores{
		backend: backend,
		known:   cloneKnown(known),
		logger:  logger.Named("store"),
	}
}

// For returns the store of one client. Stores for the same scope share a lock.
func (c *ClientStores) For(scope string) *ClientStore {
	mu, _ := c.locks.LoadOrStore(scope, &sync.Mutex{})
	return &ClientStore{
		storage: database.Scope(c.backend, scope),
		known:   c.known,
		logger:  c.logger.With("client", scope),
		mu:      mu.(*sync.Mutex),
	}
}

// Health reports on the underlying backend
func (c *ClientStores) Health(ctx context.Context) error {
	return c.backend.Health(ctx)
}

// ClientStore reads and writes one client's preferences, mood, watchlist and ratings.
// Storage failures are logged and degrade to defaults.
type ClientStore struct {
	storage database.Storage
	known   map[int]models.Movie
	logger  hclog.Logger
	mu      *sync.Mutex
}

// NewClientStore creates a store over a single client's storage; known nil uses KnownMovies
func NewClientStore(storage database.Storage, known map[int]models.Movie, logger hclog.Logger) *ClientStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ClientStore{
		storage: storage,
		known:   cloneKnown(known),
		logger:  logger,
		mu:      &sync.Mutex{},
	}
}

func (s *ClientStore) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.storage.GetItem(ctx, key)
	if err != nil {
		s.logger.Error("failed to read client storage", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

func (s *ClientStore) write(ctx context.Context, key, value string) {
	if err := s.storage.SetItem(ctx, key, value); err != nil {
		s.logger.Error("failed to write client storage", "key", key, "error", err)
	}
}

func (s *ClientStore) writeJSON(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode client storage", "key", key, "error", err)
		return
	}
	s.write(ctx, key, string(data))
}

func (s *ClientStore) remove(ctx context.Context, key string) {
	if err := s.storage.RemoveItem(ctx, key); err != nil {
		s.logger.Error("failed to remove client storage", "key", key, "error", err)
	}
}

// LoadPreferences returns empty preferences on missing or corrupt data
func (s *ClientStore) LoadPreferences(ctx context.Context) models.UserPreferences {
	raw, ok := s.read(ctx, PrefsKey)
	if !ok {
		return models.UserPreferences{}.Normalize()
	}

	var prefs models.UserPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		s.logger.Warn("corrupt preferences, using defaults", "error", err)
		return models.UserPreferences{}.Normalize()
	}
	return prefs.Normalize()
}

// SavePreferences overwrites the stored preferences
func (s *ClientStore) SavePreferences(ctx context.Context, prefs models.UserPreferences) models.UserPreferences {
	prefs = prefs.Normalize()
	s.writeJSON(ctx, PrefsKey, prefs)
	return prefs
}

// UpdatePreferences applies fn to the stored preferences and saves the result
func (s *ClientStore) UpdatePreferences(ctx context.Context, fn func(models.UserPreferences) models.UserPreferences) models.UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SavePreferences(ctx, fn(s.LoadPreferences(ctx)))
}

// LoadMood returns the stored mood, or "" when none or an unknown value is stored
func (s *ClientStore) LoadMood(ctx context.Context) models.Mood {
	raw, ok := s.read(ctx, MoodKey)
	if !ok {
		return ""
	}
	mood := models.Mood(strings.TrimSpace(raw))
	if !mood.IsValid() {
		s.logger.Warn("ignoring unknown stored mood", "mood", raw)
		return ""
	}
	return mood
}

// SaveMood stores the mood as a plain string
func (s *ClientStore) SaveMood(ctx context.Context, mood models.Mood) error {
	if !mood.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMood, mood)
	}
	s.write(ctx, MoodKey, mood.String())
	return nil
}

// ClearMood removes the stored mood
func (s *ClientStore) ClearMood(ctx context.Context) {
	s.remove(ctx, MoodKey)
}

// LoadState reads the selection state shared by every screen
func (s *ClientStore) LoadState(ctx context.Context) models.AppState {
	return models.AppState{
		Mood:        s.LoadMood(ctx),
		Preferences: s.LoadPreferences(ctx),
	}
}

// SaveState writes mood and preferences together; an empty mood clears it
func (s *ClientStore) SaveState(ctx context.Context, state models.AppState) (models.AppState, error) {
	if state.Mood != "" && !state.Mood.IsValid() {
		return models.AppState{}, fmt.Errorf("%w: %q", ErrInvalidMood, state.Mood)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if state.Mood == "" {
		s.ClearMood(ctx)
	} else if err := s.SaveMood(ctx, state.Mood); err != nil {
		return models.AppState{}, err
	}
	state.Preferences = s.SavePreferences(ctx, state.Preferences)
	return state, nil
}

// LoadWatchlist returns the watchlist in the current shape. Legacy id lists are
// resolved against the known table; corrupt data yields an empty list.
func (s *ClientStore) LoadWatchlist(ctx context.Context) []models.Movie {
	raw, ok := s.read(ctx, WatchlistKey)
	if !ok {
		return []models.Movie{}
	}
	movies, shape := s.decodeWatchlist(raw)
	if shape == shapeLegacyIDs {
		s.logger.Debug("read legacy watchlist", "entries", len(movies))
	}
	return movies
}

func elementShape(elem json.RawMessage) watchlistShape {
	trimmed := bytes.TrimSpace(elem)
	if len(trimmed) == 0 {
		return shapeUnknown
	}
	switch c := trimmed[0]; {
	case c == '{':
		return shapeMovies
	case c == '-' || (c >= '0' && c <= '9'):
		return shapeLegacyIDs
	default:
		return shapeUnknown
	}
}

func (s *ClientStore) decodeWatchlist(raw string) ([]models.Movie, watchlistShape) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		s.logger.Warn("corrupt watchlist, using empty list", "error", err)
		return []models.Movie{}, shapeUnknown
	}
	if len(elems) == 0 {
		return []models.Movie{}, shapeEmpty
	}

	movies := make([]models.Movie, 0, len(elems))
	for _, elem := range elems {
		var (
			movie models.Movie
			ok    bool
		)
		switch elementShape(elem) {
		case shapeLegacyIDs:
			movie, ok = s.resolveLegacyID(elem)
		case shapeMovies:
			ok = json.Unmarshal(elem, &movie) == nil && movie.ID != 0
		}
		if !ok {
			s.logger.Debug("skipping unreadable watchlist entry", "entry", string(elem))
			continue
		}
		movies = upsertMovie(movies, movie)
	}
	return movies, elementShape(elems[0])
}

func (s *ClientStore) resolveLegacyID(elem json.RawMessage) (models.Movie, bool) {
	var n float64
	if err := json.Unmarshal(elem, &n); err != nil || n != math.Trunc(n) || n == 0 {
		return models.Movie{}, false
	}
	id := int(n)
	if movie, ok := s.known[id]; ok {
		return movie, true
	}
	return PlaceholderMovie(id), true
}

// upsertMovie replaces an entry with the same id in place or appends
func upsertMovie(movies []models.Movie, movie models.Movie) []models.Movie {
	for i := range movies {
		if movies[i].ID == movie.ID {
			movies[i] = movie
			return movies
		}
	}
	return append(movies, movie)
}

func (s *ClientStore) saveWatchlist(ctx context.Context, movies []models.Movie) {
	if movies == nil {
		movies = []models.Movie{}
	}
	s.writeJSON(ctx, WatchlistKey, movies)
}

// AddToWatchlist upserts a movie by id and returns the new list
func (s *ClientStore) AddToWatchlist(ctx context.Context, movie models.Movie) []models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies := upsertMovie(s.LoadWatchlist(ctx), movie)
	s.saveWatchlist(ctx, movies)
	return movies
}

// AddToWatchlistByID adds a placeholder entry; added is false when the id is already present
func (s *ClientStore) AddToWatchlistByID(ctx context.Context, id int) (models.Movie, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies := s.LoadWatchlist(ctx)
	for _, m := range movies {
		if m.ID == id {
			return m, false
		}
	}

	movie := PlaceholderMovie(id)
	s.saveWatchlist(ctx, append(movies, movie))
	return movie, true
}

// RemoveFromWatchlist drops the entry with the given id; a missing id is a no-op
func (s *ClientStore) RemoveFromWatchlist(ctx context.Context, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies := s.LoadWatchlist(ctx)
	kept := movies[:0]
	for _, m := range movies {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(movies) {
		return false
	}
	s.saveWatchlist(ctx, kept)
	return true
}

// ClearWatchlist stores an empty list
func (s *ClientStore) ClearWatchlist(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveWatchlist(ctx, []models.Movie{})
}

// LoadRatings returns movie id to rating; entries that are not valid levels are dropped
func (s *ClientStore) LoadRatings(ctx context.Context) map[int]int {
	ratings := map[int]int{}
	raw, ok := s.read(ctx, RatingsKey)
	if !ok {
		return ratings
	}

	var stored map[string]float64
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("corrupt ratings, using defaults", "error", err)
		return ratings
	}
	for key, value := range stored {
		id, err := strconv.Atoi(key)
		if err != nil || value != math.Trunc(value) || !models.IsValidRating(int(value)) {
			continue
		}
		ratings[id] = int(value)
	}
	return ratings
}

// SetRating overwrites the rating for one movie
func (s *ClientStore) SetRating(ctx context.Context, movieID, rating int) (map[int]int, error) {
	if !models.IsValidRating(rating) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ratings := s.LoadRatings(ctx)
	ratings[movieID] = rating
	s.writeJSON(ctx, RatingsKey, ratings)
	return ratings, nil
}
