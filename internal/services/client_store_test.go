package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamwears/vibeflix/internal/database"
	"github.com/liamwears/vibeflix/internal/models"
)

func newTestStore(t *testing.T, known map[int]models.Movie) (*ClientStore, database.Storage) {
	t.Helper()
	storage := database.Scope(database.NewMemoryBackend(), "client-1")
	return NewClientStore(storage, known, hclog.NewNullLogger()), storage
}

func seed(t *testing.T, storage database.Storage, key, value string) {
	t.Helper()
	require.NoError(t, storage.SetItem(context.Background(), key, value))
}

func stored(t *testing.T, storage database.Storage, key string) string {
	t.Helper()
	v, ok, err := storage.GetItem(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok, "key %s not stored", key)
	return v
}

type brokenStorage struct{}

var errBroken = errors.New("storage disabled")

func (brokenStorage) GetItem(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (brokenStorage) SetItem(context.Context, string, string) error         { return errBroken }
func (brokenStorage) RemoveItem(context.Context, string) error              { return errBroken }

func TestLoadWatchlistLegacyIDs(t *testing.T) {
	samples := SampleMovies()
	known := map[int]models.Movie{1: samples[0], 2: samples[1]}
	store, storage := newTestStore(t, known)
	seed(t, storage, WatchlistKey, "[1, 2, 3]")

	movies := store.LoadWatchlist(context.Background())

	require.Len(t, movies, 3)
	assert.Equal(t, samples[0], movies[0])
	assert.Equal(t, samples[1], movies[1])
	assert.Equal(t, PlaceholderMovie(3), movies[2])
	assert.Equal(t, "Movie ID 3", movies[2].Title)
	assert.Zero(t, movies[2].Rating)
}

func TestLoadWatchlistResolvesExtendedTable(t *testing.T) {
	store, storage := newTestStore(t, nil)
	seed(t, storage, WatchlistKey, "[104, 203, 999]")

	movies := store.LoadWatchlist(context.Background())

	require.Len(t, movies, 3)
	assert.Equal(t, "Sci-Fi Adventure", movies[0].Title)
	assert.Equal(t, "https://placehold.co/400x600/211f33/9881ff?text=Sci-Fi+Adventure", movies[0].PosterURL)
	assert.Equal(t, "Fantasy World", movies[1].Title)
	assert.Equal(t, "https://placehold.co/400x600/211f33/9881ff?text=Movie+999", movies[2].PosterURL)
}

func TestLoadWatchlistMixedShapesKeepsEveryEntry(t *testing.T) {
	store, storage := newTestStore(t, nil)
	seed(t, storage, WatchlistKey, `[5, {"id": 77, "title": "Appended", "rating": 6.5}]`)

	movies := store.LoadWatchlist(context.Background())

	require.Len(t, movies, 2)
	assert.Equal(t, "Heart's Echo", movies[0].Title)
	assert.Equal(t, "Appended", movies[1].Title)
}

func TestLoadWatchlistCorruptOrMissing(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"object instead of array", `{"id": 1}`},
		{"empty array", "[]"},
		{"unreadable entries", `["x", null, true]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, storage := newTestStore(t, nil)
			seed(t, storage, WatchlistKey, tt.raw)

			movies := store.LoadWatchlist(context.Background())
			assert.NotNil(t, movies)
			assert.Empty(t, movies)
		})
	}

	store, _ := newTestStore(t, nil)
	assert.Empty(t, store.LoadWatchlist(context.Background()))
}

func TestAddToWatchlistUpserts(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t, nil)

	store.AddToWatchlist(ctx, models.Movie{ID: 10, Title: "First", Rating: 5})
	store.AddToWatchlist(ctx, models.Movie{ID: 11, Title: "Other"})
	movies := store.AddToWatchlist(ctx, models.Movie{ID: 10, Title: "Second", Rating: 8})

	require.Len(t, movies, 2)
	assert.Equal(t, "Second", movies[0].Title)
	assert.Equal(t, 8.0, movies[0].Rating)

	var persisted []models.Movie
	require.NoError(t, json.Unmarshal([]byte(stored(t, storage, WatchlistKey)), &persisted))
	assert.Equal(t, movies, persisted)
}

func TestWriteUpgradesLegacyShape(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t, nil)
	seed(t, storage, WatchlistKey, "[1, 2]")

	store.AddToWatchlist(ctx, models.Movie{ID: 3, Title: "New"})

	raw := stored(t, storage, WatchlistKey)
	assert.Equal(t, byte('{'), raw[1], "watchlist must be persisted as movie objects: %s", raw)

	var persisted []models.Movie
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Len(t, persisted, 3)
	assert.Equal(t, "The Grand Adventure", persisted[0].Title)
}

func TestRemoveFromWatchlist(t *testing.T) {
	ctx := context.Background()

	t.Run("legacy shape", func(t *testing.T) {
		store, storage := newTestStore(t, nil)
		seed(t, storage, WatchlistKey, "[1, 2, 3]")

		assert.True(t, store.RemoveFromWatchlist(ctx, 2))
		movies := store.LoadWatchlist(ctx)
		require.Len(t, movies, 2)
		assert.Equal(t, 1, movies[0].ID)
		assert.Equal(t, 3, movies[1].ID)
	})

	t.Run("current shape", func(t *testing.T) {
		store, _ := newTestStore(t, nil)
		store.AddToWatchlist(ctx, models.Movie{ID: 7, Title: "Seven"})

		assert.True(t, store.RemoveFromWatchlist(ctx, 7))
		assert.Empty(t, store.LoadWatchlist(ctx))
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		store, storage := newTestStore(t, nil)
		seed(t, storage, WatchlistKey, "[1]")

		assert.False(t, store.RemoveFromWatchlist(ctx, 42))
		assert.Equal(t, "[1]", stored(t, storage, WatchlistKey))
	})
}

func TestAddToWatchlistByID(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, nil)

	movie, added := store.AddToWatchlistByID(ctx, 550)
	assert.True(t, added)
	assert.Equal(t, "Movie ID 550", movie.Title)
	assert.Equal(t, UnknownReleaseDate, movie.ReleaseDate)

	_, added = store.AddToWatchlistByID(ctx, 550)
	assert.False(t, added)
	assert.Len(t, store.LoadWatchlist(ctx), 1)
}

func TestClearWatchlist(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t, nil)
	store.AddToWatchlist(ctx, models.Movie{ID: 1})

	store.ClearWatchlist(ctx)

	assert.Equal(t, "[]", stored(t, storage, WatchlistKey))
	assert.Empty(t, store.LoadWatchlist(ctx))
}

func TestSetRating(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t, nil)

	_, err := store.SetRating(ctx, 99, 4)
	require.NoError(t, err)
	_, err = store.SetRating(ctx, 42, 6)
	require.NoError(t, err)

	ratings := store.LoadRatings(ctx)
	assert.Equal(t, 6, ratings[42])
	assert.Equal(t, 4, ratings[99])
	assert.Equal(t, `{"42":6,"99":4}`, stored(t, storage, RatingsKey))

	_, err = store.SetRating(ctx, 42, 10)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{42: 10, 99: 4}, store.LoadRatings(ctx))
}

func TestSetRatingRejectsInvalidLevels(t *testing.T) {
	store, _ := newTestStore(t, nil)

	for _, r := range []int{0, 3, 11} {
		_, err := store.SetRating(context.Background(), 1, r)
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	assert.Empty(t, store.LoadRatings(context.Background()))
}

func TestLoadRatingsDropsBadEntries(t *testing.T) {
	store, storage := newTestStore(t, nil)
	seed(t, storage, RatingsKey, `{"1": 8, "abc": 6, "2": 7, "3": 4.5, "4": 2}`)

	assert.Equal(t, map[int]int{1: 8, 4: 2}, store.LoadRatings(context.Background()))
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t, nil)

	assert.Equal(t, models.UserPreferences{Genres: []string{}, Services: []string{}}, store.LoadPreferences(ctx))

	store.SavePreferences(ctx, models.UserPreferences{Genres: []string{"Drama", "Drama"}, Services: []string{"Hulu"}})
	assert.Equal(t, `{"genres":["Drama"],"services":["Hulu"]}`, stored(t, storage, PrefsKey))

	prefs := store.UpdatePreferences(ctx, func(p models.UserPreferences) models.UserPreferences {
		return p.ToggleGenre("Horror")
	})
	assert.Equal(t, []string{"Drama", "Horror"}, prefs.Genres)
	assert.Equal(t, prefs, store.LoadPreferences(ctx))

	seed(t, storage, PrefsKey, "not json")
	assert.Empty(t, store.LoadPreferences(ctx).Genres)
}

func TestMood(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t, nil)

	assert.Equal(t, models.Mood(""), store.LoadMood(ctx))

	require.NoError(t, store.SaveMood(ctx, models.MoodSpooky))
	assert.Equal(t, "Spooky", stored(t, storage, MoodKey))
	assert.Equal(t, models.MoodSpooky, store.LoadMood(ctx))

	assert.ErrorIs(t, store.SaveMood(ctx, "Angry"), ErrInvalidMood)

	seed(t, storage, MoodKey, "Melancholy")
	assert.Equal(t, models.Mood(""), store.LoadMood(ctx))

	store.ClearMood(ctx)
	_, ok, _ := storage.GetItem(ctx, MoodKey)
	assert.False(t, ok)
}

func TestState(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, nil)

	saved, err := store.SaveState(ctx, models.AppState{
		Mood:        models.MoodHappy,
		Preferences: models.UserPreferences{Services: []string{"Netflix"}},
	})
	require.NoError(t, err)
	assert.Equal(t, saved, store.LoadState(ctx))

	_, err = store.SaveState(ctx, models.AppState{Mood: "Bored"})
	assert.ErrorIs(t, err, ErrInvalidMood)
	assert.Equal(t, models.MoodHappy, store.LoadMood(ctx))

	_, err = store.SaveState(ctx, models.AppState{})
	require.NoError(t, err)
	assert.Equal(t, models.Mood(""), store.LoadMood(ctx))
}

func TestStorageFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	store := NewClientStore(brokenStorage{}, nil, hclog.NewNullLogger())

	assert.Empty(t, store.LoadWatchlist(ctx))
	assert.Empty(t, store.LoadRatings(ctx))
	assert.Equal(t, models.Mood(""), store.LoadMood(ctx))
	assert.Empty(t, store.LoadPreferences(ctx).Genres)

	assert.NotPanics(t, func() {
		store.AddToWatchlist(ctx, models.Movie{ID: 1})
		store.ClearWatchlist(ctx)
		store.ClearMood(ctx)
	})
	_, err := store.SetRating(ctx, 1, 2)
	assert.NoError(t, err)
	assert.NoError(t, store.SaveMood(ctx, models.MoodSad))
}

func TestClientStoresAreScoped(t *testing.T) {
	ctx := context.Background()
	stores := NewClientStores(database.NewMemoryBackend(), nil, nil)

	stores.For("a").AddToWatchlist(ctx, models.Movie{ID: 1})

	assert.Len(t, stores.For("a").LoadWatchlist(ctx), 1)
	assert.Empty(t, stores.For("b").LoadWatchlist(ctx))
	assert.Same(t, stores.For("a").mu, stores.For("a").mu)
	assert.NoError(t, stores.Health(ctx))
}
