package services

import (
	"slices"
	"sync"

	"github.com/liamwears/vibeflix/internal/models"
)

// Ticket identifies one issued recommendation request
type Ticket uint64

// Feed holds a client's current suggestions. Only the result of the most
// recently issued request is committed; late results from older requests are dropped.
type Feed struct {
	mu      sync.Mutex
	issued  Ticket
	current []models.Movie
	mood    models.Mood
	source  string
}

// Issue hands out the next ticket
func (f *Feed) Issue() Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	return f.issued
}

// Commit stores movies if ticket is still the latest issued
func (f *Feed) Commit(ticket Ticket, mood models.Mood, source string, movies []models.Movie) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ticket != f.issued {
		return false
	}
	f.current = slices.Clone(movies)
	f.mood = mood
	f.source = source
	return true
}

// Current returns the last committed suggestions
func (f *Feed) Current() (models.Mood, string, []models.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return f.mood, f.source, []models.Movie{}
	}
	return f.mood, f.source, slices.Clone(f.current)
}

// Feeds keeps one Feed per client
type Feeds struct {
	mu    sync.Mutex
	feeds map[string]*Feed
}

func NewFeeds() *Feeds {
	return &Feeds{feeds: make(map[string]*Feed)}
}

// For returns the feed of a client, creating it on first use
func (f *Feeds) For(scope string) *Feed {
	f.mu.Lock()
	defer f.mu.Unlock()
	feed, ok := f.feeds[scope]
	if !ok {
		feed = &Feed{}
		f.feeds[scope] = feed
	}
	return feed
}
