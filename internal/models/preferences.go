package models

import (
	"slices"
	"strings"
)

// Mood is the emotional vibe a user picks before asking for suggestions
type Mood string

const (
	MoodHappy     Mood = "Happy"
	MoodDramatic  Mood = "Dramatic"
	MoodThrilling Mood = "Thrilling"
	MoodWhimsical Mood = "Whimsical"
	MoodSpooky    Mood = "Spooky"
	MoodSad       Mood = "Sad"
)

// Moods lists every selectable mood in display order
var Moods = []Mood{MoodHappy, MoodDramatic, MoodThrilling, MoodWhimsical, MoodSpooky, MoodSad}

// String returns the string representation of Mood
func (m Mood) String() string {
	return string(m)
}

// IsValid checks if the mood is one of the known moods
func (m Mood) IsValid() bool {
	return slices.Contains(Moods, m)
}

// UserPreferences are the genre and streaming service filters a user has toggled on
type UserPreferences struct {
	Genres   []string `json:"genres"`
	Services []string `json:"services"`
}

// Normalize drops blanks and duplicates and never returns nil slices
func (p UserPreferences) Normalize() UserPreferences {
	return UserPreferences{
		Genres:   uniqueNames(p.Genres),
		Services: uniqueNames(p.Services),
	}
}

// ToggleGenre adds the genre when absent and removes it when present
func (p UserPreferences) ToggleGenre(name string) UserPreferences {
	p = p.Normalize()
	p.Genres = toggle(p.Genres, name)
	return p
}

// ToggleService adds the service when absent and removes it when present
func (p UserPreferences) ToggleService(name string) UserPreferences {
	p = p.Normalize()
	p.Services = toggle(p.Services, name)
	return p
}

func toggle(names []string, name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return names
	}
	if i := slices.Index(names, name); i >= 0 {
		return slices.Delete(names, i, i+1)
	}
	return append(names, name)
}

func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// AppState is the per-client selection state shared by every screen
type AppState struct {
	Mood        Mood            `json:"mood"`
	Preferences UserPreferences `json:"preferences"`
}

// DiscoveryQuery is the resolved filter set sent to the catalog's discover endpoint
type DiscoveryQuery struct {
	GenreIDs    []string `json:"genreIds"`
	ProviderIDs []string `json:"providerIds"`
	Region      string   `json:"region,omitempty"`
}

// Rating levels stored for the five star buttons
var RatingLevels = []int{2, 4, 6, 8, 10}

// IsValidRating checks the value is one of the five star levels
func IsValidRating(rating int) bool {
	return slices.Contains(RatingLevels, rating)
}
