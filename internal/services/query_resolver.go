package services

import (
	"slices"
	"strings"

	"github.com/liamwears/vibeflix/internal/models"
	"github.com/liamwears/vibeflix/internal/vocabulary"
)

// QueryResolver turns a mood and the user's filters into a discovery query
type QueryResolver struct {
	vocab  *vocabulary.Vocabulary
	region string
}

// NewQueryResolver creates a resolver; region is applied only when providers are present
func NewQueryResolver(vocab *vocabulary.Vocabulary, region string) *QueryResolver {
	if vocab == nil {
		vocab = vocabulary.Default()
	}
	return &QueryResolver{
		vocab:  vocab,
		region: region,
	}
}

// Resolve never fails. Unknown moods and unmapped names contribute nothing.
func (r *QueryResolver) Resolve(mood models.Mood, prefs models.UserPreferences) models.DiscoveryQuery {
	genres := make([]string, 0, len(prefs.Genres)+2)
	genres = append(genres, r.vocab.MoodGenreIDs(mood)...)
	for _, name := range prefs.Genres {
		if id, ok := r.vocab.GenreID(strings.TrimSpace(name)); ok {
			genres = append(genres, id)
		}
	}

	providers := make([]string, 0, len(prefs.Services))
	for _, name := range prefs.Services {
		if id, ok := r.vocab.ProviderID(strings.TrimSpace(name)); ok {
			providers = append(providers, id)
		}
	}

	query := models.DiscoveryQuery{
		GenreIDs:    sortedIDs(genres),
		ProviderIDs: sortedIDs(providers),
	}
	if len(query.ProviderIDs) > 0 {
		query.Region = r.region
	}
	return query
}

// sortedIDs dedupes and orders numeric id strings by value
func sortedIDs(ids []string) []string {
	slices.SortFunc(ids, compareIDs)
	return slices.Compact(ids)
}

func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}
