package services

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/liamwears/vibeflix/internal/models"
)

// OutcomeKind tells which path produced a recommendation list
type OutcomeKind int

const (
	OutcomeMovies OutcomeKind = iota
	OutcomeEmpty
	OutcomeFallback
)

// String returns the name used for the kind in API responses
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeMovies:
		return "catalog"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Fallback reasons
const (
	ReasonNoCredential = "no credential"
	ReasonCatalogError = "catalog error"
)

// Outcome is the result of a recommendation fetch
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	movies []models.Movie
}

// MoviesOutcome wraps a non-empty catalog result
func MoviesOutcome(movies []models.Movie) Outcome {
	if len(movies) == 0 {
		return EmptyOutcome()
	}
	return Outcome{Kind: OutcomeMovies, movies: movies}
}

// EmptyOutcome reports that the catalog legitimately matched nothing
func EmptyOutcome() Outcome {
	return Outcome{Kind: OutcomeEmpty}
}

// FallbackOutcome carries a fresh copy of the sample set
func FallbackOutcome(reason string) Outcome {
	return Outcome{Kind: OutcomeFallback, Reason: reason, movies: SampleMovies()}
}

// Movies collapses the outcome to a plain list; never nil
func (o Outcome) Movies() []models.Movie {
	if o.movies == nil {
		return []models.Movie{}
	}
	return o.movies
}

// IsFallback reports whether the sample set was substituted
func (o Outcome) IsFallback() bool {
	return o.Kind == OutcomeFallback
}

// DiscoveryCache stores successful discovery results
type DiscoveryCache interface {
	Get(ctx context.Context, q models.DiscoveryQuery) ([]models.Movie, bool, error)
	Set(ctx context.Context, q models.DiscoveryQuery, movies []models.Movie) error
}

// RecommendationService resolves a mood and filters into catalog suggestions
type RecommendationService struct {
	tmdb     *TMDBService
	resolver *QueryResolver
	cache    DiscoveryCache
	logger   hclog.Logger
}

// NewRecommendationService creates a new recommendation service. cache may be nil.
func NewRecommendationService(tmdb *TMDBService, resolver *QueryResolver, cache DiscoveryCache, logger hclog.Logger) *RecommendationService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &RecommendationService{
		tmdb:     tmdb,
		resolver: resolver,
		cache:    cache,
		logger:   logger.Named("recommendations"),
	}
}

// FetchRecommendations never returns an error. Missing credentials and catalog
// failures produce a fallback outcome; zero matches produce an empty one.
func (s *RecommendationService) FetchRecommendations(ctx context.Context, mood models.Mood, prefs models.UserPreferences) Outcome {
	if !s.tmdb.HasCredential() {
		return FallbackOutcome(ReasonNoCredential)
	}

	query := s.resolver.Resolve(mood, prefs)

	if s.cache != nil {
		movies, ok, err := s.cache.Get(ctx, query)
		if err != nil {
			s.logger.Warn("cache read failed", "error", err)
		} else if ok {
			s.logger.Debug("cache hit", "mood", mood, "genres", query.GenreIDs, "providers", query.ProviderIDs)
			return MoviesOutcome(movies)
		}
	}

	resp, err := s.tmdb.DiscoverMovies(ctx, query)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return FallbackOutcome(ReasonNoCredential)
		}
		s.logger.Error("discovery request failed, using sample movies", "mood", mood, "error", err)
		return FallbackOutcome(ReasonCatalogError)
	}

	movies := s.tmdb.ToMovies(resp.Results, discoverMaxResults, false)

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, movies); err != nil {
			s.logger.Warn("cache write failed", "error", err)
		}
	}

	s.logger.Debug("discovery complete", "mood", mood, "results", len(movies))
	return MoviesOutcome(movies)
}
