package services

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/liamwears/vibeflix/internal/models"
)

// DetailService loads cast, similar titles, director and runtime for a movie
type DetailService struct {
	tmdb   *TMDBService
	logger hclog.Logger
}

// NewDetailService creates a new detail service
func NewDetailService(tmdb *TMDBService, logger hclog.Logger) *DetailService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DetailService{
		tmdb:   tmdb,
		logger: logger.Named("details"),
	}
}

// FetchDetails runs the credits, similar and details requests concurrently.
// Any failure yields models.EmptyDetails; partial results are discarded.
func (s *DetailService) FetchDetails(ctx context.Context, movieID int) models.MovieDetails {
	if !s.tmdb.HasCredential() {
		return models.EmptyDetails()
	}

	var (
		credits *TMDBCredits
		similar *TMDBMovieResponse
		details *TMDBMovieDetails
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		credits, err = s.tmdb.GetCredits(gctx, movieID)
		return err
	})
	g.Go(func() error {
		var err error
		similar, err = s.tmdb.GetSimilar(gctx, movieID)
		return err
	})
	g.Go(func() error {
		var err error
		details, err = s.tmdb.GetMovieDetails(gctx, movieID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to fetch movie details", "movie_id", movieID, "error", err)
		return models.EmptyDetails()
	}

	result := models.MovieDetails{
		Cast:     s.tmdb.ToCast(credits.Cast),
		Similar:  s.tmdb.ToMovies(similar.Results, detailMaxSimilar, true),
		Director: DirectorOf(credits.Crew),
	}
	if details.Runtime != nil {
		result.RuntimeMinutes = *details.Runtime
	}
	return result
}
