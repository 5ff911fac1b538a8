package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/liamwears/vibeflix/internal/models"
)

// ErrNoCredential is returned when neither an api key nor a read token is configured
var ErrNoCredential = errors.New("no TMDB credential configured")

// Discovery request constants
const (
	discoverSortBy     = "popularity.desc"
	discoverMinVotes   = "200"
	discoverMaxResults = 12
	detailMaxCast      = 4
	detailMaxSimilar   = 6
)

// TMDBService handles interactions with The Movie Database API
type TMDBService struct {
	client       *http.Client
	apiKey       string
	bearer       bool
	baseURL      string
	imageBaseURL string
	timeout      time.Duration
}

// TMDBConfig holds TMDB service configuration
type TMDBConfig struct {
	// APIKey is a v3 key sent as the api_key query parameter
	APIKey string
	// ReadToken is a v4 read access token sent as a bearer token
	ReadToken    string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
}

// NewTMDBService creates a new TMDB service
func NewTMDBService(cfg TMDBConfig) *TMDBService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.themoviedb.org/3"
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = "https://image.tmdb.org/t/p"
	}

	client := &http.Client{}
	if cfg.ReadToken != "" {
		client = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.ReadToken,
		}))
	}
	client.Timeout = cfg.Timeout

	return &TMDBService{
		client:       client,
		apiKey:       cfg.APIKey,
		bearer:       cfg.ReadToken != "",
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		timeout:      cfg.Timeout,
	}
}

// HasCredential reports whether requests can be authenticated
func (s *TMDBService) HasCredential() bool {
	if s == nil {
		return false
	}
	return s.apiKey != "" || s.bearer
}

// TMDBMovie represents a movie record from discover and similar results
type TMDBMovie struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	PosterPath   *string  `json:"poster_path"`
	BackdropPath *string  `json:"backdrop_path"`
	ReleaseDate  string   `json:"release_date"`
	VoteAverage  *float64 `json:"vote_average"`
	Overview     string   `json:"overview"`
}

// TMDBMovieResponse represents a paged movie list response
type TMDBMovieResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// TMDBMovieDetails represents the full details of a movie
type TMDBMovieDetails struct {
	TMDBMovie
	Runtime *int `json:"runtime"`
}

// TMDBCast represents a billed actor
type TMDBCast struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// TMDBCrew represents a crew member
type TMDBCrew struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// TMDBCredits represents the credits of a movie
type TMDBCredits struct {
	ID   int        `json:"id"`
	Cast []TMDBCast `json:"cast"`
	Crew []TMDBCrew `json:"crew"`
}

// doRequest performs an HTTP request to TMDB API
func (s *TMDBService) doRequest(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if !s.HasCredential() {
		return nil, ErrNoCredential
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	if s.apiKey != "" {
		q.Set("api_key", s.apiKey)
	}
	q.Set("language", "en-US")
	for key, value := range params {
		q.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("TMDB API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// discoverParams builds the query parameters for /discover/movie
func discoverParams(query models.DiscoveryQuery) map[string]string {
	params := map[string]string{
		"sort_by":        discoverSortBy,
		"include_adult":  "false",
		"vote_count.gte": discoverMinVotes,
	}
	if len(query.GenreIDs) > 0 {
		params["with_genres"] = strings.Join(query.GenreIDs, ",")
	}
	if len(query.ProviderIDs) > 0 {
		params["with_watch_providers"] = strings.Join(query.ProviderIDs, "|")
		if query.Region != "" {
			params["watch_region"] = query.Region
		}
	}
	return params
}

// DiscoverMovies runs a filtered, popularity-ranked discovery query
func (s *TMDBService) DiscoverMovies(ctx context.Context, query models.DiscoveryQuery) (*TMDBMovieResponse, error) {
	body, err := s.doRequest(ctx, "/discover/movie", discoverParams(query))
	if err != nil {
		return nil, err
	}

	var response TMDBMovieResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal discover results: %w", err)
	}

	return &response, nil
}

// GetMovieDetails retrieves a movie by ID
func (s *TMDBService) GetMovieDetails(ctx context.Context, movieID int) (*TMDBMovieDetails, error) {
	body, err := s.doRequest(ctx, fmt.Sprintf("/movie/%d", movieID), nil)
	if err != nil {
		return nil, err
	}

	var movie TMDBMovieDetails
	if err := json.Unmarshal(body, &movie); err != nil {
		return nil, fmt.Errorf("failed to unmarshal movie: %w", err)
	}

	return &movie, nil
}

// GetCredits retrieves the cast and crew of a movie
func (s *TMDBService) GetCredits(ctx context.Context, movieID int) (*TMDBCredits, error) {
	body, err := s.doRequest(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil)
	if err != nil {
		return nil, err
	}

	var credits TMDBCredits
	if err := json.Unmarshal(body, &credits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credits: %w", err)
	}

	return &credits, nil
}

// GetSimilar retrieves titles similar to a movie
func (s *TMDBService) GetSimilar(ctx context.Context, movieID int) (*TMDBMovieResponse, error) {
	body, err := s.doRequest(ctx, fmt.Sprintf("/movie/%d/similar", movieID), map[string]string{"page": "1"})
	if err != nil {
		return nil, err
	}

	var response TMDBMovieResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal similar results: %w", err)
	}

	return &response, nil
}

// GetImageURL returns the full URL for an image path at the given size
func (s *TMDBService) GetImageURL(size string, path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	return s.imageBaseURL + "/" + size + *path
}

// ToMovie maps a raw record into a Movie. With posterBackdrop set a missing
// backdrop reuses the poster image before falling back to the placeholder.
func (s *TMDBService) ToMovie(raw TMDBMovie, posterBackdrop bool) models.Movie {
	movie := models.Movie{
		ID:          raw.ID,
		Title:       raw.Title,
		Overview:    raw.Overview,
		PosterURL:   s.GetImageURL("w500", raw.PosterPath),
		BackdropURL: s.GetImageURL("original", raw.BackdropPath),
		ReleaseDate: raw.ReleaseDate,
	}
	if raw.VoteAverage != nil {
		movie.Rating = *raw.VoteAverage
	}
	if strings.TrimSpace(movie.Overview) == "" {
		movie.Overview = NoOverview
	}
	if movie.ReleaseDate == "" {
		movie.ReleaseDate = UnknownReleaseDate
	}
	if movie.BackdropURL == "" && posterBackdrop {
		movie.BackdropURL = movie.PosterURL
	}
	if movie.PosterURL == "" {
		movie.PosterURL = PlaceholderPoster
	}
	if movie.BackdropURL == "" {
		movie.BackdropURL = PlaceholderBackdrop
	}
	return movie
}

// ToMovies maps at most limit raw records
func (s *TMDBService) ToMovies(raw []TMDBMovie, limit int, posterBackdrop bool) []models.Movie {
	if len(raw) > limit {
		raw = raw[:limit]
	}
	movies := make([]models.Movie, 0, len(raw))
	for _, r := range raw {
		movies = append(movies, s.ToMovie(r, posterBackdrop))
	}
	return movies
}

// ToCast maps the first billed actors
func (s *TMDBService) ToCast(raw []TMDBCast) []models.CastMember {
	if len(raw) > detailMaxCast {
		raw = raw[:detailMaxCast]
	}
	cast := make([]models.CastMember, 0, len(raw))
	for _, c := range raw {
		member := models.CastMember{
			ID:        c.ID,
			Name:      c.Name,
			Character: c.Character,
		}
		if url := s.GetImageURL("w185", c.ProfilePath); url != "" {
			member.ProfileURL = &url
		}
		cast = append(cast, member)
	}
	return cast
}

// DirectorOf returns the first crew member credited as Director
func DirectorOf(crew []TMDBCrew) string {
	for _, c := range crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return models.NoDirector
}

// ParseMovieID parses a positive catalog id from a path segment
func ParseMovieID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid movie id %q: %w", raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", raw)
	}
	return id, nil
}
