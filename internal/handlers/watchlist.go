package handlers

import (
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/liamwears/vibeflix/internal/models"
	"github.com/liamwears/vibeflix/internal/services"
)

// WatchlistHandler handles the client's watchlist and ratings
type WatchlistHandler struct {
	stores *services.ClientStores
	logger hclog.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(stores *services.ClientStores, logger hclog.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		stores: stores,
		logger: logger,
	}
}

// WatchlistResponse wraps the watchlist
type WatchlistResponse struct {
	Movies []models.Movie `json:"movies"`
	Count  int            `json:"count"`
}

// RatingRequest is the body of PUT /api/ratings/{id}
type RatingRequest struct {
	Rating int `json:"rating"`
}

func newWatchlistResponse(movies []models.Movie) WatchlistResponse {
	return WatchlistResponse{Movies: movies, Count: len(movies)}
}

// List handles GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newWatchlistResponse(store.LoadWatchlist(r.Context())))
}

// Add handles POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}

	// Parse request body
	var movie models.Movie
	if err := decodeJSON(w, r, &movie); err != nil {
		h.logger.Debug("failed to decode movie", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if movie.ID <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	movies := store.AddToWatchlist(r.Context(), movie)
	writeJSON(w, http.StatusOK, newWatchlistResponse(movies))
}

// AddByID handles POST /api/watchlist/{id}
func (h *WatchlistHandler) AddByID(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	movie, added := store.AddToWatchlistByID(r.Context(), movieID)
	if !added {
		writeError(w, http.StatusConflict, "Movie already in your watchlist")
		return
	}

	writeJSON(w, http.StatusCreated, movie)
}

// Remove handles DELETE /api/watchlist/{id}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	// removing an absent movie is not an error
	store.RemoveFromWatchlist(r.Context(), movieID)
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/watchlist
func (h *WatchlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	store.ClearWatchlist(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Ratings handles GET /api/ratings
func (h *WatchlistHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, store.LoadRatings(r.Context()))
}

// SetRating handles PUT /api/ratings/{id}
func (h *WatchlistHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	var req RatingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ratings, err := store.SetRating(r.Context(), movieID, req.Rating)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRating) {
			writeError(w, http.StatusBadRequest, "Rating must be one of 2, 4, 6, 8 or 10")
			return
		}
		h.logger.Error("failed to set rating", "movie_id", movieID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save rating")
		return
	}

	writeJSON(w, http.StatusOK, ratings)
}
