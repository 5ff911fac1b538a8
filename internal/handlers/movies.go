package handlers

import (
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/liamwears/vibeflix/internal/services"
)

// MovieHandler handles movie detail requests
type MovieHandler struct {
	details *services.DetailService
	logger  hclog.Logger
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(details *services.DetailService, logger hclog.Logger) *MovieHandler {
	return &MovieHandler{
		details: details,
		logger:  logger,
	}
}

// Details handles GET /api/movies/{id}/details. Catalog failures come back
// as empty details, never as an error status.
func (h *MovieHandler) Details(w http.ResponseWriter, r *http.Request) {
	// Get movie ID from path
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	// Call service
	details := h.details.FetchDetails(r.Context(), movieID)

	writeJSON(w, http.StatusOK, details)
}
