package handlers

import (
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/liamwears/vibeflix/internal/models"
	"github.com/liamwears/vibeflix/internal/services"
	"github.com/liamwears/vibeflix/internal/vocabulary"
)

// RecommendationHandler serves mood-driven suggestions
type RecommendationHandler struct {
	recommendations *services.RecommendationService
	stores          *services.ClientStores
	feeds           *services.Feeds
	pickMood        func(models.Mood) models.Mood
	logger          hclog.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendations *services.RecommendationService, stores *services.ClientStores, feeds *services.Feeds, logger hclog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		stores:          stores,
		feeds:           feeds,
		pickMood: func(selected models.Mood) models.Mood {
			return vocabulary.EffectiveMood(selected, nil)
		},
		logger: logger,
	}
}

// RecommendationResponse is the body of every suggestions endpoint
type RecommendationResponse struct {
	Mood   models.Mood    `json:"mood"`
	Movies []models.Movie `json:"movies"`
	Count  int            `json:"count"`
	Source string         `json:"source"`
}

func newRecommendationResponse(mood models.Mood, source string, movies []models.Movie) RecommendationResponse {
	return RecommendationResponse{
		Mood:   mood,
		Movies: movies,
		Count:  len(movies),
		Source: source,
	}
}

// Get handles GET /api/recommendations
func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, scope, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}

	state := store.LoadState(r.Context())
	if raw := r.URL.Query().Get("mood"); raw != "" {
		mood := models.Mood(raw)
		if !mood.IsValid() {
			writeError(w, http.StatusBadRequest, "Unknown mood")
			return
		}
		state.Mood = mood
	}

	h.serve(w, r, scope, state)
}

// Shuffle handles POST /api/recommendations/shuffle. Without a stored mood a
// random one is picked for this request only.
func (h *RecommendationHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	store, scope, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}

	state := store.LoadState(r.Context())
	state.Mood = h.pickMood(state.Mood)

	h.serve(w, r, scope, state)
}

func (h *RecommendationHandler) serve(w http.ResponseWriter, r *http.Request, scope string, state models.AppState) {
	feed := h.feeds.For(scope)
	ticket := feed.Issue()

	outcome := h.recommendations.FetchRecommendations(r.Context(), state.Mood, state.Preferences)
	if outcome.IsFallback() {
		h.logger.Info("serving sample movies", "reason", outcome.Reason)
	}

	movies := outcome.Movies()
	source := outcome.Kind.String()
	if !feed.Commit(ticket, state.Mood, source, movies) {
		h.logger.Debug("newer request issued, result not committed", "ticket", ticket)
	}

	writeJSON(w, http.StatusOK, newRecommendationResponse(state.Mood, source, movies))
}

// Current handles GET /api/recommendations/current
func (h *RecommendationHandler) Current(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}

	mood, source, movies := h.feeds.For(scope).Current()
	writeJSON(w, http.StatusOK, newRecommendationResponse(mood, source, movies))
}
