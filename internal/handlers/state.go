package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	"github.com/liamwears/vibeflix/internal/models"
	"github.com/liamwears/vibeflix/internal/services"
	"github.com/liamwears/vibeflix/internal/vocabulary"
)

// StateHandler serves the vocabulary and the client's mood and preferences
type StateHandler struct {
	stores *services.ClientStores
	vocab  *vocabulary.Vocabulary
	logger hclog.Logger
}

// NewStateHandler creates a new state handler
func NewStateHandler(stores *services.ClientStores, vocab *vocabulary.Vocabulary, logger hclog.Logger) *StateHandler {
	return &StateHandler{
		stores: stores,
		vocab:  vocab,
		logger: logger,
	}
}

// VocabularyResponse lists everything a client can select
type VocabularyResponse struct {
	Moods    []models.Mood `json:"moods"`
	Genres   []string      `json:"genres"`
	Services []string      `json:"services"`
}

// MoodRequest is the body of PUT /api/mood
type MoodRequest struct {
	Mood models.Mood `json:"mood"`
}

// Vocabulary handles GET /api/vocabulary
func (h *StateHandler) Vocabulary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VocabularyResponse{
		Moods:    models.Moods,
		Genres:   h.vocab.GenreNames(),
		Services: h.vocab.ServiceNames(),
	})
}

// GetState handles GET /api/state
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, store.LoadState(r.Context()))
}

// GetPreferences handles GET /api/preferences
func (h *StateHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, store.LoadPreferences(r.Context()))
}

// PutPreferences handles PUT /api/preferences
func (h *StateHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}

	var prefs models.UserPreferences
	if err := decodeJSON(w, r, &prefs); err != nil {
		h.logger.Debug("failed to decode preferences", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, store.SavePreferences(r.Context(), prefs))
}

// ToggleGenre handles POST /api/preferences/genres/{name}/toggle
func (h *StateHandler) ToggleGenre(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if _, known := h.vocab.GenreID(name); !known {
		writeError(w, http.StatusNotFound, "Unknown genre")
		return
	}
	h.toggle(w, r, func(p models.UserPreferences) models.UserPreferences {
		return p.ToggleGenre(name)
	})
}

// ToggleService handles POST /api/preferences/services/{name}/toggle
func (h *StateHandler) ToggleService(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if _, known := h.vocab.ProviderID(name); !known {
		writeError(w, http.StatusNotFound, "Unknown streaming service")
		return
	}
	h.toggle(w, r, func(p models.UserPreferences) models.UserPreferences {
		return p.ToggleService(name)
	})
}

// nameParam returns the decoded {name} segment; chi leaves it escaped when the raw path is used
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func (h *StateHandler) toggle(w http.ResponseWriter, r *http.Request, fn func(models.UserPreferences) models.UserPreferences) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, store.UpdatePreferences(r.Context(), fn))
}

// GetMood handles GET /api/mood
func (h *StateHandler) GetMood(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, MoodRequest{Mood: store.LoadMood(r.Context())})
}

// PutMood handles PUT /api/mood
func (h *StateHandler) PutMood(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}

	var req MoodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := store.SaveMood(r.Context(), req.Mood); err != nil {
		if errors.Is(err, services.ErrInvalidMood) {
			writeError(w, http.StatusBadRequest, "Unknown mood")
			return
		}
		h.logger.Error("failed to save mood", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save mood")
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// DeleteMood handles DELETE /api/mood
func (h *StateHandler) DeleteMood(w http.ResponseWriter, r *http.Request) {
	store, _, ok := clientStore(h.stores, w, r)
	if !ok {
		return
	}
	store.ClearMood(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
