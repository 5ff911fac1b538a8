package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liamwears/vibeflix/internal/middleware"
	"github.com/liamwears/vibeflix/internal/services"
)

// maxBodyBytes bounds request bodies; a Movie snapshot is well under this
const maxBodyBytes = 64 << 10

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// clientStore returns the store of the client making the request
func clientStore(stores *services.ClientStores, w http.ResponseWriter, r *http.Request) (*services.ClientStore, string, bool) {
	profileID, ok := middleware.GetProfileIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, "", false
	}
	scope := profileID.String()
	return stores.For(scope), scope, true
}

// movieIDParam parses the {id} path segment, writing a 400 on failure
func movieIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := services.ParseMovieID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid movie ID")
		return 0, false
	}
	return id, true
}
