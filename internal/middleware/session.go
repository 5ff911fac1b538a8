package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/liamwears/vibeflix/internal/database"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ProfileIDContextKey is the key for storing the anonymous client profile in context
const ProfileIDContextKey ContextKey = "profileID"

// SessionMiddleware gives every client an anonymous profile carried by a cookie
type SessionMiddleware struct {
	sessions     database.Sessions
	cookieName   string
	ttl          time.Duration
	isProduction bool
	logger       hclog.Logger
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(sessions database.Sessions, cookieName string, ttl time.Duration, isProduction bool, logger hclog.Logger) *SessionMiddleware {
	if cookieName == "" {
		cookieName = "session"
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SessionMiddleware{
		sessions:     sessions,
		cookieName:   cookieName,
		ttl:          ttl,
		isProduction: isProduction,
		logger:       logger.Named("session"),
	}
}

// Attach resolves the session cookie to a profile, starting a new session when
// the cookie is missing, unknown or expired
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			profileID, err := m.sessions.Get(r.Context(), cookie.Value)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(WithProfileID(r.Context(), profileID)))
				return
			}
			if !errors.Is(err, database.ErrSessionNotFound) {
				m.logger.Warn("session lookup failed, starting a new one", "error", err)
			}
		}

		profileID, err := m.start(r.Context(), w)
		if err != nil {
			m.logger.Error("failed to start session", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to start session")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithProfileID(r.Context(), profileID)))
	})
}

func (m *SessionMiddleware) start(ctx context.Context, w http.ResponseWriter) (uuid.UUID, error) {
	sessionID, err := m.sessions.GenerateSessionID()
	if err != nil {
		return uuid.Nil, err
	}
	profileID := uuid.New()
	if err := m.sessions.Set(ctx, sessionID, profileID); err != nil {
		return uuid.Nil, err
	}
	m.SetSessionCookie(w, sessionID)
	m.logger.Debug("started session", "profile", profileID)
	return profileID, nil
}

// WithProfileID stores the client profile in ctx
func WithProfileID(ctx context.Context, profileID uuid.UUID) context.Context {
	return context.WithValue(ctx, ProfileIDContextKey, profileID)
}

// GetProfileIDFromContext retrieves the client profile from request context
func GetProfileIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	profileID, ok := ctx.Value(ProfileIDContextKey).(uuid.UUID)
	return profileID, ok
}

// SetSessionCookie sets a session cookie
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}
