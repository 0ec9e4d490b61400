package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"

	"sura/internal/domain/identity"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const identityContextKey contextKey = "identity"

// SessionCookieName is the browser cookie that carries the identity.
const SessionCookieName = "usuario"

// SessionStore keeps the current identity in a signed and encrypted cookie.
// It performs no network calls; the cookie has no Max-Age and lives for the
// browser session.
type SessionStore struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewSessionStore creates a cookie-backed session store.
// PRE: hashKey is 32 or 64 bytes; blockKey is 16, 24 or 32 bytes (or nil for sign-only)
// POST: Returns a store that encodes identities as JSON
func NewSessionStore(hashKey, blockKey []byte, secure bool) *SessionStore {
	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(0)
	return &SessionStore{codec: codec, secure: secure}
}

// Get decodes the identity from the request cookie.
// PRE: none
// POST: ok is false for a missing, tampered or empty session
func (s *SessionStore) Get(r *http.Request) (identity.Identity, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return identity.Identity{}, false
	}
	var id identity.Identity
	if err := s.codec.Decode(SessionCookieName, cookie.Value, &id); err != nil {
		slog.Debug("session_cookie_rejected", "error", err.Error())
		return identity.Identity{}, false
	}
	if id.IsZero() {
		return identity.Identity{}, false
	}
	return id, true
}

// Save writes the identity cookie, replacing any previous session.
// PRE: id passes Validate
// POST: Set-Cookie header written
func (s *SessionStore) Save(w http.ResponseWriter, id identity.Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}
	value, err := s.codec.Encode(SessionCookieName, id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// Clear removes the identity cookie.
func (s *SessionStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// Auth returns middleware that reads the session once and places the
// identity in the request context.
// It does NOT block unauthenticated requests; use Guard for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := sessions.Get(r); ok {
				r = r.WithContext(ContextWithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext extracts the identity placed by Auth.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(identity.Identity)
	return id, ok
}

// ContextWithIdentity returns a context carrying id.
// Used by Auth and by tests.
func ContextWithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}
