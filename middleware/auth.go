package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/raheem101000-netizen/gamehub/models"
	"github.com/raheem101000-netizen/gamehub/repositories"
)

// SessionCookieName is the cookie carrying the signed session identifier.
const SessionCookieName = "gamehub_session"

const jwtClaimSessionID = "sid"

// ErrUnauthorized covers every failure mode of session resolution: missing
// cookie, bad signature, unknown session, expired session.
var ErrUnauthorized = errors.New("missing or invalid session")

// Identity is the authenticated user resolved from the server-side
// session record. It is never built from client-supplied fields.
type Identity struct {
	UserID   int
	Username string
}

// SessionAuthenticator verifies the signed cookie value and resolves it
// to a server-side session row.
type SessionAuthenticator struct {
	secret   []byte
	sessions repositories.SessionRepository
	now      func() time.Time
}

func NewSessionAuthenticator(secret string, sessions repositories.SessionRepository) *SessionAuthenticator {
	return &SessionAuthenticator{
		secret:   []byte(secret),
		sessions: sessions,
		now:      time.Now,
	}
}

// ResolveCookie maps a raw cookie value to an identity. The cookie is an
// HS256-signed token whose only payload is the session id; identity data
// comes from the session row, not the token.
func (a *SessionAuthenticator) ResolveCookie(ctx context.Context, raw string) (*Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthorized
	}
	sessionID, ok := claims[jwtClaimSessionID].(string)
	if !ok || sessionID == "" {
		return nil, ErrUnauthorized
	}

	session, err := a.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if a.now().After(session.ExpiresAt) {
		return nil, ErrUnauthorized
	}

	return &Identity{UserID: session.UserID, Username: session.Username}, nil
}

// ResolveRequest resolves the identity from the request's session cookie.
func (a *SessionAuthenticator) ResolveRequest(r *http.Request) (*Identity, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return a.ResolveCookie(r.Context(), cookie.Value)
}

// IssueCookieValue signs a session id into a cookie value. Used when a
// session is created and by tests.
func (a *SessionAuthenticator) IssueCookieValue(session *models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		jwtClaimSessionID: session.ID,
		"exp":             session.ExpiresAt.Unix(),
	})
	return token.SignedString(a.secret)
}

type contextKey string

const identityContextKey contextKey = "identity"

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the authenticated identity stored by
// Authenticate.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok
}

// Authenticate rejects requests without a valid session cookie and stores
// the resolved identity in the request context.
func Authenticate(auth *SessionAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := auth.ResolveRequest(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
