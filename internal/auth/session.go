package auth

import (
	"context"
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/oskars/refinerywatch/pkg/logging"
)

// SessionName is the name of the operator session cookie.
const SessionName = "refwatch-session"

// Session value keys.
const (
	SessionKeyAuthorized = "authorized"
	SessionKeyUser       = "user"
)

// DefaultSessionMaxAge is the session lifetime in seconds (12 hours).
const DefaultSessionMaxAge = 12 * 60 * 60

// Sessions issues and reads signed cookie sessions.
type Sessions struct {
	store   *sessions.CookieStore
	checker *Checker
}

var _ Authorizer = (*Sessions)(nil)

// SessionOptions configures cookie attributes.
type SessionOptions struct {
	// Secure restricts the cookie to HTTPS.
	Secure bool
	// MaxAge is the cookie lifetime in seconds. 0 uses DefaultSessionMaxAge.
	MaxAge int
}

// NewSessions creates a session issuer. The secret can be any passphrase;
// it is SHA-256 hashed to derive the signing key and must be stable
// across restarts.
func NewSessions(secret string, checker *Checker, opts SessionOptions) *Sessions {
	key := sha256.Sum256([]byte(secret))

	maxAge := opts.MaxAge
	if maxAge == 0 {
		maxAge = DefaultSessionMaxAge
	}

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	return &Sessions{store: store, checker: checker}
}

// Login checks the credentials and, on success, issues a session cookie.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, username, password string) error {
	if err := s.checker.Check(username, password); err != nil {
		logging.FromContext(r.Context()).Warn().
			Str("username", username).
			Msg("Rejected operator login")
		return err
	}

	// a decode error on a stale cookie still yields a fresh session
	session, _ := s.store.Get(r, SessionName)
	session.Values[SessionKeyAuthorized] = true
	session.Values[SessionKeyUser] = username
	return session.Save(r, w)
}

// Logout expires the session cookie.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, SessionKeyAuthorized)
	delete(session.Values, SessionKeyUser)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// FromRequest returns the authenticated operator of r, if any.
func (s *Sessions) FromRequest(r *http.Request) (string, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return "", false
	}
	if ok, _ := session.Values[SessionKeyAuthorized].(bool); !ok {
		return "", false
	}
	user, _ := session.Values[SessionKeyUser].(string)
	return user, user != ""
}

// Authorized implements Authorizer for contexts that passed Middleware.
func (s *Sessions) Authorized(ctx context.Context) bool {
	_, ok := User(ctx)
	return ok
}

// Middleware stores the session's operator in the request context so that
// Authorized can see it.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := s.FromRequest(r); ok {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}
