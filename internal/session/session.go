// Package session reads the signed session cookie issued by the host site
// and carries flash messages across redirects.
//
// Both cookies are HS256 JWTs. The photo album never logs anyone in; it only
// trusts what the host put in the session token.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vbonduro/photoalbum/internal/domain"
)

// Session is the visitor state the album cares about.
type Session struct {
	UserID   int64
	LoggedIn bool
	Manager  bool
}

// Anonymous is the session of a visitor without a valid cookie.
var Anonymous = &Session{}

// HasUser reports whether the session is bound to a user record.
func (s *Session) HasUser() bool {
	return s != nil && s.UserID != 0
}

// Visibilities lists the visibility levels the session may see.
func (s *Session) Visibilities() []domain.Visibility {
	v := []domain.Visibility{domain.VisibilityPublic}
	if s == nil {
		return v
	}
	if s.LoggedIn {
		v = append(v, domain.VisibilityRegister)
	}
	if s.Manager {
		v = append(v, domain.VisibilityManager)
	}
	return v
}

type claims struct {
	jwt.RegisteredClaims
	UserID   int64 `json:"uid,omitempty"`
	LoggedIn bool  `json:"logged_in,omitempty"`
	Manager  bool  `json:"manager,omitempty"`
}

// Options configures a Store.
type Options struct {
	Secret      string
	CookieName  string
	FlashCookie string
	TTL         time.Duration
	Secure      bool
}

type Store struct {
	secret      []byte
	cookieName  string
	flashCookie string
	ttl         time.Duration
	secure      bool
}

func NewStore(opts Options) (*Store, error) {
	if opts.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.FlashCookie == "" {
		opts.FlashCookie = opts.CookieName + "_flash"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Store{
		secret:      []byte(opts.Secret),
		cookieName:  opts.CookieName,
		flashCookie: opts.FlashCookie,
		ttl:         opts.TTL,
		secure:      opts.Secure,
	}, nil
}

func (s *Store) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secret, nil
}

// Issue signs a session token. The host site uses it at login; tests use it
// to act as a given visitor.
func (s *Store) Issue(sess Session) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   sess.UserID,
		LoggedIn: sess.LoggedIn,
		Manager:  sess.Manager,
	}
	if sess.UserID != 0 {
		c.Subject = fmt.Sprint(sess.UserID)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Cookie wraps a token from Issue in the session cookie.
func (s *Store) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	}
}

// Parse validates a session token.
func (s *Store) Parse(token string) (*Session, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, s.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session")
	}
	return &Session{UserID: c.UserID, LoggedIn: c.LoggedIn, Manager: c.Manager}, nil
}

// Load returns the request's session, or Anonymous when the cookie is
// missing or does not verify.
func (s *Store) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return Anonymous
	}
	sess, err := s.Parse(cookie.Value)
	if err != nil {
		return Anonymous
	}
	return sess
}

type ctxKey struct{}

// Middleware stores the request's session in its context.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxKey{}, s.Load(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the session stored by Middleware, or Anonymous.
func FromContext(ctx context.Context) *Session {
	if sess, ok := ctx.Value(ctxKey{}).(*Session); ok && sess != nil {
		return sess
	}
	return Anonymous
}
