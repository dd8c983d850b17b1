package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Flash categories used by the album templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

type flashClaims struct {
	jwt.RegisteredClaims
	Flashes []Flash `json:"f"`
}

const flashTTL = 10 * time.Minute

func (s *Store) readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(s.flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	c := &flashClaims{}
	if _, err := jwt.ParseWithClaims(cookie.Value, c, s.keyFunc); err != nil {
		return nil
	}
	return c.Flashes
}

// AddFlash queues a message for the next page the visitor sees.
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	flashes := append(s.readFlashes(r), Flash{Category: category, Message: message})

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, flashClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
		Flashes: flashes,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.flashCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flashTTL.Seconds()),
	})
	return nil
}

// PopFlashes returns the queued messages and clears them.
func (s *Store) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := s.readFlashes(r)
	if _, err := r.Cookie(s.flashCookie); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     s.flashCookie,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secure,
			MaxAge:   -1,
		})
	}
	return flashes
}
