// Package session owns the anonymous cart identity: an opaque token stored in
// a browser cookie. Tokens are issued lazily, only when an anonymous write is
// about to happen, and invalidated once the cart is merged into a user.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const CookieName = "cart_session"

const defaultMaxAge = 30 * 24 * time.Hour

type Manager struct {
	MaxAge time.Duration
	Secure bool
}

func NewManager(secure bool) *Manager {
	return &Manager{MaxAge: defaultMaxAge, Secure: secure}
}

// Token returns the current session token, if any. It never creates one.
func (m *Manager) Token(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Issue creates a fresh session token and sets its cookie on the response.
func (m *Manager) Issue(c echo.Context) string {
	token := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// Clear expires the session cookie. Called once the anonymous cart has been
// merged into an authenticated one.
func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
