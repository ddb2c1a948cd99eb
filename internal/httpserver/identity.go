package httpserver

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/hydroshop/backend/internal/domain"
	"github.com/hydroshop/backend/internal/session"
)

const ownerContextKey = "cart_owner"

// ResolveIdentity yields at most one identity per request: the authenticated
// user when a valid access token cookie is present, otherwise the anonymous
// cart session if one exists. Requests with neither get a zero owner; write
// handlers issue a session lazily at that point.
func ResolveIdentity(jwtSecret []byte, sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID, err := userIDFromToken(c, jwtSecret); err == nil {
				c.Set(ownerContextKey, domain.AuthenticatedOwner(userID))
				return next(c)
			}
			if token, ok := sessions.Token(c); ok {
				c.Set(ownerContextKey, domain.AnonymousOwner(token))
			}
			return next(c)
		}
	}
}

// CurrentOwner returns the identity resolved for this request, which may be
// zero when the shopper has neither logged in nor touched a cart yet.
func CurrentOwner(c echo.Context) domain.Owner {
	if v, ok := c.Get(ownerContextKey).(domain.Owner); ok {
		return v
	}
	return domain.Owner{}
}

func userIDFromToken(c echo.Context, jwtSecret []byte) (string, error) {
	cookie, err := c.Cookie("accessToken")
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}
	tokenString := cookie.Value
	if tokenString == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token: "+err.Error())
	}
	if !token.Valid {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}

	return sub, nil
}
