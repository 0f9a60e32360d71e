package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vaticano/paroquia-auth/internal/authz"
	"github.com/vaticano/paroquia-auth/internal/logging"
	"github.com/vaticano/paroquia-auth/internal/roles"
	"github.com/vaticano/paroquia-auth/internal/tokens"
)

type BearerAuth struct {
	Issuer *tokens.Issuer
}

func NewBearerAuth(issuer *tokens.Issuer) *BearerAuth {
	return &BearerAuth{Issuer: issuer}
}

const bearerPrefix = "Bearer "

// Authenticate verifies an Authorization: Bearer header when one is present
// and stores the resulting principal in the request context. Requests without
// a header pass through unauthenticated; role checks happen downstream.
func (m *BearerAuth) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			return next(c)
		}

		claims, err := m.Issuer.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			logging.FromContext(c.Request().Context()).
				Warn("bearer token rejected", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		role, err := roles.Parse(claims.Role)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		ctx := authz.IntoContext(c.Request().Context(), authz.Principal{
			UserID:   claims.Subject,
			Username: claims.Username,
			Role:     role,
		})
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireAuth rejects requests that did not establish a principal.
func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := authz.FromContext(c.Request().Context()); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}
		return next(c)
	}
}
