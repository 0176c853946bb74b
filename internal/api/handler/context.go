package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// ctxSession rebuilds the actor injected by the Auth middleware, which has
// already resolved the token against the store. The username must be present
// (proves the middleware ran) and the role must be one the application knows.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := optionalSession(c)
	if s == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return s, nil
}

// optionalSession is ctxSession for public routes: missing or unusable
// claims yield nil.
func optionalSession(c echo.Context) *domain.Session {
	username, _ := c.Get("username").(string)
	rawRole, _ := c.Get("role").(string)
	if username == "" {
		return nil
	}
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return nil
	}
	return &domain.Session{Username: username, Role: role}
}

// ctxTokenID is the id of the token the request was authenticated with.
func ctxTokenID(c echo.Context) string {
	id, _ := c.Get("token_id").(string)
	return id
}
