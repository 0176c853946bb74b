package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// SessionResolver maps the subject and id of a verified token to the live
// session, or domain.ErrSessionRevoked.
type SessionResolver interface {
	Authenticate(ctx context.Context, username, tokenID string) (*domain.Session, error)
}

// Auth validates the JWT, resolves it against the store and injects the
// username, current role and token id into context.
func Auth(jwtSecret string, sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			claims, err := parseBearer(authHeader, jwtSecret)
			if err != nil {
				return err
			}
			session, err := resolve(c, claims, sessions)
			if errors.Is(err, domain.ErrSessionRevoked) {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired or revoked")
			}
			if err != nil {
				return err
			}
			setSession(c, session)
			return next(c)
		}
	}
}

// OptionalAuth injects the session when a valid, live token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(jwtSecret string, sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				if claims, err := parseBearer(authHeader, jwtSecret); err == nil {
					if session, err := resolve(c, claims, sessions); err == nil {
						setSession(c, session)
					}
				}
			}
			return next(c)
		}
	}
}

func parseBearer(authHeader, jwtSecret string) (jwt.MapClaims, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims, nil
}

func resolve(c echo.Context, claims jwt.MapClaims, sessions SessionResolver) (*domain.Session, error) {
	username, _ := claims["username"].(string)
	tokenID, _ := claims["jti"].(string)
	return sessions.Authenticate(c.Request().Context(), username, tokenID)
}

func setSession(c echo.Context, session *domain.Session) {
	c.Set("username", session.Username)
	c.Set("role", string(session.Role))
	c.Set("token_id", session.TokenID)
}
