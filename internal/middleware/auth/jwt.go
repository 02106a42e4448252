package auth

import (
	"net/http"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/parfum_shop/internal/models"
	"github.com/Skotchmaster/parfum_shop/internal/tokens"
)

const (
	CtxToken    = "token"
	CtxUsername = "username"
	CtxRole     = "role"
)

// JWT validates the bearer token and exposes its claims under CtxUsername and CtxRole.
func JWT(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    secret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    CtxToken,
		TokenLookup:   "header:Authorization:Bearer ",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(tokens.AccessClaims)
		},
		SuccessHandler: func(c echo.Context) {
			claims := ClaimsFrom(c)
			if claims == nil {
				return
			}
			c.Set(CtxUsername, claims.Subject)
			c.Set(CtxRole, claims.Role)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "требуется авторизация").SetInternal(err)
		},
	})
}

func ClaimsFrom(c echo.Context) *tokens.AccessClaims {
	tkn, ok := c.Get(CtxToken).(*jwt.Token)
	if !ok || tkn == nil {
		return nil
	}
	claims, _ := tkn.Claims.(*tokens.AccessClaims)
	return claims
}

func RoleFrom(c echo.Context) models.Role {
	role, _ := c.Get(CtxRole).(models.Role)
	return role
}

// RequireRole must run after JWT.
func RequireRole(allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFrom(c)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "требуется авторизация")
			}
			if !slices.Contains(allowed, role) {
				return echo.NewHTTPError(http.StatusForbidden, "недостаточно прав")
			}
			return next(c)
		}
	}
}
