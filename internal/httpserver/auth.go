package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/parfum_shop/internal/logging"
	"github.com/Skotchmaster/parfum_shop/internal/service"
	"github.com/Skotchmaster/parfum_shop/internal/transport"
)

const msgInvalidCredentials = "Неверные учетные данные"

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidCredentials)
		}
		l.Error("login_failed", "status", 500, "reason", "cannot look up user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot look up user")
	}

	return c.JSON(http.StatusOK, transport.LoginResponse{
		Username: res.Username,
		Role:     res.Role,
		Token:    res.Token,
	})
}
