package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	authmw "github.com/Skotchmaster/parfum_shop/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/parfum_shop/internal/middleware/logging"
	"github.com/Skotchmaster/parfum_shop/internal/models"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	DB             *gorm.DB

	// EnforceRoles gates product mutations behind a bearer token signed with JWTSecret.
	EnforceRoles bool
	JWTSecret    []byte

	// StaticDir is served when set; otherwise DevProxyURL, when set, receives non-API traffic.
	StaticDir   string
	DevProxyURL string
}

func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Secure())
	e.Use(echomw.CORS())
	return e
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	api := e.Group("/api")
	api.POST("/login", d.AuthHandler.Login)

	var editors, admins []echo.MiddlewareFunc
	if d.EnforceRoles {
		jwtMW := authmw.JWT(d.JWTSecret)
		editors = []echo.MiddlewareFunc{jwtMW, authmw.RequireRole(models.RoleAdmin, models.RoleManager)}
		admins = []echo.MiddlewareFunc{jwtMW, authmw.RequireRole(models.RoleAdmin)}
	}

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.POST("", d.CatalogHandler.CreateProduct, editors...)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct, editors...)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, admins...)

	switch {
	case d.StaticDir != "":
		e.Use(staticMiddleware(d.StaticDir))
	case d.DevProxyURL != "":
		proxy, err := newProxy(d.DevProxyURL)
		if err != nil {
			return err
		}
		e.Any("/*", proxy)
	}
	return nil
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable").SetInternal(err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable").SetInternal(err)
	}
	return c.NoContent(http.StatusOK)
}
