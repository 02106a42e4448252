package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// staticMiddleware serves the built front-end from dir and answers unknown
// non-API paths with index.html.
func staticMiddleware(dir string) echo.MiddlewareFunc {
	return echomw.StaticWithConfig(echomw.StaticConfig{
		Filesystem: http.Dir(dir),
		Index:      "index.html",
		HTML5:      true,
		Skipper: func(c echo.Context) bool {
			return isAPIPath(c.Request().URL.Path)
		},
	})
}
