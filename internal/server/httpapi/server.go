// Package httpapi adapts the identity service to its HTTP boundary. It owns
// route registration and the mapping from service errors to response codes;
// transport concerns beyond that (CORS, static assets, upload persistence)
// live outside this package.
package httpapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/nuliana/getapet/internal/logging"
	"github.com/nuliana/getapet/internal/server/services"
)

// New creates the HTTP server with all user routes registered.
func New(logger logging.Logger, identity *services.IdentityService) *echo.Echo {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)

	srv.Use(
		middleware.Recover(),
		logRequests(logger),
	)

	h := &handler{log: logger, identity: identity}
	h.routes(srv)

	return srv
}

func logRequests(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			logger.Info(req.Context(), "request handled",
				"method", req.Method,
				"uri", req.RequestURI,
				"status", res.Status,
				"latency", time.Since(start).String(),
			)
			return nil
		}
	}
}
