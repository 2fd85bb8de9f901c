package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes single logrus entry per request
func RequestLogger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			status := v.Status

			// returned error is rendered later by the global error handler
			if v.Error != nil {
				status = http.StatusInternalServerError

				var httpErr *echo.HTTPError
				if errors.As(v.Error, &httpErr) {
					status = httpErr.Code
				}
			}

			entry := logger.WithFields(logrus.Fields{
				"request_id": GetRequestID(c),
				"method":     v.Method,
				"uri":        v.URI,
				"status":     status,
				"latency":    v.Latency.String(),
			})

			switch {
			case status >= http.StatusInternalServerError:
				entry.WithError(v.Error).Error("request failed")
			case status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request processed")
			}
			return nil
		},
	})
}
