package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDGenerated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	h := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.NotEmpty(t, seen, "request id must be generated")
	assert.Equal(t, seen, rec.Header().Get(echo.HeaderXRequestID), "generated id must be returned in header")
}

func TestRequestIDReused(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "incoming-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.Equal(t, "incoming-id", GetRequestID(c))
	assert.Equal(t, "incoming-id", rec.Header().Get(echo.HeaderXRequestID))
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name    string
		handler echo.HandlerFunc
		level   string
		status  string
	}{
		{
			name:    "success",
			handler: func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			level:   "level=info",
			status:  "status=200",
		},
		{
			name:    "rejected",
			handler: func(c echo.Context) error { return c.NoContent(http.StatusNotFound) },
			level:   "level=warning",
			status:  "status=404",
		},
		{
			name:    "failed",
			handler: func(echo.Context) error { return errors.New("boom") },
			level:   "level=error",
			status:  "status=500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			logger := logrus.New()
			logger.SetOutput(&out)
			logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			_ = RequestLogger(logger)(tt.handler)(c)

			assert.Contains(t, out.String(), tt.level)
			assert.Contains(t, out.String(), tt.status)
			assert.Contains(t, out.String(), "uri=/api/v1/customers")
		})
	}
}

func TestTracingKeepsHandlerError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	expected := errors.New("boom")
	err := Tracing()(func(echo.Context) error { return expected })(c)
	assert.ErrorIs(t, err, expected)
}
