package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	tests := map[string]string{
		"/api/channels/UC123/analysis":     "/api/channels/:channelId/analysis",
		"/api/channels/UC123/analysis.csv": "/api/channels/:channelId/analysis.csv",
		"/api/channels/search":             "/api/channels/search",
		"/api/keywords/analysis":           "/api/keywords/analysis",
		"/api/channels/":                   "/api/channels/",
	}
	for in, want := range tests {
		require.Equal(t, want, sanitizePath(in), in)
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	Logger = zerolog.Nop()
	app := fiber.New()
	app.Use(NewRequestLogger())
	app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}
