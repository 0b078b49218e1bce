package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{"*"}},
		{"*", []string{"*"}},
		{" , ", []string{"*"}},
		{"https://a.example.com", []string{"https://a.example.com"}},
		{"https://a.example.com/, https://b.example.com", []string{"https://a.example.com", "https://b.example.com"}},
		{"https://a.example.com,*", []string{"*"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			require.Equal(t, tt.want, parseOrigins(tt.raw))
		})
	}
}

func TestNewCORS_ExposesDownloadAndTracingHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(NewCORS("https://stats.example.com"))
	app.Get("/x", func(c fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "https://stats.example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)

	require.Equal(t, "https://stats.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	exposed := resp.Header.Get("Access-Control-Expose-Headers")
	require.Contains(t, exposed, RequestIDHeader)
	require.Contains(t, exposed, "Content-Disposition")
	require.Contains(t, exposed, "Retry-After")
}
