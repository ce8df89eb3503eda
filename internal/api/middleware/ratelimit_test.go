package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// newLimitedEcho serves POST /accounts behind RateLimit(rps).
func newLimitedEcho(rps float64) *echo.Echo {
	e := echo.New()
	e.POST("/accounts", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimit(rps))
	return e
}

func postFrom(e *echo.Echo, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	req.RemoteAddr = ip + ":5000"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	e := newLimitedEcho(0)
	for i := 0; i < 20; i++ {
		if code := postFrom(e, "192.0.2.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
}

func TestRateLimit_DeniesBurstPerClient(t *testing.T) {
	e := newLimitedEcho(1)

	if code := postFrom(e, "192.0.2.1"); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}
	for i := 0; i < 3; i++ {
		if code := postFrom(e, "192.0.2.1"); code != http.StatusTooManyRequests {
			t.Fatalf("request %d: expected 429, got %d", i+2, code)
		}
	}

	if code := postFrom(e, "192.0.2.2"); code != http.StatusOK {
		t.Fatalf("other client must not be limited, got %d", code)
	}
}
