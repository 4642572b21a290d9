package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func callProtected(t *testing.T, g *Gate, authHeader string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return Middleware(g)(next)(c)
}

func TestMiddlewareMissingHeader(t *testing.T) {
	g := newTestGate(t, "1234")

	err := callProtected(t, g, "")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddlewareBadFormat(t *testing.T) {
	g := newTestGate(t, "1234")

	err := callProtected(t, g, "Basic abc123")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	g := newTestGate(t, "1234")

	err := callProtected(t, g, "Bearer not-a-token")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddlewareValidToken(t *testing.T) {
	g := newTestGate(t, "1234")
	token, _ := g.Verify("1234")

	if err := callProtected(t, g, "Bearer "+token); err != nil {
		t.Errorf("expected request to pass, got %v", err)
	}
}

func TestDevMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := DevMiddleware()(next)(c); err != nil {
		t.Errorf("expected pass-through, got %v", err)
	}
}

func TestHandlerVerify(t *testing.T) {
	g := newTestGate(t, "1234")
	h := NewHandler(g)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/auth/verify", strings.NewReader(`{"pin":"1234"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Verify(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandlerVerifyWrongPIN(t *testing.T) {
	g := newTestGate(t, "1234")
	h := NewHandler(g)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/auth/verify", strings.NewReader(`{"pin":"0000"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Verify(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
