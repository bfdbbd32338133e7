package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vocali/vocali-backend/app/entity"
	"github.com/vocali/vocali-backend/app/service"
)

type stubResolver struct {
	user     *entity.User
	err      error
	gotToken string
}

func (s *stubResolver) CurrentUser(_ context.Context, token string) (*entity.User, error) {
	s.gotToken = token
	return s.user, s.err
}

func runRequireAuth(t *testing.T, resolver *stubResolver, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	handler := NewAuthMiddleware(resolver).RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(ctx); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, ctx
}

func TestRequireAuthSetsUser(t *testing.T) {
	user := &entity.User{ID: 7, Email: "ada@x.com", IsActive: true, IsVerified: true}
	resolver := &stubResolver{user: user}

	rec, ctx := runRequireAuth(t, resolver, "Bearer token-123")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resolver.gotToken != "token-123" {
		t.Fatalf("resolver got token %q", resolver.gotToken)
	}
	if got, ok := ctx.Get("user").(*entity.User); !ok || got.ID != 7 {
		t.Fatalf("expected user in context, got %v", ctx.Get("user"))
	}
	if got, _ := ctx.Get("access_token").(string); got != "token-123" {
		t.Fatalf("expected access token in context, got %q", got)
	}
}

func TestRequireAuthCaseInsensitiveScheme(t *testing.T) {
	resolver := &stubResolver{user: &entity.User{ID: 1}}

	rec, _ := runRequireAuth(t, resolver, "bearer token-123")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for lowercase scheme, got %d", rec.Code)
	}
}

func TestRequireAuthRejectsBadHeaders(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc123",
		"no token":       "Bearer",
		"too many parts": "Bearer one two",
	}
	for name, header := range cases {
		rec, _ := runRequireAuth(t, &stubResolver{user: &entity.User{ID: 1}}, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
		if body := rec.Body.String(); body != "{\"error\":\"invalid token\"}\n" {
			t.Fatalf("%s: unexpected body %q", name, body)
		}
	}
}

func TestRequireAuthRejectsUnresolvableToken(t *testing.T) {
	resolver := &stubResolver{err: service.ErrInvalidToken}

	rec, ctx := runRequireAuth(t, resolver, "Bearer bad-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if ctx.Get("user") != nil {
		t.Fatalf("user must not be set on failure")
	}
}
