package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/essence-team/essence-backend/pkg/jwt"
)

func runWithAuth(t *testing.T, manager *jwt.Manager, authHeader string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured string
	next := func(c echo.Context) error {
		captured = UserIDFromContext(c)
		return nil
	}
	if err := EchoOptionalAuth(manager)(next)(c); err != nil {
		t.Fatalf("middleware failed: %v", err)
	}
	return captured
}

func TestEchoOptionalAuth_ValidToken(t *testing.T) {
	manager := jwt.NewManager("secret", time.Minute)
	token, err := manager.GenerateAccessToken("user-7")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if got := runWithAuth(t, manager, "Bearer "+token); got != "user-7" {
		t.Fatalf("expected user-7, got %q", got)
	}
}

func TestEchoOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	manager := jwt.NewManager("secret", time.Minute)

	if got := runWithAuth(t, manager, ""); got != "" {
		t.Fatalf("expected anonymous, got %q", got)
	}
	if got := runWithAuth(t, manager, "Bearer garbage"); got != "" {
		t.Fatalf("invalid token must stay anonymous, got %q", got)
	}
}

func TestEchoOptionalAuth_NilManager(t *testing.T) {
	if got := runWithAuth(t, nil, "Bearer anything"); got != "" {
		t.Fatalf("nil manager must stay anonymous, got %q", got)
	}
}
