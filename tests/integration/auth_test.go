package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"snapFeedAPI/middleware"
	"snapFeedAPI/tests/helpers"
)

func callProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	protected := middleware.ClerkAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/api/v1/user", nil)
	if authHeader != "" {
		r.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	return w, reached
}

func TestClerkAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	w, reached := callProtected(t, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without Authorization header, got %d", w.Code)
	}
	if reached {
		t.Error("handler must not run without credentials")
	}
}

func TestClerkAuthMiddlewareRejectsNonBearerHeader(t *testing.T) {
	w, reached := callProtected(t, "Basic dXNlcjpwYXNz")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-Bearer scheme, got %d", w.Code)
	}
	if reached {
		t.Error("handler must not run for a non-Bearer header")
	}
}

// A token signed with anything but Clerk's keys must fail verification, no
// matter how well-formed its claims are.
func TestClerkAuthMiddlewareRejectsForeignToken(t *testing.T) {
	token, err := helpers.GenerateMockClerkJWT("user_forged_123")
	if err != nil {
		t.Fatalf("failed to build mock token: %v", err)
	}

	w, reached := callProtected(t, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a token Clerk never signed, got %d", w.Code)
	}
	if reached {
		t.Error("handler must not run behind a forged token")
	}
}
