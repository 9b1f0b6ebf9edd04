package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	authsvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/auth"
)

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	jwtManager := authsvc.NewJWTManager("test-secret", time.Minute)
	mw := AuthMiddleware(jwtManager, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/discover", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	jwtManager := authsvc.NewJWTManager("test-secret", time.Minute)
	mw := AuthMiddleware(jwtManager, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/discover", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called on invalid token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareSetsIdentityContext(t *testing.T) {
	jwtManager := authsvc.NewJWTManager("test-secret", time.Minute)
	token, _, err := jwtManager.GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	mw := AuthMiddleware(jwtManager, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/discover", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok || identity.UserID != 42 {
			t.Fatalf("identity missing or wrong: %+v ok=%v", identity, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"", "", false},
		{"Basic abc", "", false},
	}
	for _, tc := range cases {
		got, ok := extractBearerToken(tc.header)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("extractBearerToken(%q) = %q, %v; want %q, %v", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}
