package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dfquintero/recreo/internal/utils"
)

const testSecret = "test-secret"

func doRequest(t *testing.T, mws []echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestJWTAuthRejectsMissingAndGarbageTokens(t *testing.T) {
	mws := []echo.MiddlewareFunc{JWTAuth(testSecret)}

	if rec := doRequest(t, mws, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: got %d, want 401", rec.Code)
	}
	if rec := doRequest(t, mws, "Bearer not-a-jwt"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 7, "ADMIN", 5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec := doRequest(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, "Bearer "+tok.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: got %d, want 401", rec.Code)
	}
}

func TestJWTAuthAndRequireRoleChain(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		allowed []string
		want    int
	}{
		{"admin on admin route", "ADMIN", []string{"ADMIN"}, http.StatusOK},
		{"student on admin route", "STUDENT", []string{"ADMIN"}, http.StatusForbidden},
		{"functionary on staff route", "FUNCTIONARY", []string{"ADMIN", "FUNCTIONARY"}, http.StatusOK},
		{"student on booking route", "STUDENT", []string{"STUDENT", "ADMIN", "FUNCTIONARY"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := utils.NewAccessToken(testSecret, 42, tc.role, 5)
			if err != nil {
				t.Fatalf("issue token: %v", err)
			}
			mws := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(tc.allowed...)}
			rec := doRequest(t, mws, "Bearer "+tok.Token)
			if rec.Code != tc.want {
				t.Fatalf("got %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRequireRoleWithoutClaim(t *testing.T) {
	rec := doRequest(t, []echo.MiddlewareFunc{RequireRole("ADMIN")}, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing role claim: got %d, want 403", rec.Code)
	}
}
