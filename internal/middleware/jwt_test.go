package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/utils"
)

func runJWT(t *testing.T, secret, header string) (*httptest.ResponseRecorder, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured interface{}
	h := JWTAuth(secret)(func(c echo.Context) error {
		captured = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, captured
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken("unit-secret", 99, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, uid := runJWT(t, "unit-secret", "Bearer "+at.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if sub, _ := uid.(float64); uint64(sub) != 99 {
		t.Errorf("user_id = %v, want 99", uid)
	}
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := runJWT(t, "unit-secret", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 99, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, _ := runJWT(t, "unit-secret", "Bearer "+at.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthGarbageToken(t *testing.T) {
	rec, _ := runJWT(t, "unit-secret", "Bearer not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
