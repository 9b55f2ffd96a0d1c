package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/config"
)

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Custom", "a")
	hdr.Add("X-Custom", "b")
	body := []byte(`{"skills":[]}`)

	raw, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(raw)
	if !ok {
		t.Fatal("decodePayload rejected its own encoding")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if got := gotHdr.Values("X-Custom"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("header values = %v", got)
	}
	if !bytes.Equal(gotBody, body) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("short"), {0, 0, 0, 200, 0, 0, 0, 99}} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Errorf("decodePayload accepted %v", bs)
		}
	}
}

func TestCacheKeyVariesWithQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "browse"}
	e := echo.New()

	key := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/skills")
		return cacheKey(cfg, c)
	}
	a := key("/v1/skills?category=Tech")
	b := key("/v1/skills?category=Arts")
	if a == b {
		t.Fatal("different queries produced the same cache key")
	}
	if a[:7] != "browse:" {
		t.Fatalf("key %q does not carry the prefix in clear text", a)
	}
}

func TestDisabledCacheIsPassThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/skills", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil || !called {
		t.Fatalf("pass-through broken: err=%v called=%v", err, called)
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Error("disabled cache should not set X-Cache")
	}
}

func TestNilInvalidatorIsSafe(t *testing.T) {
	var ci *CacheInvalidator
	ci.Invalidate(nil) // must not panic
	if NewCacheInvalidator(config.CacheConfig{Enabled: false}, nil) != nil {
		t.Fatal("disabled config should yield a nil invalidator")
	}
}
