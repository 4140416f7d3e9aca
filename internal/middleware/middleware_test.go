package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/spott-events/spott/internal/config"
    "github.com/spott-events/spott/internal/model"
    "github.com/spott-events/spott/internal/utils"
)

const secret = "test-secret"

func whoami(c echo.Context) error {
    id, ok := UserID(c)
    return c.JSON(http.StatusOK, echo.Map{"id": id, "ok": ok, "plan": c.Get(CtxPlan)})
}

func do(e *echo.Echo, header string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodGet, "/x", nil)
    if header != "" {
        req.Header.Set("Authorization", header)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuth(t *testing.T) {
    e := echo.New()
    e.GET("/x", whoami, JWTAuth(secret))

    at, err := utils.NewIssuer(secret, 5, 1, nil).Access(&model.User{ID: 9, Plan: model.PlanFree})
    require.NoError(t, err)
    rec := do(e, "Bearer "+at.Token)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"id":9,"ok":true,"plan":"free"}`, rec.Body.String())

    assert.Equal(t, http.StatusUnauthorized, do(e, "").Code)

    forged, err := utils.NewIssuer("other-secret", 5, 1, nil).Access(&model.User{ID: 9, Plan: model.PlanPro})
    require.NoError(t, err)
    assert.Equal(t, http.StatusUnauthorized, do(e, "Bearer "+forged.Token).Code)
}

func TestOptionalAuth(t *testing.T) {
    e := echo.New()
    e.GET("/x", whoami, OptionalAuth(secret))

    rec := do(e, "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"id":0,"ok":false,"plan":null}`, rec.Body.String())

    rec = do(e, "Bearer garbage")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"id":0,"ok":false,"plan":null}`, rec.Body.String())

    at, err := utils.NewIssuer(secret, 5, 1, nil).Access(&model.User{ID: 3, Plan: model.PlanPro})
    require.NoError(t, err)
    rec = do(e, "Bearer "+at.Token)
    assert.JSONEq(t, `{"id":3,"ok":true,"plan":"pro"}`, rec.Body.String())
}

func TestTokenBucket_LocalFallback(t *testing.T) {
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            5 * time.Hour,
        KeyStrategy:    "ip",
        Prefix:         "test:rl",
    }
    e := echo.New()
    e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, nil))

    assert.Equal(t, http.StatusNoContent, do(e, "").Code)
    assert.Equal(t, http.StatusNoContent, do(e, "").Code)
    rec := do(e, "")
    assert.Equal(t, http.StatusTooManyRequests, rec.Code)
    assert.NotEmpty(t, rec.Header().Get("Retry-After"))
    assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
}

func TestTokenBucket_Disabled(t *testing.T) {
    e := echo.New()
    e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
        NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil))
    for i := 0; i < 5; i++ {
        assert.Equal(t, http.StatusNoContent, do(e, "").Code)
    }
}

func TestCacheKey_PerUser(t *testing.T) {
    cfg := config.CacheConfig{Prefix: "p", KeyStrategy: "route_query"}
    e := echo.New()
    newCtx := func() echo.Context {
        c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/explore/popular?limit=3", nil), httptest.NewRecorder())
        c.SetPath("/v1/explore/popular")
        return c
    }

    anon1, anon2 := newCtx(), newCtx()
    assert.Equal(t, cacheKeyFrom(cfg, anon1), cacheKeyFrom(cfg, anon2))

    user := newCtx()
    user.Set(CtxUserID, uint64(5))
    assert.NotEqual(t, cacheKeyFrom(cfg, anon1), cacheKeyFrom(cfg, user))
}

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
    require.NoError(t, err)
    status, got, body, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", got.Get("Content-Type"))
    assert.Equal(t, `{"a":1}`, string(body))

    _, _, _, ok = decodePayload([]byte{1, 2})
    assert.False(t, ok)
}
