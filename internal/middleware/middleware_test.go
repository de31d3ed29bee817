package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"nyanpass/internal/i18n"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/platform/metrics"
	"nyanpass/internal/ports/auth"
)

type verifierFunc func(ctx context.Context, token string) (auth.Claims, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (auth.Claims, error) {
	return f(ctx, token)
}

// capture guarda el contexto que llegó al handler final.
func capture(got *context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = r.Context()
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthContext_DevHeader(t *testing.T) {
	var ctx context.Context
	h := AuthContext(nil)(capture(&ctx))

	r := httptest.NewRequest(http.MethodGet, "/cats", nil)
	r.Header.Set("X-Debug-User-ID", " u1 ")
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, "u1", UserID(ctx))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cats", nil))
	require.Empty(t, UserID(ctx))
}

func TestAuthContext_Verifier(t *testing.T) {
	v := verifierFunc(func(_ context.Context, token string) (auth.Claims, error) {
		if token != "good" {
			return auth.Claims{}, errors.New("bad token")
		}
		return auth.Claims{UserID: "u1", Email: "ana@example.com"}, nil
	})

	var ctx context.Context
	h := AuthContext(v)(capture(&ctx))

	r := httptest.NewRequest(http.MethodGet, "/cats", nil)
	r.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, "u1", UserID(ctx))
	require.Equal(t, "good", IDToken(ctx))
	claims, ok := Claims(ctx)
	require.True(t, ok)
	require.Equal(t, "ana@example.com", claims.Email)

	r = httptest.NewRequest(http.MethodGet, "/cats", nil)
	r.Header.Set("Authorization", "Bearer bad")
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.Empty(t, UserID(ctx))
	require.Equal(t, "bad", IDToken(ctx))
	_, ok = Claims(ctx)
	require.False(t, ok)

	// el header de debug no vale con verifier configurado
	r = httptest.NewRequest(http.MethodGet, "/cats", nil)
	r.Header.Set("X-Debug-User-ID", "intruder")
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.Empty(t, UserID(ctx))
}

func TestLanguage_Precedence(t *testing.T) {
	lookup := func(_ context.Context, uid string) (i18n.Language, bool) {
		if uid == "u1" {
			return i18n.Portuguese, true
		}
		return "", false
	}

	var ctx context.Context
	h := AuthContext(nil)(Language(lookup)(capture(&ctx)))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "fr-FR,en;q=0.5")
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, i18n.French, i18n.FromContext(ctx))

	r.Header.Set("X-Debug-User-ID", "u1")
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, i18n.Portuguese, i18n.FromContext(ctx))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, i18n.Spanish, i18n.FromContext(ctx))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	call := func(addr string) int {
		r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	before := testutil.ToFloat64(metrics.RateLimitRejected)
	require.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	require.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	require.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitRejected))

	// otro cliente tiene su propio bucket
	require.Equal(t, http.StatusOK, call("10.0.0.2:1000"))

	now = now.Add(time.Second)
	require.Equal(t, http.StatusOK, call("10.0.0.1:1003"))
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.limiter("ip:a")
	now = now.Add(limiterIdleTTL + time.Minute)
	rl.limiter("ip:b")

	require.Len(t, rl.clients, 1)
	require.Contains(t, rl.clients, "ip:b")
}

func TestRequestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLog(logger.FromZap(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "4xx"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cats/x", nil))

	require.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "4xx")))
	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	require.Equal(t, zap.WarnLevel, entries[0].Level)
	require.Equal(t, "/cats/x", entries[0].ContextMap()["path"])
}
