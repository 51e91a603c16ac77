package httpserver_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	config "github.com/opsboard/admin-console/configs"
	console_http "github.com/opsboard/admin-console/internal/infrastructure/httpserver"
	"github.com/opsboard/admin-console/test/mocks"
)

func newRateLimitedServer(t *testing.T, repo *mocks.RateLimitRepositoryMock, rpm int) *httptest.Server {
	t.Helper()
	adminCfg := &config.AdminConfig{
		AccountKind:   "admin_user",
		Namespace:     "admin",
		LogoutMethods: []string{"DELETE", "GET"},
		TokenSecret:   "digest-secret",
	}
	rateCfg := &config.RateLimitConfig{RequestsPerMinute: rpm, Window: time.Minute, KeyPrefix: "ratelimit:ip"}
	srv := console_http.NewServer(
		&console_http.ServerConfig{Host: "127.0.0.1", Port: "0"},
		adminCfg,
		rateCfg,
		logrus.New(),
		console_http.ServerDeps{SessionService: &mocks.SessionServiceMock{}, RateLimitRepo: repo},
	)
	ts := httptest.NewServer(srv.Echo())
	t.Cleanup(ts.Close)
	return ts
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	count := 0
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
			count++
			return count, time.Now().Truncate(window), nil
		},
	}
	ts := newRateLimitedServer(t, repo, 2)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		require.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode)
		require.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
		require.Equal(t, fmt.Sprintf("%d", 2-(i+1)), resp.Header.Get("X-RateLimit-Remaining"))
	}

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
}

// A broken limiter backend must not take the service down with it.
func TestRateLimit_FailsOpenOnBackendError(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
			return 0, time.Time{}, fmt.Errorf("redis unavailable")
		},
	}
	ts := newRateLimitedServer(t, repo, 1)

	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		require.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode)
	}
}
