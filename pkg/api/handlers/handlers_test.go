package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/cache"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := cache.NewClientFromRedis(redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	}))

	st := store.New(client, "real_estate", logger.Default())
	require.NoError(t, st.Seed(context.Background(), "password123"))
	return st
}

func newContext(t *testing.T, e *echo.Echo, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func testMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry())
}
