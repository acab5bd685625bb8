package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerRecordsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	var scoped *zap.Logger
	handler := chimw.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scoped = Logger(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/items?status=sold", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.NotNil(t, scoped)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "HTTP Request", entry.Message)
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/api/items", fields["path"])
	assert.Equal(t, "status=sold", fields["query"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestLoggerDefaultsToNop(t *testing.T) {
	assert.NotNil(t, Logger(context.Background()))
}
