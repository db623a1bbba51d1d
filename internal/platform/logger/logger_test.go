package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "text")

	cfg := LoadConfig("offense_board")

	assert.Equal(t, Config{Service: "offense_board", Env: "prod", Level: "warn", Format: "text"}, cfg)
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newLogger(&buf, Config{Service: "svc", Env: "test", Level: "warn"})

	l.Info("hidden")
	l.Warn("shown", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "svc", entry["service"])
	assert.Equal(t, "value", entry["key"])
}

func TestFromContext_Default(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), FromContext(context.Background()))

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	newRouter := func(buf *bytes.Buffer) *gin.Engine {
		r := gin.New()
		r.Use(Middleware(newLogger(buf, Config{Service: "svc"})))
		r.GET("/ping", func(c *gin.Context) {
			FromContext(c.Request.Context()).Info("inside handler")
			c.String(http.StatusTeapot, "pong")
		})
		return r
	}

	t.Run("generates request id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := httptest.NewRecorder()
		newRouter(&buf).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		reqID := w.Header().Get(HeaderRequestID)
		_, err := ulid.Parse(reqID)
		require.NoError(t, err, "request id should be a ULID")

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		var handlerEntry, requestEntry map[string]any
		require.NoError(t, json.Unmarshal(lines[0], &handlerEntry))
		require.NoError(t, json.Unmarshal(lines[1], &requestEntry))
		assert.Equal(t, reqID, handlerEntry["req_id"])
		assert.Equal(t, "http_request", requestEntry["msg"])
		assert.Equal(t, float64(http.StatusTeapot), requestEntry["status"])
		assert.Equal(t, "/ping", requestEntry["path"])
		assert.Contains(t, requestEntry, "duration_ms")
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "upstream-id")
		newRouter(&buf).ServeHTTP(w, req)

		assert.Equal(t, "upstream-id", w.Header().Get(HeaderRequestID))
		assert.Contains(t, buf.String(), `"req_id":"upstream-id"`)
	})
}
