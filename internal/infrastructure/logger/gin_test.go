package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serveLogged(t *testing.T, target string, handler gin.HandlerFunc, pre ...gin.HandlerFunc) *observer.ObservedLogs {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.DebugLevel)

	engine := gin.New()
	for _, mw := range pre {
		engine.Use(mw)
	}
	engine.Use(RequestLogger(zap.New(core)))
	engine.GET("/widgets", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("User-Agent", "backoffice-test/1.0")
	engine.ServeHTTP(w, req)

	return recorded
}

func requestEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestRequestLoggerLevelTracksStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{name: "success logs info", status: http.StatusOK, level: zapcore.InfoLevel},
		{name: "client error logs warn", status: http.StatusUnprocessableEntity, level: zapcore.WarnLevel},
		{name: "server error logs error", status: http.StatusInternalServerError, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorded := serveLogged(t, "/widgets", func(c *gin.Context) {
				c.Status(tt.status)
			})

			entry := requestEntry(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestRequestLoggerFields(t *testing.T) {
	recorded := serveLogged(t, "/widgets?status=draft", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	entry := requestEntry(t, recorded)
	fields := make(map[string]zapcore.Field, len(entry.Context))
	for _, field := range entry.Context {
		fields[field.Key] = field
	}

	assert.Equal(t, int64(http.StatusOK), fields["status"].Integer)
	assert.Equal(t, http.MethodGet, fields["method"].String)
	assert.Equal(t, "/widgets", fields["path"].String)
	assert.Equal(t, "status=draft", fields["query"].String)
	assert.Equal(t, "backoffice-test/1.0", fields["user_agent"].String)
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.Contains(t, fields, "body_size")
	assert.NotContains(t, fields, "request_id")
}

func TestRequestLoggerCarriesRequestID(t *testing.T) {
	setID := func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	}

	recorded := serveLogged(t, "/widgets", func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, setID)

	entry := requestEntry(t, recorded)
	found := false
	for _, field := range entry.Context {
		if field.Key == "request_id" {
			found = true
			assert.Equal(t, "req-123", field.String)
		}
	}
	assert.True(t, found)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)

	engine := gin.New()
	engine.Use(Recovery(zap.New(core)))
	engine.GET("/boom", func(c *gin.Context) {
		panic("nil receipt line")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)

	assert.NotPanics(t, func() {
		engine.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := recorded.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)

	fields := make(map[string]zapcore.Field, len(entries[0].Context))
	for _, field := range entries[0].Context {
		fields[field.Key] = field
	}
	assert.Equal(t, "/boom", fields["path"].String)
	assert.Contains(t, fields, "stack")
}
