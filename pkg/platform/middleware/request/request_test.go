package request

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carehub/pkg/requestcontext"
)

func serveRequestID(t *testing.T, header string) (echoed, inContext string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inContext = requestcontext.RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/medications", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Header().Get(RequestIDHeader), inContext
}

func TestRequestID(t *testing.T) {
	t.Run("mints a uuid when absent", func(t *testing.T) {
		echoed, inContext := serveRequestID(t, "")
		assert.Len(t, echoed, 36)
		assert.Equal(t, echoed, inContext)
	})

	accepted := []string{"my-request-123", "trace.span_1234", strings.Repeat("a", MaxRequestIDLength)}
	for _, id := range accepted {
		t.Run("keeps "+id[:min(len(id), 16)], func(t *testing.T) {
			echoed, inContext := serveRequestID(t, id)
			assert.Equal(t, id, echoed)
			assert.Equal(t, id, inContext)
		})
	}

	rejected := map[string]string{
		"too long":  strings.Repeat("a", MaxRequestIDLength+1),
		"newline":   "valid\ninjected-log-line",
		"space":     "request id",
		"quote":     `request"id`,
		"brackets":  "request<id>",
		"semicolon": "request;id",
		"backslash": `request\id`,
		"null byte": "request\x00id",
		"tab":       "has\ttab",
	}
	for name, id := range rejected {
		t.Run("replaces "+name, func(t *testing.T) {
			echoed, _ := serveRequestID(t, id)
			assert.NotEqual(t, id, echoed)
			assert.Len(t, echoed, 36)
		})
	}
}

func TestClientIP(t *testing.T) {
	var captured string
	handler := ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = requestcontext.ClientIP(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.9", captured, "forwarding headers are not trusted")

	req.RemoteAddr = "garbage"
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "unknown", captured)
}

func TestRecovery(t *testing.T) {
	handler := Recovery(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
}

func TestRecovery_ReraisesAbort(t *testing.T) {
	handler := Recovery(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	})
}

func TestTimeout(t *testing.T) {
	handler := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"timeout"}`, w.Body.String())
}

func TestContentTypeJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, "application/json", http.StatusNoContent},
		{"json with charset", http.MethodPut, "application/json; charset=utf-8", http.StatusNoContent},
		{"missing header is tolerated", http.MethodPost, "", http.StatusNoContent},
		{"form post rejected", http.MethodPost, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"get ignores header", http.MethodGet, "text/plain", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/test", nil)
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			w := httptest.NewRecorder()
			ContentTypeJSON(next).ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestLatencyMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	handler := LatencyMiddleware(m, func(*http.Request) string { return "/medications/{id}" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/medications/missing" {
				w.WriteHeader(http.StatusNotFound)
			}
		}),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/medications/1", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/medications/2", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/medications/missing", nil))

	assert.Equal(t, 2, testutil.CollectAndCount(m.EndpointLatency), "one series per status code")

	assert.NotPanics(t, func() {
		LatencyMiddleware(nil, nil)(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLogger(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" && r.URL.Query().Get("fail") != "" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	ctx := requestcontext.WithRequestID(context.Background(), "req-9")

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(ctx))
	assert.Empty(t, buf.String(), "healthy probes are not logged")

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health?fail=1", nil).WithContext(ctx))
	assert.Contains(t, buf.String(), `"status":503`)

	buf.Reset()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/auth/profile", nil).WithContext(ctx))
	assert.Contains(t, buf.String(), `"request_id":"req-9"`)
	assert.Contains(t, buf.String(), `"path":"/auth/profile"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"bytes":2`)
}
