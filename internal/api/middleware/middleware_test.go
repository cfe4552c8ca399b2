package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type observation struct {
	method string
	path   string
	status int
}

type recordingMetrics struct {
	observed []observation
}

func (m *recordingMetrics) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	m.observed = append(m.observed, observation{method: method, path: path, status: status})
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_KeepsIncomingID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	metrics := &recordingMetrics{}

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(metrics))
	r.HandleFunc("/api/v1/appointments/{appointmentId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/appointments", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}).Methods(http.MethodPost)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/appointments/7f1c", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil))

	require.Len(t, metrics.observed, 2)
	assert.Equal(t, observation{http.MethodGet, "/api/v1/appointments/{appointmentId}", http.StatusNotFound}, metrics.observed[0])
	assert.Equal(t, observation{http.MethodPost, "/api/v1/appointments", http.StatusOK}, metrics.observed[1])
}

// fakeScripter выполняет скрипт фиксированного окна без Redis
type fakeScripter struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func newFakeScripter() *fakeScripter {
	return &fakeScripter{counters: make(map[string]int64)}
}

func (f *fakeScripter) run(ctx context.Context, keys []string) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[keys[0]]++
	cmd.SetVal(f.counters[keys[0]])
	return cmd
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) EvalSha(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) EvalRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) EvalShaRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	cmd := redis.NewBoolSliceCmd(ctx)
	cmd.SetVal(make([]bool, len(hashes)))
	return cmd
}

func (f *fakeScripter) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	cmd.SetVal(fixedWindowScript.Hash())
	return cmd
}

func limitedHandler(rl *RateLimiter) http.Handler {
	return rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func requestFrom(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	req.RemoteAddr = ip + ":51234"
	return req
}

func TestRateLimiter_LimitsPerClient(t *testing.T) {
	h := limitedHandler(NewRateLimiter(newFakeScripter(), 2, 30*time.Second, false, logger.Discard()))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("10.0.0.1"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.2"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiter_ForwardedFor(t *testing.T) {
	scripter := newFakeScripter()
	h := limitedHandler(NewRateLimiter(scripter, 1, time.Minute, false, logger.Discard()))

	req := requestFrom("10.0.0.1")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, int64(1), scripter.counters[defaultRateLimitPrefix+":203.0.113.7"])
}

func TestRateLimiter_RedisFailure(t *testing.T) {
	scripter := newFakeScripter()
	scripter.err = errors.New("dial tcp: connection refused")

	closed := limitedHandler(NewRateLimiter(scripter, 5, time.Minute, false, logger.Discard()))
	rec := httptest.NewRecorder()
	closed.ServeHTTP(rec, requestFrom("10.0.0.1"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	open := limitedHandler(NewRateLimiter(scripter, 5, time.Minute, true, logger.Discard()))
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, requestFrom("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
