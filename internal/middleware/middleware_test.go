package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/whirl/internal/model"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestCORSMiddleware_SetsHeaders(t *testing.T) {
	mw := NewCORSMiddleware("https://whirl.example.com")
	handler := mw(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/content/user-1", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://whirl.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
		t.Errorf("Allow-Headers = %q, Authorizationを期待", got)
	}
}

func TestCORSMiddleware_PreflightReturns204(t *testing.T) {
	mw := NewCORSMiddleware("https://whirl.example.com")
	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/generate-content", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if called {
		t.Error("プリフライトで後続ハンドラーが呼ばれた")
	}
}

func TestLoggingMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(newTestLogger(&buf), nil)
	handler := mw(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/content/save", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	logged := buf.String()
	for _, want := range []string{"http_request", `"method":"POST"`, `"path":"/api/content/save"`, `"status":200`} {
		if !strings.Contains(logged, want) {
			t.Errorf("ログに %q が含まれない: %s", want, logged)
		}
	}
}

type statusSpy struct {
	codes []int
}

func (s *statusSpy) RecordHTTPStatus(code int) { s.codes = append(s.codes, code) }

func TestLoggingMiddleware_RecordsStatusMetric(t *testing.T) {
	var buf bytes.Buffer
	spy := &statusSpy{}
	mw := NewLoggingMiddleware(newTestLogger(&buf), spy)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/brand-preferences/u", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(spy.codes) != 1 || spy.codes[0] != http.StatusNotFound {
		t.Errorf("記録されたステータス = %v, want [404]", spy.codes)
	}

	// 4xxはwarnレベル
	if !strings.Contains(buf.String(), `"level":"WARN"`) {
		t.Errorf("4xxがWARNで記録されていない: %s", buf.String())
	}
}

func TestRecoveryMiddleware_RecoversFromPanic(t *testing.T) {
	var buf bytes.Buffer
	mw := NewRecoveryMiddleware(newTestLogger(&buf))
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/content/user-1", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Error("panicがログに記録されていない")
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスの解析に失敗: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("Code = %q", body.Code)
	}
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	var buf bytes.Buffer
	config := RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    2,
		GenerationRate:  rate.Limit(1.0 / 60.0),
		GenerationBurst: 1,
		CleanupInterval: time.Minute,
	}
	rl := NewRateLimiter(config, newTestLogger(&buf))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/content/u", nil)
		req.RemoteAddr = "203.0.113.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%d回目: status = %d, want 200", i+1, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/content/u", nil)
	req.RemoteAddr = "203.0.113.1:12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("バースト超過後: status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-Afterヘッダーがない")
	}
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultRateLimiterConfig()
	config.GenerationBurst = 1
	rl := NewRateLimiter(config, newTestLogger(&buf))
	defer rl.Stop()

	handler := rl.GenerationMiddleware()(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/generate-content", nil)
	first.RemoteAddr = "203.0.113.1:1000"
	w1 := httptest.NewRecorder()
	handler.ServeHTTP(w1, first)

	blocked := httptest.NewRequest(http.MethodPost, "/api/generate-content", nil)
	blocked.RemoteAddr = "203.0.113.1:2000" // 同一IP別ポート
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, blocked)
	if w2.Code != http.StatusTooManyRequests {
		t.Errorf("同一IPの2回目: status = %d, want 429", w2.Code)
	}

	other := httptest.NewRequest(http.MethodPost, "/api/generate-content", nil)
	other.RemoteAddr = "203.0.113.2:1000"
	w3 := httptest.NewRecorder()
	handler.ServeHTTP(w3, other)
	if w3.Code != http.StatusOK {
		t.Errorf("別IP: status = %d, want 200", w3.Code)
	}
}

func TestClientKey_UsesForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:8080"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")

	if got := clientKey(req); got != "198.51.100.7" {
		t.Errorf("clientKey = %q, want 198.51.100.7", got)
	}
}

func TestWriteErrorResponse_Format(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorResponse(w, http.StatusBadRequest, model.NewEmptyPromptError())

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	var body ErrorResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスの解析に失敗: %v", err)
	}
	if body.Code != model.ErrCodeEmptyPrompt || body.Category != "validation" {
		t.Errorf("body = %+v", body)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := NewSecurityHeadersMiddleware()(okHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := w.Header().Get("Content-Security-Policy"); got != "default-src 'none'; frame-ancestors 'none'" {
		t.Errorf("Content-Security-Policy = %q", got)
	}
}
