package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// newTestRateLimiter はテスト用の小さなバーストを持つRateLimiterを生成する。
func newTestRateLimiter(t *testing.T, generalBurst, uploadBurst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001), // ほぼ補充されないレート
		GeneralBurst:    generalBurst,
		UploadRate:      rate.Limit(0.001),
		UploadBurst:     uploadBurst,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGeneralMiddleware_AllowsWithinBurst(t *testing.T) {
	rl := newTestRateLimiter(t, 3, 1)
	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ideas", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Result().StatusCode, http.StatusOK)
		}
	}
}

func TestGeneralMiddleware_RejectsOverBurst(t *testing.T) {
	rl := newTestRateLimiter(t, 2, 1)
	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ideas", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/ideas", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != "Too many requests. Please try again later." {
		t.Errorf("error = %q", body.Error)
	}
}

func TestGeneralMiddleware_LimitsPerClientIP(t *testing.T) {
	rl := newTestRateLimiter(t, 1, 1)
	handler := rl.GeneralMiddleware()(okHandler())

	// クライアントAがバーストを使い切る
	reqA := httptest.NewRequest(http.MethodGet, "/ideas", nil)
	reqA.RemoteAddr = "192.0.2.1:12345"
	handler.ServeHTTP(httptest.NewRecorder(), reqA)

	// クライアントBは影響を受けない
	reqB := httptest.NewRequest(http.MethodGet, "/ideas", nil)
	reqB.RemoteAddr = "192.0.2.2:12345"
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, reqB)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d for a different client", w.Result().StatusCode, http.StatusOK)
	}
	if count := rl.GeneralLimiterCount(); count != 2 {
		t.Errorf("limiter count = %d, want 2", count)
	}
}

func TestUploadMiddleware_IndependentOfGeneralLimit(t *testing.T) {
	rl := newTestRateLimiter(t, 1, 1)

	general := rl.GeneralMiddleware()(okHandler())
	upload := rl.UploadMiddleware()(okHandler())

	// 一般バーストを使い切る
	req := httptest.NewRequest(http.MethodGet, "/ideas", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	general.ServeHTTP(httptest.NewRecorder(), req)

	// アップロードは独立したバケットを持つ
	uploadReq := httptest.NewRequest(http.MethodPost, "/ideas/1/files", nil)
	uploadReq.RemoteAddr = "192.0.2.1:12345"
	w := httptest.NewRecorder()

	upload.ServeHTTP(w, uploadReq)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestClientIP_StripsPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:54321"

	if ip := ClientIP(req); ip != "203.0.113.7" {
		t.Errorf("ip = %q, want %q", ip, "203.0.113.7")
	}
}

func TestClientIP_NoPort_ReturnsAsIs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7"

	if ip := ClientIP(req); ip != "203.0.113.7" {
		t.Errorf("ip = %q, want %q", ip, "203.0.113.7")
	}
}
