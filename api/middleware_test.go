package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/huvtsp/alumni/api"
)

func TestLoggingMiddleware_AssignsRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = api.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	})

	handler := api.LoggingMiddleware(next)
	req := httptest.NewRequest(http.MethodGet, "/log", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if string(b) != "ok" {
		t.Fatalf("unexpected body: %q", string(b))
	}
	id := res.Header.Get("X-Request-ID")
	if len(id) != 36 || id != seen {
		t.Fatalf("expected generated uuid in header and context, got header=%q ctx=%q", id, seen)
	}
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	handler := api.LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/log", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Result().Header.Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected incoming request id to be echoed, got %q", got)
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := api.CORSMiddleware(next)

	// OPTIONS should return 204 and not call next
	reqOpt := httptest.NewRequest(http.MethodOptions, "/cors", nil)
	wOpt := httptest.NewRecorder()
	handler.ServeHTTP(wOpt, reqOpt)
	resOpt := wOpt.Result()
	defer resOpt.Body.Close()
	if resOpt.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for OPTIONS, got %d", resOpt.StatusCode)
	}
	if got := resOpt.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected CORS header set, got %q", got)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/cors", nil)
	wGet := httptest.NewRecorder()
	handler.ServeHTTP(wGet, reqGet)
	resGet := wGet.Result()
	defer resGet.Body.Close()
	if resGet.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for GET, got %d", resGet.StatusCode)
	}
	if got := resGet.Header.Get("Access-Control-Allow-Headers"); !strings.Contains(got, "X-Request-ID") {
		t.Fatalf("expected Allow-Headers to include X-Request-ID, got %q", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	pan := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := api.RecoveryMiddleware(pan)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 from panic recovery, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"error":"Internal Server Error"`) {
		t.Fatalf("unexpected body for recovery: %s", string(b))
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	w2 := httptest.NewRecorder()
	api.RecoveryMiddleware(ok).ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w2.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for normal path, got %d", w2.Result().StatusCode)
	}
}

func TestJWTAuthMiddlewareWithSecret(t *testing.T) {
	secret := "s3cr3t"
	var subject any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = r.Context().Value(api.CtxSubject)
		w.WriteHeader(http.StatusOK)
	})
	handler := api.JWTAuthMiddlewareWithSecret(secret)(next)

	sign := func(key string, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		return s
	}
	expired := sign(secret, jwt.RegisteredClaims{Subject: "site", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))})
	wrongKey := sign("other", jwt.RegisteredClaims{Subject: "site", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "MissingHeader", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "EmptyBearer", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "BadToken", authHeader: "Bearer bad.token.here", wantStatus: http.StatusUnauthorized},
		{name: "Expired", authHeader: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "WrongKey", authHeader: "Bearer " + wrongKey, wantStatus: http.StatusUnauthorized},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/jwt", nil)
			if c.authHeader != "" {
				req.Header.Set("Authorization", c.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Result().StatusCode != c.wantStatus {
				t.Fatalf("%s: want %d got %d", c.name, c.wantStatus, w.Result().StatusCode)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Fatalf("%s: expected JSON error body, got %s", c.name, w.Body.String())
			}
		})
	}

	valid := sign(secret, jwt.RegisteredClaims{Subject: "site", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	req := httptest.NewRequest(http.MethodGet, "/jwt", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("valid token: expected 200 got %d", w.Result().StatusCode)
	}
	if subject != "site" {
		t.Fatalf("expected subject in context, got %v", subject)
	}
}
