package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

type fakeJWT struct{}

func (fakeJWT) Generate(int64, string) (string, error) { return "good", nil }

func (fakeJWT) Verify(token string) (jwt.Claims, error) {
	if token != "good" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	return jwt.Claims{UserID: 9, UserEmail: "user@example.com"}, nil
}

type staticID string

func (s staticID) Generate() string { return string(s) }

type body struct {
	Message string            `json:"message"`
	Data    map[string]any    `json:"data"`
	Error   map[string]string `json:"error"`
}

type payload struct {
	UserID int64 `json:"user_id"`
}

func (payload) Message() string { return "ok" }

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
app:
  maintenance:
    endpoints: "/api/v1/down"
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	r := NewRouter(Config{
		Config:     cfg,
		UUID:       staticID("generated-cid"),
		JWT:        fakeJWT{},
		Instrument: instrument.NewNoop(),
		Public:     []string{"POST /api/v1/open"},
	})

	r.POST("/api/v1/me", func(req *Request) (any, error) {
		return payload{UserID: jwt.GetAuth(req.Context()).UserID}, nil
	})
	r.POST("/api/v1/open", func(*Request) (any, error) { return nil, nil })
	r.POST("/api/v1/expired/:otp", func(req *Request) (any, error) {
		return nil, goerror.NewBusiness("OTP has expired! "+req.GetParam("otp"), goerror.CodeExpired)
	})
	r.POST("/api/v1/boom", func(*Request) (any, error) { return nil, errors.New("db down") })
	r.POST("/api/v1/panic", func(*Request) (any, error) { panic("kaboom") })
	r.GET("/api/v1/down", func(*Request) (any, error) { return payload{}, nil })

	return r
}

func do(t *testing.T, h http.Handler, method, path, token string) (*httptest.ResponseRecorder, body) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var b body
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
			t.Fatalf("response is not json: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, b
}

func TestRouter(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
		wantMsg    string
	}{
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK, wantMsg: "service is healthy"},
		{name: "extra public route", method: http.MethodPost, path: "/api/v1/open", wantStatus: http.StatusNoContent},
		{name: "missing token", method: http.MethodPost, path: "/api/v1/me", wantStatus: http.StatusUnauthorized, wantMsg: "Authentication required"},
		{name: "bad token", method: http.MethodPost, path: "/api/v1/me", token: "bad", wantStatus: http.StatusUnauthorized, wantMsg: "Invalid or expired token"},
		{name: "authenticated", method: http.MethodPost, path: "/api/v1/me", token: "good", wantStatus: http.StatusOK, wantMsg: "ok"},
		{name: "goerror status", method: http.MethodPost, path: "/api/v1/expired/123456", token: "good", wantStatus: http.StatusBadRequest, wantMsg: "OTP has expired! 123456"},
		{name: "plain error hidden", method: http.MethodPost, path: "/api/v1/boom", token: "good", wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
		{name: "panic recovered", method: http.MethodPost, path: "/api/v1/panic", token: "good", wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
		{name: "maintenance", method: http.MethodGet, path: "/api/v1/down", token: "good", wantStatus: http.StatusServiceUnavailable, wantMsg: "service is under maintenance"},
		{name: "not found", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound, wantMsg: "endpoint not found"},
		{name: "method not allowed", method: http.MethodGet, path: "/api/v1/me", wantStatus: http.StatusMethodNotAllowed, wantMsg: "method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec, b := do(t, r, tt.method, tt.path, tt.token)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if b.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", b.Message, tt.wantMsg)
			}
		})
	}
}

func TestRouter_ClaimsReachHandler(t *testing.T) {
	r := newTestRouter(t)

	_, b := do(t, r, http.MethodPost, "/api/v1/me", "good")
	if got := b.Data["user_id"]; got != float64(9) {
		t.Fatalf("user_id = %v, want 9", got)
	}
}

func TestRouter_CorrelationID(t *testing.T) {
	r := newTestRouter(t)

	rec, _ := do(t, r, http.MethodGet, "/health", "")
	if got := rec.Header().Get(HeaderCorrelationID); got != "generated-cid" {
		t.Fatalf("generated cid = %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "  from-proxy ")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderCorrelationID); got != "from-proxy" {
		t.Fatalf("forwarded cid = %q", got)
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "true client ip", headers: map[string]string{"True-Client-IP": "10.0.0.1"}, remote: "1.1.1.1:80", want: "10.0.0.1"},
		{name: "forwarded for", headers: map[string]string{"X-Forwarded-For": "10.0.0.2, 10.0.0.3"}, remote: "1.1.1.1:80", want: "10.0.0.2"},
		{name: "invalid header falls back", headers: map[string]string{"X-Real-IP": "nope"}, remote: "1.1.1.1:80", want: "1.1.1.1"},
		{name: "nothing usable", remote: "garbage", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := realIP(req); got != tt.want {
				t.Fatalf("realIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
