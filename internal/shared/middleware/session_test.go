package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet/internal/shared/auth"
)

func TestRequireSession(t *testing.T) {
	jwt := auth.NewJWT("test-secret", time.Hour)
	validToken, _ := jwt.Generate("admin")
	otherToken, _ := auth.NewJWT("other-secret", time.Hour).Generate("admin")

	tests := []struct {
		name           string
		target         string
		cookie         string
		expectedStatus int
		expectedTo     string
	}{
		{
			name:           "valid session",
			target:         "/acoes",
			cookie:         validToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no cookie on home",
			target:         "/",
			expectedStatus: http.StatusSeeOther,
			expectedTo:     "/login",
		},
		{
			name:           "no cookie keeps destination",
			target:         "/fiis?tab=proventos",
			expectedStatus: http.StatusSeeOther,
			expectedTo:     "/login?next=%2Ffiis%3Ftab%3Dproventos",
		},
		{
			name:           "token signed with another secret",
			target:         "/lancamentos",
			cookie:         otherToken,
			expectedStatus: http.StatusSeeOther,
			expectedTo:     "/login?next=%2Flancamentos",
		},
		{
			name:           "garbage token",
			target:         "/",
			cookie:         "not-a-token",
			expectedStatus: http.StatusSeeOther,
			expectedTo:     "/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := Username(r.Context()); got != "admin" {
					t.Errorf("Username() = %q, want %q", got, "admin")
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()

			RequireSession(jwt)(nextHandler).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if tt.expectedTo != "" {
				if got := rr.Header().Get("Location"); got != tt.expectedTo {
					t.Errorf("Location = %q, want %q", got, tt.expectedTo)
				}
			}
		})
	}
}

func TestRequireSession_ClearsRejectedCookie(t *testing.T) {
	jwt := auth.NewJWT("test-secret", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "stale"})
	rr := httptest.NewRecorder()

	RequireSession(jwt)(http.NotFoundHandler()).ServeHTTP(rr, req)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %v, want an expired %s cookie", cookies, SessionCookie)
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/acoes", "/acoes"},
		{"/fiis?tab=proventos", "/fiis?tab=proventos"},
		{"", "/"},
		{"https://evil.com", "/"},
		{"//evil.com", "/"},
		{"/\\evil.com", "/"},
	}
	for _, tt := range tests {
		if got := SafeNext(tt.next); got != tt.want {
			t.Errorf("SafeNext(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}
