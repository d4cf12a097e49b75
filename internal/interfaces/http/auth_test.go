package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet/internal/shared/auth"
	"wallet/internal/shared/middleware"
	"wallet/internal/web"
)

const testPassword = "correct-horse"

var (
	hashOnce sync.Once
	testHash string
)

func newTestAuthHandler(t *testing.T, enabled bool) (*AuthHandler, *auth.JWT) {
	t.Helper()
	hashOnce.Do(func() {
		var err error
		testHash, err = auth.HashPassword(testPassword)
		require.NoError(t, err)
	})

	views, err := NewRenderer(web.FS)
	require.NoError(t, err)
	jwt := auth.NewJWT("test-secret", time.Hour)
	creds := auth.Credentials{Username: "admin", PasswordHash: testHash}
	return NewAuthHandler(creds, jwt, views, enabled), jwt
}

func postForm(h http.HandlerFunc, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestHandleLogin_Form(t *testing.T) {
	h, _ := newTestAuthHandler(t, true)

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, httptest.NewRequest(http.MethodGet, "/login?next=/fiis", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="next" value="/fiis"`)
	assert.Contains(t, rec.Body.String(), `action="/login"`)
}

func TestHandleLogin_Disabled(t *testing.T) {
	h, _ := newTestAuthHandler(t, false)

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHandleLogin_Submit(t *testing.T) {
	tests := []struct {
		name         string
		form         url.Values
		wantStatus   int
		wantLocation string
		wantSession  bool
	}{
		{
			name:         "valid credentials",
			form:         url.Values{"username": {"admin"}, "password": {testPassword}, "next": {"/proventos?period=year"}},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/proventos?period=year",
			wantSession:  true,
		},
		{
			name:         "foreign redirect is dropped",
			form:         url.Values{"username": {"admin"}, "password": {testPassword}, "next": {"//evil.example"}},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/",
			wantSession:  true,
		},
		{
			name:       "wrong password",
			form:       url.Values{"username": {"admin"}, "password": {"guess"}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong username",
			form:       url.Values{"username": {"root"}, "password": {testPassword}},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, jwt := newTestAuthHandler(t, true)

			rec := postForm(h.HandleLogin, "/login", tt.form)

			assert.Equal(t, tt.wantStatus, rec.Code)
			cookie := sessionCookie(rec)
			if !tt.wantSession {
				assert.Nil(t, cookie)
				assert.Contains(t, rec.Body.String(), "Usuário ou senha inválidos.")
				return
			}

			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

			claims, err := jwt.Validate(cookie.Value)
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.Subject)
		})
	}
}

func TestHandleLogin_MethodNotAllowed(t *testing.T) {
	h, _ := newTestAuthHandler(t, true)

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, httptest.NewRequest(http.MethodDelete, "/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleLogout(t *testing.T) {
	h, _ := newTestAuthHandler(t, true)

	rec := postForm(h.HandleLogout, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)

	get := httptest.NewRecorder()
	h.HandleLogout(get, httptest.NewRequest(http.MethodGet, "/logout", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, get.Code)
}

func TestLogin_OpensProtectedPages(t *testing.T) {
	h, jwt := newTestAuthHandler(t, true)
	pages := newTestHandler(t, sheetSource(walletSheets))
	protected := middleware.RequireSession(jwt)(testMux(pages))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fiis", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Ffiis", rec.Header().Get("Location"))

	login := postForm(h.HandleLogin, "/login", url.Values{"username": {"admin"}, "password": {testPassword}, "next": {"/fiis"}})
	cookie := sessionCookie(login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/fiis", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "MXRF11")
}
