package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"wallet/internal/shared/auth"
	"wallet/internal/shared/middleware"
)

type AuthHandler struct {
	credentials auth.Credentials
	jwt         *auth.JWT
	views       *Renderer
	enabled     bool
}

// NewAuthHandler serves the login form. With enabled false the dashboard is
// open and /login forwards to the home page.
func NewAuthHandler(credentials auth.Credentials, jwt *auth.JWT, views *Renderer, enabled bool) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		jwt:         jwt,
		views:       views,
		enabled:     enabled,
	}
}

type loginData struct {
	Page
	Next     string
	Username string
	Err      string
}

// HandleLogin shows the login form on GET and opens a session on POST.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.views.Render(w, r, http.StatusOK, viewLogin, loginData{
			Page: Page{Title: "Login", AuthEnabled: true},
			Next: middleware.SafeNext(r.URL.Query().Get("next")),
		})
	case http.MethodPost:
		h.login(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	next := middleware.SafeNext(r.PostFormValue("next"))
	logger := zerolog.Ctx(r.Context())

	if !h.credentials.Verify(username, r.PostFormValue("password")) {
		logger.Warn().Str("username", username).Msg("failed login")
		h.views.Render(w, r, http.StatusUnauthorized, viewLogin, loginData{
			Page:     Page{Title: "Login", AuthEnabled: true},
			Next:     next,
			Username: username,
			Err:      "Usuário ou senha inválidos.",
		})
		return
	}

	token, err := h.jwt.Generate(username)
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate session token")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	middleware.SetSession(w, token, int(h.jwt.TTL().Seconds()))
	logger.Info().Str("username", username).Msg("logged in")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// HandleLogout ends the session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	middleware.ClearSession(w)
	target := "/"
	if h.enabled {
		target = "/login"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
