package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/CyberG247/cafebyabujacar/internal/store"
)

const adminSession = "admin-session"

// AdminHandler is the staff surface: login, order management (the
// authoritative status source for live tracking), product management and
// dashboard stats.
type AdminHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	UploadDir    string
}

// CSRFToken hands a fresh token to API clients so the subsequent login
// POST can pass CSRF validation.
func CSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": csrf.Token(r)})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		slog.Warn("Failed admin login", "username", req.Username, "ip", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{
			Kind:    "unauthorized",
			Message: "Invalid username or password.",
		}})
		return
	}

	session, _ := h.SessionStore.Get(r, adminSession)
	session.Values["authenticated"] = true
	session.Values["username"] = user.Username
	if err := session.Save(r, w); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Admin logged in", "username", user.Username)
	writeJSON(w, http.StatusOK, map[string]string{
		"username":   user.Username,
		"csrf_token": csrf.Token(r),
	})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	session.Values["authenticated"] = false
	session.Options.MaxAge = -1
	session.Save(r, w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

// AuthMiddleware rejects requests without an authenticated staff session.
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, adminSession)
		if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{
				Kind:    "unauthorized",
				Message: "Staff login required.",
			}})
			return
		}
		next(w, r)
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
