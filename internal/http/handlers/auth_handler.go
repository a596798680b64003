package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/spacevoyager/bookings/internal/domain"
	sessionmw "github.com/spacevoyager/bookings/internal/http/middleware"
	"github.com/spacevoyager/bookings/internal/http/response"
	"github.com/spacevoyager/bookings/internal/platform/auth"
	"github.com/spacevoyager/bookings/internal/session"
	"github.com/spacevoyager/bookings/internal/validate"
	"github.com/spacevoyager/bookings/pkg/events"
	"github.com/spacevoyager/bookings/pkg/logger"
)

// loginRedirectDelay is how long the login page lingers on its success
// message before navigating away.
const loginRedirectDelay = 1500 * time.Millisecond

type AuthHandler struct {
	Store      *session.Store
	Bus        events.Publisher
	SessionTTL time.Duration
}

func NewAuthHandler(store *session.Store, bus events.Publisher, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{Store: store, Bus: bus, SessionTTL: sessionTTL}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/state", h.state)
	r.With(sessionmw.RequireSession).Get("/me", h.me)
	return r
}

// me echoes the claims behind the presented bearer token.
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	claims := sessionmw.Claims(r)
	response.WriteJSON(w, http.StatusOK, map[string]string{
		"email": claims.Email,
		"role":  claims.Role,
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		response.BadRequest(w, "invalid input")
		return
	}

	if errs := loginFieldErrors(in.Email, in.Password); len(errs) > 0 {
		response.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"code":   response.CodeValidationFailed,
			"fields": errs,
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if existing := h.Store.User(r.Context()); existing != nil && existing.Email == email {
		response.WriteError(w, http.StatusConflict, "an account with this email already exists", response.CodeEmailExists)
		return
	}

	hash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		response.InternalError(w, "could not create account")
		return
	}

	user := &domain.User{
		Email:        email,
		Name:         in.Name,
		PasswordHash: hash,
		Bookings:     []domain.Booking{},
		CreatedAt:    time.Now(),
	}
	if err := h.Store.SaveUser(r.Context(), user); err != nil {
		response.InternalError(w, "could not create account")
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]string{
		"email":   user.Email,
		"message": "account created",
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	if errs := loginFieldErrors(in.Email, in.Password); len(errs) > 0 {
		response.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"code":   response.CodeValidationFailed,
			"fields": errs,
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := "session"
	name := ""

	// A registered account, when one exists for this email, must verify
	// its password. Without one, format-valid credentials open a plain
	// session the way the login page always has.
	if user := h.Store.User(r.Context()); user != nil && user.Email == email {
		ok, err := argon2id.ComparePasswordAndHash(in.Password, user.PasswordHash)
		if err != nil || !ok {
			response.Unauthorized(w, "invalid credentials")
			return
		}
		role = "voyager"
		name = user.Name
	}

	if err := h.Store.SetSession(r.Context(), domain.Session{Email: email, IsLoggedIn: true}); err != nil {
		response.InternalError(w, "could not open session")
		return
	}

	token, err := auth.NewSessionToken(email, role, h.SessionTTL)
	if err != nil {
		response.InternalError(w, "could not issue token")
		return
	}

	if err := h.Bus.Publish(r.Context(), events.SessionOpened, events.SessionOpenedEvent{
		Email:    email,
		OpenedAt: time.Now(),
	}); err != nil {
		logger.ErrorContext(r.Context(), "Failed to publish session opened event", "error", err)
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":           token,
		"name":            name,
		"message":         "Login successful. Welcome aboard!",
		"redirect":        "index.html",
		"redirectAfterMs": loginRedirectDelay.Milliseconds(),
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	sess := h.Store.Session(r.Context())

	if err := h.Store.ClearSession(r.Context()); err != nil {
		response.InternalError(w, "could not close session")
		return
	}

	closed := events.SessionClosedEvent{ClosedAt: time.Now()}
	if sess != nil {
		closed.Email = sess.Email
	}
	if err := h.Bus.Publish(r.Context(), events.SessionClosed, closed); err != nil {
		logger.ErrorContext(r.Context(), "Failed to publish session closed event", "error", err)
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{
		"redirect": "login.html",
	})
}

// state drives the login-link/logout-button visibility toggle on page
// load. Absent or unreadable session state reads as logged out.
func (h *AuthHandler) state(w http.ResponseWriter, r *http.Request) {
	sess := h.Store.Session(r.Context())
	loggedIn := sess != nil && sess.IsLoggedIn

	out := map[string]interface{}{
		"loggedIn":         loggedIn,
		"showLoginLink":    !loggedIn,
		"showLogoutButton": loggedIn,
	}
	if loggedIn {
		out["email"] = sess.Email
	}
	response.WriteJSON(w, http.StatusOK, out)
}

func loginFieldErrors(email, password string) []validate.FieldError {
	var errs []validate.FieldError
	if !validate.LoginEmail(email) {
		errs = append(errs, validate.FieldError{Field: "email", Message: validate.MsgLoginEmail})
	}
	if !validate.LoginPassword(password) {
		errs = append(errs, validate.FieldError{Field: "password", Message: validate.MsgLoginPassword})
	}
	return errs
}
