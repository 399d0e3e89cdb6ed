package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"serenity-backend/internal/middleware"
	"serenity-backend/internal/models"
	"serenity-backend/internal/services"
)

const refreshTokenCookie = "refresh_token"
const refreshCookieMaxAge = 7 * 24 * 60 * 60

type AuthHandler struct {
	authService *services.AuthService
	jwt         *middleware.JWTAuth
	logger      *zap.Logger
	secure      bool
}

func NewAuthHandler(authService *services.AuthService, jwt *middleware.JWTAuth, logger *zap.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwt:         jwt,
		logger:      logger,
		secure:      secureCookies,
	}
}

// Home routes the browser to the chat page or the login page depending on
// whether the request carries a valid session.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if h.jwt.Authenticated(r) {
		http.Redirect(w, r, "/chat", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Signup handles the registration form. Conflicts surface as a generic
// plain-text message, matching the form flow.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	req := models.SignupRequest{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	_, err := h.authService.Register(r.Context(), req)
	if err != nil {
		var conflict *services.ConflictError
		var validation *services.ValidationError
		switch {
		case errors.As(err, &conflict):
			http.Error(w, "Email already in use", http.StatusConflict)
		case errors.As(err, &validation):
			http.Error(w, "Name, email and password are required", http.StatusBadRequest)
		default:
			h.logger.Error("signup failed", zap.Error(err))
			http.Error(w, "Something went wrong", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Login handles the login form. Unknown email and wrong password get the
// same answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	req := models.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	tokens, err := h.authService.Login(r.Context(), req)
	if err != nil {
		var unauthorized *services.UnauthorizedError
		if errors.As(err, &unauthorized) {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	h.setSessionCookies(w, tokens)
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// Logout clears all session state unconditionally and sends the browser
// back to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		if err := h.authService.Logout(r.Context(), c.Value); err != nil {
			h.logger.Warn("failed to drop session record", zap.Error(err))
		}
	}

	h.clearSessionCookies(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Refresh rotates the refresh token and issues a fresh access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Missing session", r))
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), c.Value)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.setSessionCookies(w, tokens)
	writeJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, tokens *models.AuthTokens) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		MaxAge:   tokens.ExpiresIn,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Path:     "/",
		MaxAge:   refreshCookieMaxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Validation failed", r))
	case *services.ConflictError:
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", e.Message, r))
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", e.Message, r))
	case *services.UnauthorizedError:
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", e.Message, r))
	case *services.ForbiddenError:
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", e.Message, r))
	case *services.UpstreamError:
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_UNAVAILABLE", "The assistant is unavailable right now", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
