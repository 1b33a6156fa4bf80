package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"moodjournal/internal/repository"
	"moodjournal/internal/services"
)

// WelcomeMailer greets newly registered users.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, email, name string) error
}

type AuthHandler struct {
	auth   *services.AuthService
	mailer WelcomeMailer
}

func NewAuthHandler(auth *services.AuthService, mailer WelcomeMailer) *AuthHandler {
	return &AuthHandler{auth: auth, mailer: mailer}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	TOTPCode string `json:"totpCode" validate:"omitempty,len=6,numeric"`
}

type authResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} authResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "user already exists with this email")
			return
		}
		serverError(w, r, "could not create user", err)
		return
	}
	if h.mailer != nil {
		if err := h.mailer.SendWelcomeEmail(r.Context(), user.Email, user.Name); err != nil {
			slog.Warn("welcome email failed", "user_id", user.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: ToUserDTO(*user)})
}

// Login godoc
// @Summary Exchange credentials for a token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} authResponse
// @Failure 401 {object} map[string]any
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password, req.TOTPCode)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, authResponse{Token: token, User: ToUserDTO(*user)})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrTwoFactorRequired), errors.Is(err, services.ErrInvalidTwoFactor):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": err.Error(), "twoFactorRequired": true})
	default:
		serverError(w, r, "could not log in", err)
	}
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.auth.ChangePassword(r.Context(), currentUser(r), req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		serverError(w, r, "could not change password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

type codeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

func (h *AuthHandler) SetupTwoFactor(w http.ResponseWriter, r *http.Request) {
	secret, url, err := h.auth.SetupTwoFactor(r.Context(), currentUser(r))
	if err != nil {
		if errors.Is(err, services.ErrEncryptionDisabled) {
			writeError(w, http.StatusServiceUnavailable, "two-factor authentication is not available on this server")
			return
		}
		serverError(w, r, "could not start two-factor setup", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"secret": secret, "otpauthUrl": url})
}

func (h *AuthHandler) EnableTwoFactor(w http.ResponseWriter, r *http.Request) {
	h.twoFactor(w, r, h.auth.EnableTwoFactor, "Two-factor authentication enabled")
}

func (h *AuthHandler) DisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	h.twoFactor(w, r, h.auth.DisableTwoFactor, "Two-factor authentication disabled")
}

func (h *AuthHandler) twoFactor(w http.ResponseWriter, r *http.Request, apply func(context.Context, int, string) error, ok string) {
	var req codeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := apply(r.Context(), currentUser(r), req.Code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": ok})
	case errors.Is(err, services.ErrInvalidTwoFactor):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrTwoFactorNotStarted), errors.Is(err, services.ErrTwoFactorDisabled):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEncryptionDisabled):
		writeError(w, http.StatusServiceUnavailable, "two-factor authentication is not available on this server")
	default:
		serverError(w, r, "could not update two-factor settings", err)
	}
}
