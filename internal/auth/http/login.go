package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/auth/service"
	"github.com/gatehouse/gatehouse/pkg/httpx"
	"github.com/gatehouse/gatehouse/pkg/slogx"
)

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	AuthService  *service.AuthService
	Cookies      SessionCookieWriter
	ExposeErrors bool
}

// ServeHTTP godoc
//
//	@Summary		Password Login Endpoint
//	@Description	Authenticates a user by email and password and sets the session cookie on success.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		credentialsRequest	true	"email and password"
//	@Success		200		{object}	authResponse		"message, user"
//	@Failure		400		{object}	errorResponse		"missing fields"
//	@Failure		401		{object}	errorResponse		"invalid credentials"
//	@Failure		500		{object}	errorResponse		"internal error"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	user, token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Message: "Email and password are required",
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{
				Message: "Invalid credentials",
			})
		default:
			log.Error("login failed", "err", err)
			writeInternal(w, "Login failed", err, h.ExposeErrors)
		}
		return
	}

	h.Cookies.Write(w, token)
	httpx.WriteJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		User:    userPayload{ID: user.ID, Email: user.Email},
	})
}
