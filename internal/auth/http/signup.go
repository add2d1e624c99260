package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/auth/service"
	"github.com/gatehouse/gatehouse/pkg/httpx"
	"github.com/gatehouse/gatehouse/pkg/slogx"
)

// SignupHandler serves POST /auth/signup.
type SignupHandler struct {
	AuthService  *service.AuthService
	Cookies      SessionCookieWriter
	ExposeErrors bool
}

// ServeHTTP godoc
//
//	@Summary		Signup Endpoint
//	@Description	Creates a user account with a hashed password and sets the session cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		credentialsRequest	true	"email and password"
//	@Success		201		{object}	authResponse		"message, user"
//	@Failure		400		{object}	errorResponse		"validation failure"
//	@Failure		409		{object}	errorResponse		"email already registered"
//	@Failure		500		{object}	errorResponse		"internal error"
//	@Router			/auth/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	user, token, err := h.AuthService.Signup(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Message: "Email and password are required",
			})
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Message: "Invalid email format",
			})
		case errors.Is(err, service.ErrPasswordTooShort):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Message: "Password must be at least 6 characters",
			})
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteJSON(w, http.StatusConflict, errorResponse{
				Message: "User already exists",
			})
		default:
			log.Error("signup failed", "err", err)
			writeInternal(w, "Error creating user", err, h.ExposeErrors)
		}
		return
	}

	h.Cookies.Write(w, token)
	httpx.WriteJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		User:    userPayload{ID: user.ID, Email: user.Email},
	})
}
