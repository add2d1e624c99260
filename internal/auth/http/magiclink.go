package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/auth/service"
	"github.com/gatehouse/gatehouse/pkg/httpx"
	"github.com/gatehouse/gatehouse/pkg/slogx"
)

// MagicLinkHandler serves POST /auth/magic-link.
type MagicLinkHandler struct {
	AuthService  *service.AuthService
	ExposeErrors bool
}

// ServeHTTP godoc
//
//	@Summary		Magic Link Request Endpoint
//	@Description	Requests a passwordless login link. The response is identical whether or not the email is registered.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		emailRequest	true	"email"
//	@Success		200		{object}	messageResponse	"message"
//	@Failure		400		{object}	errorResponse	"missing email"
//	@Failure		500		{object}	errorResponse	"internal error"
//	@Router			/auth/magic-link [post].
func (h *MagicLinkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.AuthService.RequestMagicLink(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEmail):
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Message: "Email is required",
			})
		default:
			log.Error("magic link request failed", "err", err)
			writeInternal(w, "Failed to send magic link", err, h.ExposeErrors)
		}
		return
	}

	// Deliberately the same body whether the email was registered or not.
	httpx.WriteJSON(w, http.StatusOK, messageResponse{
		Message: "Magic link sent if email exists",
	})
}
