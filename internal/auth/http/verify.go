package http

import (
	"errors"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/auth/service"
	"github.com/gatehouse/gatehouse/pkg/httpx"
	"github.com/gatehouse/gatehouse/pkg/slogx"
)

// VerifyHandler serves GET /auth/verify, the redemption target of emailed
// magic links.
type VerifyHandler struct {
	AuthService  *service.AuthService
	Cookies      SessionCookieWriter
	ExposeErrors bool
}

// ServeHTTP godoc
//
//	@Summary		Magic Link Redemption Endpoint
//	@Description	Redeems a single-use magic token and sets the session cookie. Not-found, expired and already-used tokens all yield the same 401.
//	@Tags			Auth
//	@Produce		json
//	@Param			token	query		string			true	"raw magic token from the emailed link"
//	@Success		200		{object}	authResponse	"message, user"
//	@Failure		400		{object}	errorResponse	"missing token"
//	@Failure		401		{object}	errorResponse	"invalid, expired or used token"
//	@Failure		500		{object}	errorResponse	"internal error"
//	@Router			/auth/verify [get].
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	rawToken := r.URL.Query().Get("token")
	if rawToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Message: "Token is required"})
		return
	}

	user, session, err := h.AuthService.RedeemMagicLink(ctx, rawToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound),
			errors.Is(err, service.ErrTokenExpired),
			errors.Is(err, service.ErrTokenUsed):
			// One body for all three causes; a probing client learns
			// nothing about whether a token ever existed.
			httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{
				Message: "Invalid or expired magic link",
			})
		default:
			log.Error("magic link redemption failed", "err", err)
			writeInternal(w, "Login failed", err, h.ExposeErrors)
		}
		return
	}

	h.Cookies.Write(w, session)
	httpx.WriteJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		User:    userPayload{ID: user.ID, Email: user.Email},
	})
}
